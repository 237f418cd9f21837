package shared

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timecapsule/internal/records"
	"timecapsule/internal/tui/theme"
)

var (
	inputPromptStyle = lipgloss.NewStyle().Foreground(theme.Secondary)
	inputErrorStyle  = lipgloss.NewStyle().Foreground(theme.Danger)
	inputBoxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(theme.Primary).Padding(0, 1)
)

// TextInputModel wraps bubbles/textinput with validation
type TextInputModel struct {
	Input     textinput.Model
	Prompt    string
	Validator func(string) error
	Error     string
	Width     int
}

// TextInputResultMsg is sent when input is confirmed or cancelled
type TextInputResultMsg struct {
	Value     string
	Cancelled bool
}

func NewTextInput(prompt, placeholder string, validator func(string) error) *TextInputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 256
	return &TextInputModel{
		Input:     ti,
		Prompt:    prompt,
		Validator: validator,
	}
}

// NewColorInput creates a text input that only accepts #RRGGBB colors.
func NewColorInput(prompt string) *TextInputModel {
	ti := NewTextInput(prompt, "#RRGGBB", records.ValidateColor)
	ti.Input.CharLimit = 7
	return ti
}

// Update implements tea.Model
func (m *TextInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if m.Validator != nil {
				if err := m.Validator(m.Input.Value()); err != nil {
					m.Error = err.Error()
					return m, nil
				}
			}
			value := m.Input.Value()
			return m, func() tea.Msg {
				return TextInputResultMsg{Value: value}
			}

		case "esc":
			return m, func() tea.Msg {
				return TextInputResultMsg{Cancelled: true}
			}
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)

	// Clear error when user types
	m.Error = ""

	return m, cmd
}

// View implements tea.Model
func (m *TextInputModel) View() string {
	content := inputPromptStyle.Render(m.Prompt+": ") + m.Input.View() + "\n"

	if m.Error != "" {
		content += inputErrorStyle.Render("Error: "+m.Error) + "\n"
	}

	content += theme.ModalHelp.Render("[enter] confirm  [esc] cancel")

	return inputBoxStyle.Width(m.Width).Render(content)
}

func (m *TextInputModel) Value() string {
	return m.Input.Value()
}

func (m *TextInputModel) SetValue(v string) {
	m.Input.SetValue(v)
}

// SetWidth sets both the outer box and inner input widths
func (m *TextInputModel) SetWidth(w int) {
	// Account for border (2) and padding (2)
	m.Width = w - 4
	m.Input.Width = m.Width - lipgloss.Width(m.Prompt+": ")
}

func (m *TextInputModel) Focus() tea.Cmd {
	return m.Input.Focus()
}

// ValidateDate accepts the stored MM-DD-YYYY form.
func ValidateDate(s string) error {
	_, err := records.ParseDate(s)
	return err
}
