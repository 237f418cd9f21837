package tui

import "timecapsule/internal/tui/messages"

// Re-export types from messages package for convenience
type ViewType = messages.ViewType

const (
	ViewDates      = messages.ViewDates
	ViewCategories = messages.ViewCategories
)

type SwitchViewMsg = messages.SwitchViewMsg
type DataRefreshMsg = messages.DataRefreshMsg
type StatusMsg = messages.StatusMsg
