package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"timecapsule/internal/logs"
)

// ErrCorrupt is matched by errors returned when a persisted file cannot be parsed.
var ErrCorrupt = errors.New("corrupt store")

// CorruptError reports a persisted file that is not a valid store.
type CorruptError struct {
	Path string
	Msg  string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrCorrupt, e.Path, e.Msg)
}

func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}

var prettyOptions = &pretty.Options{Width: 80, Indent: "    "}

// DateStore persists Records as a JSON object of name -> {date, notes, category}.
type DateStore struct {
	path string
}

func NewDateStore(path string) *DateStore {
	return &DateStore{path: path}
}

func (s *DateStore) Path() string {
	return s.path
}

// Load reads the dates file. A missing file yields an empty collection.
// Entries stored as a bare date string are upcast to the full record shape.
func (s *DateStore) Load() (*Records, error) {
	recs := NewRecords()
	legacy := 0
	err := readObject(s.path, func(name string, value gjson.Result) error {
		switch {
		case value.Type == gjson.String:
			legacy++
			recs.Upsert(DateRecord{Name: name, Date: value.Str})
		case value.IsObject():
			date := value.Get("date")
			if date.Type != gjson.String {
				return fmt.Errorf("entry %q has no date", name)
			}
			recs.Upsert(DateRecord{
				Name:     name,
				Date:     date.Str,
				Notes:    value.Get("notes").String(),
				Category: value.Get("category").String(),
			})
		default:
			return fmt.Errorf("entry %q is neither a date string nor an object", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if legacy > 0 {
		logs.Logger.Printf("Upcast %d legacy entries from %s", legacy, s.path)
	}
	return recs, nil
}

// Save replaces the dates file with recs.
func (s *DateStore) Save(recs *Records) error {
	all := recs.All()
	values := make([]any, len(all))
	keys := make([]string, len(all))
	for i, rec := range all {
		keys[i] = rec.Name
		values[i] = rec
	}
	return writeObject(s.path, keys, values)
}

// CategoryStore persists Categories as a JSON object of name -> "#RRGGBB".
type CategoryStore struct {
	path string
}

func NewCategoryStore(path string) *CategoryStore {
	return &CategoryStore{path: path}
}

func (s *CategoryStore) Path() string {
	return s.path
}

// Load reads the categories file. A missing file yields an empty collection.
func (s *CategoryStore) Load() (*Categories, error) {
	cats := NewCategories()
	err := readObject(s.path, func(name string, value gjson.Result) error {
		if value.Type != gjson.String {
			return fmt.Errorf("category %q has no color", name)
		}
		cats.Set(name, value.Str)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

// Save replaces the categories file with cats.
func (s *CategoryStore) Save(cats *Categories) error {
	all := cats.All()
	keys := make([]string, len(all))
	values := make([]any, len(all))
	for i, c := range all {
		keys[i] = c.Name
		values[i] = c.Color
	}
	return writeObject(s.path, keys, values)
}

// Quarantine moves a corrupt file aside so a fresh store can be started.
// It returns the new location of the file.
func Quarantine(path string) (string, error) {
	dst := fmt.Sprintf("%s.corrupt-%s", path, time.Now().Format("20060102150405"))
	if err := os.Rename(path, dst); err != nil {
		return "", fmt.Errorf("error moving %s aside: %w", path, err)
	}
	logs.Logger.Printf("Moved corrupt store %s to %s", path, dst)
	return dst, nil
}

// readObject calls fn for every member of the JSON object in path, in document order.
func readObject(path string, fn func(key string, value gjson.Result) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return &CorruptError{Path: path, Msg: "malformed JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return &CorruptError{Path: path, Msg: "top level is not an object"}
	}

	var cbErr error
	root.ForEach(func(key, value gjson.Result) bool {
		if err := fn(key.String(), value); err != nil {
			cbErr = &CorruptError{Path: path, Msg: err.Error()}
			return false
		}
		return true
	})
	return cbErr
}

// writeObject encodes keys/values as one indented JSON object and swaps it into path.
func writeObject(path string, keys []string, values []any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := enc.Encode(values[i]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')

	data := pretty.PrettyOptions(buf.Bytes(), prettyOptions)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
