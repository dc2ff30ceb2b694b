// Package datemask implements a DD/MM/YYYY text-entry mask. The masked
// string is always rebuilt from the raw digit stream, never patched in
// place, which keeps the caret math trivial for callers.
package datemask

import (
	"strings"
	"time"
)

// ValidISO reports whether value is a storable date in report form.
// Empty passes: dates stay optional until the step submits.
func ValidISO(value string) bool {
	if value == "" {
		return true
	}
	_, err := time.Parse(reportLayout, value)
	return err == nil
}

type State string

const (
	StateEmpty    State = "EMPTY"
	StatePartial  State = "PARTIAL"
	StateComplete State = "COMPLETE"
)

const (
	maxDigits     = 8
	displayLayout = "02/01/2006"
	reportLayout  = "2006-01-02"
)

// Mask is a single date field. Min and Max, when non-zero, clamp completed
// values to the bound and report the bound instead of the typed date.
type Mask struct {
	Min time.Time
	Max time.Time

	digits string
}

func New() *Mask {
	return &Mask{}
}

func NewBounded(min, max time.Time) *Mask {
	return &Mask{Min: min, Max: max}
}

func (m *Mask) State() State {
	switch {
	case len(m.digits) == 0:
		return StateEmpty
	case len(m.digits) < maxDigits:
		return StatePartial
	default:
		return StateComplete
	}
}

// Input replaces the field content with the given raw text and returns the
// masked display string. Non-digit characters are dropped, so pasting
// "15/01/1990" and typing "15011990" are equivalent.
func (m *Mask) Input(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		if b.Len() == maxDigits {
			break
		}
	}
	m.digits = b.String()
	return m.Display()
}

// Display renders the digit stream with separators inserted after the day
// and month groups.
func (m *Mask) Display() string {
	var b strings.Builder
	for i, r := range m.digits {
		if i == 2 || i == 4 {
			b.WriteByte('/')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Complete parses a full digit stream to a calendar date. It returns the
// zero time and false for partial or calendar-invalid input.
func (m *Mask) complete() (time.Time, bool) {
	if len(m.digits) < maxDigits {
		return time.Time{}, false
	}
	parsed, err := time.Parse(displayLayout, m.Display())
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// Value reports the committed date in ISO form once the field is complete,
// clamped to Min/Max when bounds are set. Partial input yields "".
func (m *Mask) Value() string {
	parsed, ok := m.complete()
	if !ok {
		return ""
	}
	parsed = m.clamp(parsed)
	return parsed.Format(reportLayout)
}

func (m *Mask) clamp(t time.Time) time.Time {
	if !m.Min.IsZero() && t.Before(m.Min) {
		return m.Min
	}
	if !m.Max.IsZero() && t.After(m.Max) {
		return m.Max
	}
	return t
}

// Blur commits the field. A complete, calendar-valid date is normalized and
// returned in ISO form; anything else clears the field entirely. The empty
// string return value doubles as the cleared display text.
func (m *Mask) Blur() string {
	parsed, ok := m.complete()
	if !ok {
		m.digits = ""
		return ""
	}
	parsed = m.clamp(parsed)
	m.digits = parsed.Format("02012006")
	return parsed.Format(reportLayout)
}
