package domain

import (
	"strconv"
	"strings"
)

// Field holds a single decoded cell value. Numeric coercion is attempted at
// decode time for designated columns; when it fails the original text is kept
// and Numeric stays false, so downstream code can inspect the outcome instead
// of re-parsing.
type Field struct {
	Text    string  `json:"text"`
	Number  float64 `json:"number,omitempty"`
	Numeric bool    `json:"numeric"`
}

// TextField creates a field holding a raw string value.
func TextField(text string) Field {
	return Field{Text: text}
}

// NumberField creates a field holding a successfully coerced numeric value.
func NumberField(text string, value float64) Field {
	return Field{Text: text, Number: value, Numeric: true}
}

// CoerceField attempts numeric coercion of a cell value. Thousands separators
// are stripped before parsing. On failure the original text is retained.
func CoerceField(text string) Field {
	trimmed := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if trimmed == "" {
		return TextField(text)
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return TextField(text)
	}
	return NumberField(text, value)
}

// Row is one decoded data row keyed by header name. A missing key means the
// source row had no cell for that column.
type Row map[string]Field

// Has reports whether the row contains the named field.
func (r Row) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Number returns the numeric value of the named field, or 0 when the field is
// absent or was not coerced to a number.
func (r Row) Number(name string) float64 {
	if f, ok := r[name]; ok && f.Numeric {
		return f.Number
	}
	return 0
}

// Text returns the trimmed string value of the named field, or "" when absent.
func (r Row) Text(name string) string {
	if f, ok := r[name]; ok {
		return strings.TrimSpace(f.Text)
	}
	return ""
}
