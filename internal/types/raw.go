package types

import "strings"

// ScanRaw walks raw text, calling emit for every literal run and mark for
// every positional placeholder. ?? is emitted as a literal question mark.
// Question marks inside single-quoted string literals and double-quoted
// identifiers are left untouched.
func ScanRaw(text string, emit func(string), mark func()) {
	var lit strings.Builder
	var quote byte
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case ch == '\'' || ch == '"':
			if quote == 0 {
				quote = ch
			} else if quote == ch {
				quote = 0
			}
			lit.WriteByte(ch)
		case ch == '?' && quote == 0:
			if i+1 < len(text) && text[i+1] == '?' {
				lit.WriteByte('?')
				i++
				continue
			}
			if lit.Len() > 0 {
				emit(lit.String())
				lit.Reset()
			}
			mark()
		default:
			lit.WriteByte(ch)
		}
	}
	if lit.Len() > 0 {
		emit(lit.String())
	}
}

// CountPlaceholders returns the number of positional placeholders in text.
func CountPlaceholders(text string) int {
	n := 0
	ScanRaw(text, func(string) {}, func() { n++ })
	return n
}

// Validate checks that the placeholder count matches the value count.
func (r Raw) Validate() error {
	if n := CountPlaceholders(r.Text); n != len(r.Values) {
		return &MalformedRawError{Text: r.Text, Placeholders: n, Values: len(r.Values)}
	}
	return nil
}
