package phone

import "strings"

// Normalize canonicalizes a phone number to a digits-only string so that
// values arriving from different sources compare equal. It handles the
// decorations seen in practice:
//
//   - transport suffix on inbound sender ids ("5511999998888@c.us")
//   - leading '+' and stray whitespace
//   - spreadsheet float artifacts on imported rosters ("5511999998888.0")
//
// Returns "" when no digits survive, which callers treat as "no number".
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)

	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[:i]
	}
	// Everything after a decimal point is a fractional artifact, never part
	// of the number.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
