// SPDX-License-Identifier: MPL-2.0

package dotenv

import "strings"

const (
	stateUnquoted scanState = iota
	stateSingleQuoted
	stateDoubleQuoted
	// stateClosed follows a closing quote; only blanks and a comment may follow.
	stateClosed
)

type scanState int

// scanValue tokenizes the text after '=' into the stored value.
//
// The opening character decides the state: a leading ' or " enters the
// matching quoted state, anything else is unquoted. In the unquoted state a
// '#' ends the value. Inside quotes '#' is literal and the quotes are not part
// of the value.
func scanValue(raw string) (string, QuoteStyle, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", QuoteNone, nil
	}

	state := stateUnquoted
	quote := QuoteNone
	start := 0
	switch raw[0] {
	case '\'':
		state, quote, start = stateSingleQuoted, QuoteSingle, 1
	case '"':
		state, quote, start = stateDoubleQuoted, QuoteDouble, 1
	}

	var value strings.Builder
	value.Grow(len(raw))

scan:
	for i := start; i < len(raw); i++ {
		c := raw[i]

		switch state {
		case stateUnquoted:
			if c == '#' {
				break scan
			}
			value.WriteByte(c)

		case stateSingleQuoted:
			if c == '\'' {
				state = stateClosed
				continue
			}
			value.WriteByte(c)

		case stateDoubleQuoted:
			if c == '\\' && i+1 < len(raw) {
				i++
				writeEscape(&value, raw[i])
				continue
			}
			if c == '"' {
				state = stateClosed
				continue
			}
			value.WriteByte(c)

		case stateClosed:
			switch c {
			case ' ', '\t':
				continue
			case '#':
				break scan
			default:
				return "", quote, ErrTrailingCharacters
			}
		}
	}

	switch state {
	case stateSingleQuoted, stateDoubleQuoted:
		return "", quote, ErrUnterminatedQuote
	case stateUnquoted:
		return strings.TrimSpace(value.String()), quote, nil
	default:
		return value.String(), quote, nil
	}
}

// writeEscape writes the character denoted by a backslash escape inside a
// double-quoted value. Unknown escapes keep both characters.
func writeEscape(sb *strings.Builder, next byte) {
	switch next {
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case '\\', '"', '$':
		sb.WriteByte(next)
	default:
		sb.WriteByte('\\')
		sb.WriteByte(next)
	}
}
