package format

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// DefaultWrapWidth is the wrap column used when none is configured.
const DefaultWrapWidth = 80

// BuiltinOptions parameterises the built-in strategies.
type BuiltinOptions struct {
	Width  int    // wrap column for "wrap"
	Prefix string // text after the indentation of continuation lines for "indent"
}

// Builtin returns the built-in strategy called name.
func Builtin(name string, opts BuiltinOptions) (Strategy, error) {
	switch name {
	case "identity":
		return Identity(), nil
	case "trim":
		return Trim(), nil
	case "indent":
		return Indent(opts.Prefix), nil
	case "wrap":
		return Wrap(opts.Width), nil
	case "normalize":
		return Normalize(), nil
	case "upper":
		return Upper(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// BuiltinNames lists the names Builtin accepts.
func BuiltinNames() []string {
	return []string{"identity", "trim", "indent", "wrap", "normalize", "upper"}
}

// Identity returns its input unchanged.
func Identity() Strategy {
	return StrategyFunc(func(text string, _ bool, _ string, offsets []int) (string, []int, error) {
		out := make([]int, len(offsets))
		copy(out, offsets)
		return text, out, nil
	})
}

// Trim removes blanks before every newline.
func Trim() Strategy {
	return StrategyFunc(func(text string, _ bool, _ string, offsets []int) (string, []int, error) {
		var edits editList
		for i := 0; i < len(text); i++ {
			if text[i] != '\n' {
				continue
			}
			start := i
			for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
				start--
			}
			if start < i {
				edits = append(edits, textEdit{start: start, end: i})
			}
		}
		return edits.apply(text), edits.mapOffsets(offsets), nil
	})
}

// Indent gives every non-blank continuation line the partition's
// indentation followed by prefix.
func Indent(prefix string) Strategy {
	return StrategyFunc(func(text string, _ bool, indentation string, offsets []int) (string, []int, error) {
		want := indentation + prefix
		var edits editList
		for i := 0; i < len(text); i++ {
			if text[i] != '\n' {
				continue
			}
			start := i + 1
			end := start
			for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
				end++
			}
			if end == len(text) || text[end] == '\n' {
				continue
			}
			if text[start:end] != want {
				edits = append(edits, textEdit{start: start, end: end, repl: want})
			}
		}
		return edits.apply(text), edits.mapOffsets(offsets), nil
	})
}

// Wrap breaks lines at spaces so they fit in width display columns.
// Spaces become newlines in place, so no offset moves.
func Wrap(width int) Strategy {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	return StrategyFunc(func(text string, _ bool, indentation string, offsets []int) (string, []int, error) {
		b := []byte(text)
		col := uniseg.StringWidth(indentation)
		lastSpace := -1
		lineStart := 0

		for i := 0; i < len(b); {
			switch b[i] {
			case '\n':
				col = 0
				lastSpace = -1
				lineStart = i + 1
				i++
				continue
			case ' ':
				lastSpace = i
				col++
				i++
				continue
			}

			word := i
			for i < len(b) && b[i] != ' ' && b[i] != '\n' {
				i++
			}
			col += uniseg.StringWidth(string(b[word:i]))
			if col > width && lastSpace >= lineStart {
				b[lastSpace] = '\n'
				lineStart = lastSpace + 1
				col = uniseg.StringWidth(string(b[lineStart:i]))
			}
		}
		out := make([]int, len(offsets))
		copy(out, offsets)
		return string(b), out, nil
	})
}

// Normalize converts text to Unicode NFC, one offset segment at a time.
func Normalize() Strategy {
	return StrategyFunc(func(text string, _ bool, _ string, offsets []int) (string, []int, error) {
		formatted, moved := segmentwise(text, offsets, norm.NFC.String)
		return formatted, moved, nil
	})
}

// Upper upper-cases every rune whose upper-case form has the same encoded
// length. Other runes and invalid bytes are copied unchanged, so no offset
// moves.
func Upper() Strategy {
	return StrategyFunc(func(text string, _ bool, _ string, offsets []int) (string, []int, error) {
		b := []byte(text)
		for i := 0; i < len(b); {
			r, n := utf8.DecodeRune(b[i:])
			if r != utf8.RuneError || n > 1 {
				if up := unicode.ToUpper(r); up != r && utf8.RuneLen(up) == n {
					utf8.EncodeRune(b[i:], up)
				}
			}
			i += n
		}
		out := make([]int, len(offsets))
		copy(out, offsets)
		return string(b), out, nil
	})
}
