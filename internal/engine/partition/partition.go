// Package partition provides a delimiter-rule partitioner for documents.
//
// Each Rule claims text beginning with its start delimiter and running to
// its end delimiter. Rules are tried in order at every offset; text no rule
// claims belongs to document.DefaultContentType. A multi-line rule whose
// end delimiter never appears runs to the end of the text; a single-line
// rule also stops before the next newline.
package partition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/textcore/internal/engine/document"
)

// ErrInvalidRule indicates a rule that can never match or that shadows
// the default content type.
var ErrInvalidRule = errors.New("invalid partition rule")

// Rule describes one delimited content type.
type Rule struct {
	ContentType string
	Start       string
	End         string // empty: runs to end of line (SingleLine) or text
	SingleLine  bool
	Escape      byte // skips the following byte; 0 disables escaping
}

// Partitioner partitions text with an ordered list of rules.
type Partitioner struct {
	rules []Rule
	types []string
}

// New creates a partitioner. Rules are tried in the order given.
func New(rules ...Rule) (*Partitioner, error) {
	p := &Partitioner{types: []string{document.DefaultContentType}}
	seen := map[string]bool{document.DefaultContentType: true}

	for i, r := range rules {
		switch {
		case r.Start == "":
			return nil, fmt.Errorf("%w: rule %d has no start delimiter", ErrInvalidRule, i)
		case r.ContentType == "":
			return nil, fmt.Errorf("%w: rule %d has no content type", ErrInvalidRule, i)
		case r.ContentType == document.DefaultContentType:
			return nil, fmt.Errorf("%w: rule %d uses the default content type", ErrInvalidRule, i)
		}
		p.rules = append(p.rules, r)
		if !seen[r.ContentType] {
			seen[r.ContentType] = true
			p.types = append(p.types, r.ContentType)
		}
	}
	return p, nil
}

// ContentTypes implements document.Partitioner.
func (p *Partitioner) ContentTypes() []string {
	out := make([]string, len(p.types))
	copy(out, p.types)
	return out
}

// Partition implements document.Partitioner.
func (p *Partitioner) Partition(text string) []document.TypedRegion {
	var out []document.TypedRegion
	plain := 0

	flush := func(end int) {
		if end > plain {
			out = append(out, document.TypedRegion{
				Offset: plain,
				Length: end - plain,
				Type:   document.DefaultContentType,
			})
		}
	}

	for i := 0; i < len(text); {
		r, ok := p.match(text, i)
		if !ok {
			i++
			continue
		}
		end := scanEnd(text, i+len(r.Start), r)
		flush(i)
		out = append(out, document.TypedRegion{Offset: i, Length: end - i, Type: r.ContentType})
		i = end
		plain = end
	}
	flush(len(text))
	return out
}

func (p *Partitioner) match(text string, offset int) (Rule, bool) {
	rest := text[offset:]
	for _, r := range p.rules {
		if strings.HasPrefix(rest, r.Start) {
			return r, true
		}
	}
	return Rule{}, false
}

// scanEnd returns the exclusive end of a region whose body starts at from.
func scanEnd(text string, from int, r Rule) int {
	for j := from; j < len(text); {
		c := text[j]
		switch {
		case r.SingleLine && c == '\n':
			return j
		case r.Escape != 0 && c == r.Escape:
			j += 2
			continue
		case r.End != "" && strings.HasPrefix(text[j:], r.End):
			return j + len(r.End)
		}
		j++
	}
	return len(text)
}
