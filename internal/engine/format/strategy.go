package format

// Strategy formats the text of one partition.
//
// offsets are positions in text, in ascending order. Format returns the new
// text and, for every input offset, where that offset ended up in the new
// text. The returned slice must have the same length as offsets.
//
// isLineStart reports whether only whitespace precedes the partition on its
// line; indentation is the leading whitespace of that line.
type Strategy interface {
	Format(text string, isLineStart bool, indentation string, offsets []int) (string, []int, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(text string, isLineStart bool, indentation string, offsets []int) (string, []int, error)

// Format implements Strategy.
func (f StrategyFunc) Format(text string, isLineStart bool, indentation string, offsets []int) (string, []int, error) {
	return f(text, isLineStart, indentation, offsets)
}

// Chain runs strategies in order, feeding each one the text and offsets
// produced by the previous one.
func Chain(strategies ...Strategy) Strategy {
	return StrategyFunc(func(text string, isLineStart bool, indentation string, offsets []int) (string, []int, error) {
		for _, s := range strategies {
			var err error
			n := len(offsets)
			text, offsets, err = s.Format(text, isLineStart, indentation, offsets)
			if err != nil {
				return "", nil, err
			}
			if len(offsets) != n {
				return "", nil, ErrStrategyContract
			}
		}
		return text, offsets, nil
	})
}
