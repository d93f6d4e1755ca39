package lua

import (
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// FormatFunction is the global a script must define.
const FormatFunction = "format"

// Strategy formats partitions by calling a script's format function.
type Strategy struct {
	mu     sync.Mutex
	state  *State
	bridge *Bridge
	name   string
}

// NewStrategy loads script into a fresh sandboxed state.
// Returns ErrNoFormatFunction if the script does not define format.
func NewStrategy(script string, opts ...StateOption) (*Strategy, error) {
	return newStrategy("<script>", opts, func(s *State) error {
		return s.DoString(script)
	})
}

// NewStrategyFromFile loads the script at path.
func NewStrategyFromFile(path string, opts ...StateOption) (*Strategy, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return newStrategy(path, opts, func(s *State) error {
		return s.DoFile(path)
	})
}

func newStrategy(name string, opts []StateOption, load func(*State) error) (*Strategy, error) {
	state := NewState(opts...)
	if err := load(state); err != nil {
		state.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if fn := state.GetGlobal(FormatFunction); fn.Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoFormatFunction)
	}
	state.logger.Debug("loaded lua strategy %s", name)
	return &Strategy{
		state:  state,
		bridge: NewBridge(state.L),
		name:   name,
	}, nil
}

// Name returns the script path, or "<script>" for inline scripts.
func (s *Strategy) Name() string {
	return s.name
}

// Format calls format(text, is_line_start, indentation, offsets).
func (s *Strategy) Format(text string, isLineStart bool, indentation string, offsets []int) (string, []int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.state.Call(FormatFunction,
		lua.LString(text),
		lua.LBool(isLineStart),
		lua.LString(indentation),
		s.bridge.OffsetsToTable(offsets),
	)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", s.name, err)
	}
	if len(results) < 2 {
		return "", nil, fmt.Errorf("%s: %w: expected 2 results, got %d", s.name, ErrBadResult, len(results))
	}

	out, err := s.bridge.ToText(results[0])
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", s.name, err)
	}
	mapped, err := s.bridge.TableToOffsets(results[1], len(offsets))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return out, mapped, nil
}

// Close releases the script's state.
func (s *Strategy) Close() error {
	return s.state.Close()
}
