package lua

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// Bridge converts formatting arguments and results between Go and Lua.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// OffsetsToTable converts offsets to a Lua array (1-based keys, 0-based values).
func (b *Bridge) OffsetsToTable(offsets []int) *lua.LTable {
	t := b.L.CreateTable(len(offsets), 0)
	for i, v := range offsets {
		t.RawSetInt(i+1, lua.LNumber(v))
	}
	return t
}

// TableToOffsets reads want integer entries from a Lua array.
// Entries must be whole numbers; missing or extra entries are errors.
func (b *Bridge) TableToOffsets(lv lua.LValue, want int) ([]int, error) {
	t, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: offsets must be a table, got %s", ErrBadResult, lv.Type())
	}
	if n := t.Len(); n != want {
		return nil, fmt.Errorf("%w: %d offsets returned for %d", ErrBadResult, n, want)
	}

	out := make([]int, want)
	for i := range out {
		num, ok := t.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			return nil, fmt.Errorf("%w: offset %d is not a number", ErrBadResult, i+1)
		}
		f := float64(num)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: offset %d is not an integer: %v", ErrBadResult, i+1, f)
		}
		out[i] = int(f)
	}
	return out, nil
}

// ToText converts a returned Lua string.
func (b *Bridge) ToText(lv lua.LValue) (string, error) {
	s, ok := lv.(lua.LString)
	if !ok {
		return "", fmt.Errorf("%w: text must be a string, got %s", ErrBadResult, lv.Type())
	}
	return string(s), nil
}
