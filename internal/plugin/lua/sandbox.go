package lua

import (
	"strings"

	"github.com/dshills/textcore/internal/logging"
	lua "github.com/yuin/gopher-lua"
)

// removedGlobals are base library functions that can load code from disk
// or from strings outside the sandbox's control.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// Sandbox restricts what scripts can reach.
type Sandbox struct {
	L      *lua.LState
	logger *logging.Logger
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, logger *logging.Logger) *Sandbox {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &Sandbox{L: L, logger: logger}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installLoggingPrint()
}

// installLoggingPrint replaces print so script output goes to the logger
// at debug level instead of stdout.
func (s *Sandbox) installLoggingPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		s.logger.Debug("lua: %s", strings.Join(parts, "\t"))
		return 0
	}))
}

// Removed reports whether name is stripped from the global environment.
func (s *Sandbox) Removed(name string) bool {
	for _, r := range removedGlobals {
		if r == name {
			return true
		}
	}
	return false
}
