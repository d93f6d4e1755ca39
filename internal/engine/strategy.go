package engine

import (
	"errors"
	"fmt"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/format"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/plugin/lua"
)

// ConfiguredStrategy is the strategy chain built for one content type.
// Close releases any Lua states it owns.
type ConfiguredStrategy struct {
	format.Strategy
	scripts []*lua.Strategy
}

// Close releases the chain's scripts.
func (s *ConfiguredStrategy) Close() error {
	var errs []error
	for _, script := range s.scripts {
		if err := script.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.scripts = nil
	return errors.Join(errs...)
}

// StrategyFromConfig builds the strategies fc names, chained in order.
func StrategyFromConfig(fc config.FormatterConfig, logger *logging.Logger) (*ConfiguredStrategy, error) {
	if logger == nil {
		logger = logging.NullLogger
	}
	if len(fc.Strategies) == 0 {
		return nil, fmt.Errorf("%w: no strategy named", ErrUnknownStrategy)
	}

	out := &ConfiguredStrategy{}
	chain := make([]format.Strategy, 0, len(fc.Strategies))
	opts := format.BuiltinOptions{Width: fc.Width, Prefix: fc.Prefix}

	for _, name := range fc.Strategies {
		if name == config.LuaStrategy {
			script, err := lua.NewStrategyFromFile(fc.Script, lua.WithLogger(logger.WithComponent("lua")))
			if err != nil {
				out.Close()
				return nil, err
			}
			out.scripts = append(out.scripts, script)
			chain = append(chain, script)
			continue
		}
		s, err := format.Builtin(name, opts)
		if err != nil {
			out.Close()
			return nil, err
		}
		chain = append(chain, s)
	}

	if len(chain) == 1 {
		out.Strategy = chain[0]
	} else {
		out.Strategy = format.Chain(chain...)
	}
	return out, nil
}
