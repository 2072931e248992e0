// Package strategies bundles the reference signal generators shipped
// with the CLI. The engine itself treats every strategy as an opaque
// callback; anything satisfying backtest.OnBars or backtest.OnTicks
// plugs in the same way.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/sierrabt/backtest"
)

// ByName resolves a bar strategy. fast/slow configure the MA cross.
func ByName(name string, fast, slow int) (backtest.OnBars, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop(), nil
	case "open-once", "openonce":
		return OpenOnce(), nil
	case "sma-cross", "smacross":
		return SMACross(fast, slow)
	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, open-once, sma-cross)", name)
	}
}

// TickByName resolves a tick strategy.
func TickByName(name string, fast, slow int) (backtest.OnTicks, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return NoopTicks(), nil
	case "open-once", "openonce":
		return OpenOnceTicks(), nil
	case "ema-cross", "emacross":
		return EMACrossTicks(fast, slow)
	default:
		return nil, fmt.Errorf("unknown tick strategy %q (supported: noop, open-once, ema-cross)", name)
	}
}
