// Package wheel implements the pure state layer of the wheel strategy: the
// initial portfolio and the event reducer that folds execution facts into a
// new portfolio state. Nothing here consults randomness, the clock, or any
// data source beyond its arguments.
package wheel

import "github.com/atlas-wheel/wheel-core/pkg/types"

// NewPortfolio returns the starting state of every simulation: idle cash,
// no position, no open option, every counter at zero.
func NewPortfolio() *types.PortfolioState {
	return &types.PortfolioState{
		Phase: types.PhaseIdleCash,
	}
}

// Snapshot returns an independent deep copy of state, safe to retain in a
// SignalLogEntry after the live state has moved on.
func Snapshot(state *types.PortfolioState) *types.PortfolioState {
	return state.Clone()
}
