package wheel

import "github.com/atlas-wheel/wheel-core/pkg/types"

// ApplyEvents folds events left-to-right into a new PortfolioState, never
// mutating state. apply_events(s, []) == s and
// apply_events(apply_events(s, a), b) == apply_events(s, a++b) follow
// directly from this being a plain left fold with no hidden state.
func ApplyEvents(state *types.PortfolioState, events []types.Event) *types.PortfolioState {
	next := state.Clone()
	for _, ev := range events {
		applyOne(next, ev)
	}
	return next
}

func applyOne(p *types.PortfolioState, ev types.Event) {
	switch ev.Kind {
	case types.EventOptionSold:
		p.OpenOption = &types.OpenOption{
			Type:      ev.OptionType,
			Strike:    ev.Strike,
			Delta:     ev.Delta,
			Premium:   ev.Premium,
			OpenDay:   ev.OpenDay,
			ExpiryDay: ev.ExpiryDay,
		}
		if ev.OptionType == types.OptionPut {
			p.Phase = types.PhaseShortPut
		} else {
			p.Phase = types.PhaseShortCall
		}

	case types.EventOptionExpired:
		wasPut := p.OpenOption != nil && p.OpenOption.Type == types.OptionPut
		p.OpenOption = nil
		if ev.Assigned {
			p.TotalAssignments++
			if wasPut {
				p.Phase = types.PhaseHoldingEth
			} else {
				p.Phase = types.PhaseIdleCash
			}
		} else {
			if p.Position != nil {
				p.Phase = types.PhaseHoldingEth
			} else {
				p.Phase = types.PhaseIdleCash
			}
		}

	case types.EventEthBought:
		p.Position = &types.Position{Size: ev.Size, EntryPrice: ev.Price}

	case types.EventEthSold:
		p.Position = nil
		p.RealizedPL += ev.PL

	case types.EventPremiumCollected:
		p.TotalPremiumCollected += ev.Gross
		p.RealizedPL += ev.Net

	case types.EventCycleSkipped:
		p.TotalSkippedCycles++

	case types.EventPositionClosed:
		p.Position = nil
		p.RealizedPL += ev.PL
		p.Phase = types.PhaseIdleCash

	case types.EventOptionRolled:
		p.TotalPremiumCollected += ev.NewPremium
		p.RealizedPL += ev.NewPremium - ev.RollCost - ev.Fees
		p.OpenOption = &types.OpenOption{
			Type:    types.OptionCall,
			Strike:  ev.NewStrike,
			Delta:   ev.NewDelta,
			Premium: ev.NewPremium,
			OpenDay: ev.OpenDay,
			ExpiryDay: ev.ExpiryDay,
		}
		p.Phase = types.PhaseShortCall
	}
}
