// Package risk implements position sizing and profit/loss calculation for
// forex trades on a USD account.
package risk

import (
	"math"

	"forex-coach/internal/errors"
	"forex-coach/internal/models"
)

// MinRiskReward is the minimum risk/reward ratio at which a plan may be
// committed. Below it the ratio warning becomes a hard gate.
const MinRiskReward = 2.0

// Warning flags attached to a plan result. Warnings are non-blocking and
// computed independently of each other.
const (
	WarnAggressiveRisk = "aggressive_risk"   // risk percentage above 3%
	WarnTightStop      = "tight_stop"        // stop distance under 5 pips
	WarnLowRatio       = "low_ratio"         // risk/reward below minimum
	WarnCrossApprox    = "cross_pair_approx" // cross pair sized with the 1:1 quote-to-USD fallback
)

// PlanInput holds the calculator inputs. Rates may be nil; the calculator
// degrades to the documented cross-pair approximation.
type PlanInput struct {
	Symbol          models.Symbol
	Direction       models.Direction
	AccountBalance  float64
	RiskPercent     float64
	EntryPrice      float64
	StopLossPrice   float64
	TakeProfitPrice float64
	Rates           models.RateTable
}

// PlanResult holds calculator output. Nil numeric fields mean "not
// computable", never zero. The calculator is total: it reports via fields
// and never panics.
type PlanResult struct {
	// Incomplete is set when any required numeric input is not strictly
	// positive. This is an empty-form state, not a failure.
	Incomplete bool

	// PriceError is set when stop or target sits on the wrong side of the
	// entry for the direction; no numbers are produced.
	PriceError *errors.PriceLogicError

	Warnings []string

	MoneyAtRisk     *float64
	RiskRewardRatio *float64
	PotentialProfit *float64
	Lots            *float64
	PipValue        *float64
}

// HasWarning reports whether the named warning was raised.
func (r *PlanResult) HasWarning(name string) bool {
	for _, w := range r.Warnings {
		if w == name {
			return true
		}
	}
	return false
}

// CommitAllowed reports whether the result may be saved as a RiskPlan:
// inputs complete, no price-logic error, and risk/reward at least
// MinRiskReward. This is a hard business rule, not merely a warning.
func (r *PlanResult) CommitAllowed() bool {
	return !r.Incomplete &&
		r.PriceError == nil &&
		r.RiskRewardRatio != nil &&
		*r.RiskRewardRatio >= MinRiskReward
}

// Plan converts a committable result plus its inputs into a RiskPlan.
// Returns nil when the commit gate fails.
func (r *PlanResult) Plan(in PlanInput) *models.RiskPlan {
	if !r.CommitAllowed() {
		return nil
	}
	return &models.RiskPlan{
		RiskPercent:      models.Float64Ptr(in.RiskPercent),
		EntryPrice:       models.Float64Ptr(in.EntryPrice),
		StopLossPrice:    models.Float64Ptr(in.StopLossPrice),
		TakeProfitPrice:  models.Float64Ptr(in.TakeProfitPrice),
		RiskRewardRatio:  r.RiskRewardRatio,
		PositionSizeLots: r.Lots,
	}
}

// ComputePlan runs the position sizing calculation for a trade idea.
//
// Sizing works in the pair's quote currency and converts the per-unit risk
// into USD: a USD quote passes through, a USD base divides by the entry
// price, and a cross pair divides by the quote currency's USD rate. A cross
// pair with no rate available falls back to treating the quote amount as
// equal to USD and raises WarnCrossApprox, never silently.
func ComputePlan(in PlanInput) PlanResult {
	var res PlanResult

	if in.AccountBalance <= 0 || in.RiskPercent <= 0 ||
		in.EntryPrice <= 0 || in.StopLossPrice <= 0 || in.TakeProfitPrice <= 0 {
		res.Incomplete = true
		return res
	}

	if err := validatePriceLogic(in); err != nil {
		res.PriceError = err
		return res
	}

	if in.RiskPercent > 3 {
		res.Warnings = append(res.Warnings, WarnAggressiveRisk)
	}

	stopDistance := math.Abs(in.EntryPrice - in.StopLossPrice)
	stopPips := stopDistance * in.Symbol.PipMultiplier()
	if stopPips > 0 && stopPips < 5 {
		res.Warnings = append(res.Warnings, WarnTightStop)
	}

	moneyToRisk := in.AccountBalance * in.RiskPercent / 100
	res.MoneyAtRisk = &moneyToRisk

	rewardDistance := math.Abs(in.TakeProfitPrice - in.EntryPrice)
	if stopDistance > 0 {
		ratio := rewardDistance / stopDistance
		res.RiskRewardRatio = &ratio
		profit := moneyToRisk * ratio
		res.PotentialProfit = &profit
		if ratio < MinRiskReward {
			res.Warnings = append(res.Warnings, WarnLowRatio)
		}
	}

	riskPerUnitUSD, approx := quoteToUSD(stopDistance, in.Symbol, in.EntryPrice, in.Rates)
	if approx {
		res.Warnings = append(res.Warnings, WarnCrossApprox)
	}
	if riskPerUnitUSD > 0 {
		lots := (moneyToRisk / riskPerUnitUSD) / models.StandardLotUnits
		res.Lots = &lots

		res.PipValue = pipValueUSD(in.Symbol, lots, in.EntryPrice, in.Rates)
	}

	return res
}

// validatePriceLogic checks that the stop and target are on the correct
// side of the entry for the direction.
func validatePriceLogic(in PlanInput) *errors.PriceLogicError {
	switch in.Direction {
	case models.DirectionLong:
		if in.StopLossPrice >= in.EntryPrice {
			return errors.NewPriceLogicError(string(in.Direction), "stop_loss",
				"stop loss must be below entry for a long")
		}
		if in.TakeProfitPrice <= in.EntryPrice {
			return errors.NewPriceLogicError(string(in.Direction), "take_profit",
				"take profit must be above entry for a long")
		}
	case models.DirectionShort:
		if in.StopLossPrice <= in.EntryPrice {
			return errors.NewPriceLogicError(string(in.Direction), "stop_loss",
				"stop loss must be above entry for a short")
		}
		if in.TakeProfitPrice >= in.EntryPrice {
			return errors.NewPriceLogicError(string(in.Direction), "take_profit",
				"take profit must be below entry for a short")
		}
	}
	return nil
}

// quoteToUSD converts an amount expressed in the pair's quote currency into
// USD. The second return value reports that the 1:1 cross-pair fallback was
// used because no quote rate was available.
func quoteToUSD(amount float64, symbol models.Symbol, entryPrice float64, rates models.RateTable) (float64, bool) {
	switch {
	case symbol.Quote() == models.USD:
		return amount, false
	case symbol.Base() == models.USD:
		// Entry price quotes quote-per-base, so one quote unit is worth
		// 1/price USD.
		if entryPrice <= 0 {
			return 0, false
		}
		return amount / entryPrice, false
	default:
		if rate, ok := rates.Rate(symbol.Quote()); ok {
			return amount / rate, false
		}
		return amount, true
	}
}

// pipValueUSD computes the USD value of one pip for the given lot size, or
// nil when a cross pair has no usable rate.
func pipValueUSD(symbol models.Symbol, lots, entryPrice float64, rates models.RateTable) *float64 {
	units := lots * models.StandardLotUnits
	pipQuote := symbol.PipSize() * units

	switch {
	case symbol.Quote() == models.USD:
		return &pipQuote
	case symbol.Base() == models.USD:
		if entryPrice <= 0 {
			return nil
		}
		v := pipQuote / entryPrice
		return &v
	default:
		if rate, ok := rates.Rate(symbol.Quote()); ok {
			v := pipQuote / rate
			return &v
		}
		return nil
	}
}
