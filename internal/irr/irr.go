// Package irr implements the internal-rate-of-return calculation primitive:
// given a dated series of cash flows and a terminal valuation, it solves for
// the annualised discount rate at which the series' net present value is zero.
package irr

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrNotComputable indicates the flow series does not determine a rate:
// fewer than two dated data points, no sign change, or no root in the
// searched range. Callers treat this as an expected outcome, not a failure.
var ErrNotComputable = errors.New("irr not computable")

// CashFlow is a single dated cash flow. Investor outflows (money paid in)
// are negative, inflows positive.
type CashFlow struct {
	Date   time.Time
	Amount float64
}

const (
	maxNewtonIterations    = 100
	maxBisectionIterations = 200
	convergenceTol         = 1e-9
	residualTol            = 1e-6
)

// Compute solves for the periodic (annualised, actual/365) rate of return of
// the cash-flow series terminated by the given valuation. The terminal value
// is appended as a positive inflow on terminalDate.
func Compute(flows []CashFlow, terminalDate time.Time, terminalValue float64) (float64, error) {
	all := make([]CashFlow, 0, len(flows)+1)
	all = append(all, flows...)
	all = append(all, CashFlow{Date: terminalDate, Amount: terminalValue})

	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })

	// Drop zero flows: they carry no information and can mask the
	// fewer-than-two-points case.
	nonzero := all[:0]
	for _, f := range all {
		if f.Amount != 0 {
			nonzero = append(nonzero, f)
		}
	}
	all = nonzero

	if len(all) < 2 {
		return 0, ErrNotComputable
	}

	hasNeg, hasPos := false, false
	for _, f := range all {
		if f.Amount < 0 {
			hasNeg = true
		} else {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return 0, ErrNotComputable
	}

	base := all[0].Date
	years := func(d time.Time) float64 {
		return d.Sub(base).Hours() / 24.0 / 365.0
	}

	// All flows on the same day: no time elapses, no rate is defined.
	if years(all[len(all)-1].Date) == 0 {
		return 0, ErrNotComputable
	}

	npv := func(r float64) float64 {
		s := 0.0
		for _, f := range all {
			s += f.Amount / math.Pow(1.0+r, years(f.Date))
		}
		return s
	}

	if rate, ok := newton(npv, 0.1); ok {
		return rate, nil
	}

	if rate, ok := bisect(npv); ok {
		return rate, nil
	}

	return 0, ErrNotComputable
}

// newton runs Newton-Raphson with a numeric derivative from the given seed.
func newton(npv func(float64) float64, seed float64) (float64, bool) {
	deriv := func(r float64) float64 {
		h := 1e-6
		return (npv(r+h) - npv(r-h)) / (2 * h)
	}

	r := seed
	for i := 0; i < maxNewtonIterations; i++ {
		f := npv(r)
		df := deriv(r)
		if math.Abs(df) < 1e-12 {
			break
		}
		nr := r - f/df
		if math.IsNaN(nr) || math.IsInf(nr, 0) {
			break
		}
		if math.Abs(nr-r) < convergenceTol {
			r = nr
			break
		}
		r = nr
	}

	if validRate(r) && math.Abs(npv(r)) < residualTol {
		return r, true
	}
	return 0, false
}

// bisect falls back to bisection when Newton diverges. It samples the NPV at
// fixed points between just above total loss and +1000% and bisects the
// first bracket with a sign change.
func bisect(npv func(float64) float64) (float64, bool) {
	samples := []float64{-0.9999, -0.75, -0.5, -0.25, 0, 0.25, 0.5, 1, 2, 5, 10}

	lo, hi := 0.0, 0.0
	found := false
	for i := 0; i < len(samples)-1; i++ {
		a, b := npv(samples[i]), npv(samples[i+1])
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		if a == 0 {
			return samples[i], validRate(samples[i])
		}
		if a*b < 0 {
			lo, hi = samples[i], samples[i+1]
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}

	for i := 0; i < maxBisectionIterations; i++ {
		mid := (lo + hi) / 2
		f := npv(mid)
		if math.Abs(f) < residualTol || hi-lo < convergenceTol {
			return mid, validRate(mid)
		}
		if npv(lo)*f < 0 {
			hi = mid
		} else {
			lo = mid
		}
	}

	mid := (lo + hi) / 2
	if validRate(mid) && math.Abs(npv(mid)) < residualTol {
		return mid, true
	}
	return 0, false
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r > -1
}
