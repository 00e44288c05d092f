package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity kinds. Amounts are stored positive; the sign of the cash flow an
// activity contributes to an IRR calculation is derived from its kind.
const (
	ActivityContribution = "contribution"
	ActivityWithdrawal   = "withdrawal"
	ActivitySwitchIn     = "switch_in"
	ActivitySwitchOut    = "switch_out"
	ActivityFee          = "fee"
)

// Activity represents a dated cash-flow event against a portfolio-fund.
type Activity struct {
	ID              string          `json:"id"`
	PortfolioFundID string          `json:"portfolioFundId"`
	Date            time.Time       `json:"date"`
	Kind            string          `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       time.Time       `json:"createdAt,omitempty"`
}

// ValidActivityKind reports whether kind is one of the recognised activity kinds.
func ValidActivityKind(kind string) bool {
	switch kind {
	case ActivityContribution, ActivityWithdrawal, ActivitySwitchIn, ActivitySwitchOut, ActivityFee:
		return true
	}
	return false
}

// Flow returns the signed cash flow of the activity from the investor's
// perspective: money paid in (contributions, switch-ins, fees) is negative,
// money received (withdrawals, switch-outs) is positive.
func (a Activity) Flow() float64 {
	amount := a.Amount.InexactFloat64()
	switch a.Kind {
	case ActivityContribution, ActivitySwitchIn, ActivityFee:
		return -amount
	case ActivityWithdrawal, ActivitySwitchOut:
		return amount
	}
	return 0
}
