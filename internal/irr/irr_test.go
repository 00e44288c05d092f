package irr

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	t.Run("single contribution over one year", func(t *testing.T) {
		// 1000 in on 2021-01-01, worth 1100 on 2022-01-01: exactly 10%.
		flows := []CashFlow{
			{Date: day(2021, 1, 1), Amount: -1000},
		}

		rate, err := Compute(flows, day(2022, 1, 1), 1100)
		require.NoError(t, err)
		assert.InDelta(t, 0.10, rate, 1e-4)
	})

	t.Run("single contribution over half a year annualises", func(t *testing.T) {
		// 5% over ~half a year is more than 5% annualised.
		flows := []CashFlow{
			{Date: day(2021, 1, 1), Amount: -1000},
		}

		rate, err := Compute(flows, day(2021, 7, 2), 1050)
		require.NoError(t, err)
		assert.Greater(t, rate, 0.05)
		assert.Less(t, rate, 0.20)
	})

	t.Run("multiple contributions", func(t *testing.T) {
		flows := []CashFlow{
			{Date: day(2020, 1, 1), Amount: -1000},
			{Date: day(2020, 7, 1), Amount: -500},
		}

		rate, err := Compute(flows, day(2021, 1, 1), 1700)
		require.NoError(t, err)
		assert.Greater(t, rate, 0.0)

		// The solved rate must zero the NPV.
		base := day(2020, 1, 1)
		years := func(d time.Time) float64 { return d.Sub(base).Hours() / 24.0 / 365.0 }
		npv := -1000.0
		npv += -500.0 / pow1p(rate, years(day(2020, 7, 1)))
		npv += 1700.0 / pow1p(rate, years(day(2021, 1, 1)))
		assert.InDelta(t, 0.0, npv, 1e-3)
	})

	t.Run("withdrawal mid-stream", func(t *testing.T) {
		flows := []CashFlow{
			{Date: day(2020, 1, 1), Amount: -1000},
			{Date: day(2020, 7, 1), Amount: 200},
		}

		rate, err := Compute(flows, day(2021, 1, 1), 900)
		require.NoError(t, err)
		assert.Greater(t, rate, 0.0)
	})

	t.Run("loss yields negative rate", func(t *testing.T) {
		flows := []CashFlow{
			{Date: day(2021, 1, 1), Amount: -1000},
		}

		rate, err := Compute(flows, day(2022, 1, 1), 500)
		require.NoError(t, err)
		assert.InDelta(t, -0.50, rate, 1e-4)
	})

	t.Run("severe loss still converges", func(t *testing.T) {
		// Newton diverges for rates near total loss; bisection takes over.
		flows := []CashFlow{
			{Date: day(2021, 1, 1), Amount: -1000},
		}

		rate, err := Compute(flows, day(2022, 1, 1), 10)
		require.NoError(t, err)
		assert.InDelta(t, -0.99, rate, 1e-3)
		assert.Greater(t, rate, -1.0)
	})

	t.Run("not computable without any flows", func(t *testing.T) {
		_, err := Compute(nil, day(2022, 1, 1), 1100)
		assert.ErrorIs(t, err, ErrNotComputable)
	})

	t.Run("not computable without a sign change", func(t *testing.T) {
		flows := []CashFlow{
			{Date: day(2021, 1, 1), Amount: 500},
		}

		_, err := Compute(flows, day(2022, 1, 1), 1100)
		assert.ErrorIs(t, err, ErrNotComputable)
	})

	t.Run("not computable when all flows share one date", func(t *testing.T) {
		flows := []CashFlow{
			{Date: day(2021, 1, 1), Amount: -1000},
		}

		_, err := Compute(flows, day(2021, 1, 1), 1100)
		assert.ErrorIs(t, err, ErrNotComputable)
	})

	t.Run("zero flows are ignored", func(t *testing.T) {
		flows := []CashFlow{
			{Date: day(2021, 1, 1), Amount: -1000},
			{Date: day(2021, 6, 1), Amount: 0},
		}

		rate, err := Compute(flows, day(2022, 1, 1), 1100)
		require.NoError(t, err)
		assert.InDelta(t, 0.10, rate, 1e-4)
	})
}

func pow1p(r, y float64) float64 {
	return math.Pow(1.0+r, y)
}
