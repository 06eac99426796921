package capm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"beta_backend/internal/feature/beta/domain"
	"beta_backend/internal/feature/beta/domain/entity"
)

// PeriodicRiskFreeRate converts an annual percentage rate into the periodic
// rate (as a fraction) used to build excess returns.
// The exponent is fixed at 1/12 whatever the sampling frequency of the returns.
func PeriodicRiskFreeRate(annualPct float64) float64 {
	return math.Pow(1+annualPct/100, 1.0/12) - 1
}

// ExcessReturns subtracts periodic*100 from both sides of every pair.
// x holds market excess returns and y holds stock excess returns.
func ExcessReturns(pairs []entity.ReturnPair, periodic float64) (x, y []float64) {
	shift := periodic * 100
	x = make([]float64, len(pairs))
	y = make([]float64, len(pairs))
	for i, p := range pairs {
		x[i] = p.Market - shift
		y[i] = p.Stock - shift
	}
	return x, y
}

// Regress fits excess_stock = alpha + beta*excess_market by ordinary least squares.
func Regress(pairs []entity.ReturnPair, annualPct float64) (entity.Regression, error) {
	if len(pairs) < 2 {
		return entity.Regression{}, fmt.Errorf("%w: got %d", domain.ErrInsufficientPairs, len(pairs))
	}

	x, y := ExcessReturns(pairs, PeriodicRiskFreeRate(annualPct))
	if constant(x) {
		return entity.Regression{}, domain.ErrZeroMarketVariance
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)
	// 株式側が一定値の場合は 0/0 になる
	if math.IsNaN(r2) {
		r2 = 0
	}

	return entity.Regression{
		Beta:         beta,
		Alpha:        alpha,
		RSquared:     r2,
		Observations: len(pairs),
	}, nil
}

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}
