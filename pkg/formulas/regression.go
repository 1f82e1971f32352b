package formulas

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// Regression errors
var (
	ErrLengthMismatch    = errors.New("regression: x and y lengths differ")
	ErrTooFewPoints      = errors.New("regression: fewer than two points")
	ErrConstantRegressor = errors.New("regression: regressor has zero variance")
)

// OLSResult is the fit y = Alpha + Beta*x
type OLSResult struct {
	Alpha    float64
	Beta     float64
	RSquared float64
	N        int
}

// OrdinaryLeastSquares fits y on x with an intercept.
//
// R² is 1 - SSres/SStot. When y is constant SStot is zero and R² is reported
// as 0 instead of NaN.
func OrdinaryLeastSquares(x, y []float64) (*OLSResult, error) {
	if len(x) != len(y) {
		return nil, ErrLengthMismatch
	}
	if len(x) < 2 {
		return nil, ErrTooFewPoints
	}
	if Variance(x) == 0 {
		return nil, ErrConstantRegressor
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)

	rSquared := 0.0
	if Variance(y) != 0 {
		rSquared = stat.RSquared(x, y, nil, alpha, beta)
	}

	return &OLSResult{
		Alpha:    alpha,
		Beta:     beta,
		RSquared: rSquared,
		N:        len(x),
	}, nil
}
