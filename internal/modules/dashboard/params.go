package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/internal/modules/risk"
	"github.com/aristath/quantdash/internal/modules/strategy"
	"github.com/go-playground/validator/v10"
)

// Input bounds
const (
	MinLookback       = 60
	MaxLookback       = 504
	MinConfidence     = 0.90
	MaxConfidence     = 0.99
	MinSimulations    = 1000
	MaxSimulations    = 10000
	DefaultConfidence = 0.95
	DefaultSimulation = 5000
)

// ErrInvalidParams wraps every parameter validation failure
var ErrInvalidParams = errors.New("invalid parameters")

var paramsValidate *validator.Validate

func init() {
	paramsValidate = validator.New()
	_ = paramsValidate.RegisterValidation("strategykind", func(fl validator.FieldLevel) bool {
		kind := domain.StrategyKind(fl.Field().String())
		return kind == domain.StrategyMomentum || kind == domain.StrategyBuyAndHold
	})
}

// Params are the user inputs of one dashboard render
type Params struct {
	Start       time.Time           `json:"start" validate:"required"`
	End         time.Time           `json:"end" validate:"required,gtefield=Start"`
	Strategy    domain.StrategyKind `json:"strategy" validate:"required,strategykind"`
	Lookback    int                 `json:"lookback" validate:"gte=60,lte=504"`
	Confidence  float64             `json:"confidence" validate:"gte=0.90,lte=0.99"`
	Simulations int                 `json:"simulations" validate:"gte=1000,lte=10000"`
	VaRWindow   int                 `json:"var_window" validate:"gte=2,lte=252"`
	Seed        uint64              `json:"seed"`
}

// DefaultParams returns the default inputs: ten years to 2025-01-01,
// momentum over 252 days, 95% VaR on a 60-day window, 5000 paths, seed 42.
func DefaultParams() Params {
	return Params{
		Start:       time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Strategy:    domain.StrategyMomentum,
		Lookback:    strategy.DefaultLookback,
		Confidence:  DefaultConfidence,
		Simulations: DefaultSimulation,
		VaRWindow:   risk.DefaultVaRWindow,
		Seed:        risk.DefaultSeed,
	}
}

// Validate checks the parameter bounds
func (p Params) Validate() error {
	err := paramsValidate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gtefield":
		return "end must not be before start"
	case "strategykind":
		return fmt.Sprintf("unknown strategy %q", fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// cacheKey is the comparable memo key of a parameter set
type cacheKey struct {
	start, end  string
	strategy    domain.StrategyKind
	lookback    int
	confidence  float64
	simulations int
	varWindow   int
	seed        uint64
}

func (p Params) key() cacheKey {
	return cacheKey{
		start:       p.Start.UTC().Format(domain.DateLayout),
		end:         p.End.UTC().Format(domain.DateLayout),
		strategy:    p.Strategy,
		lookback:    p.Lookback,
		confidence:  p.Confidence,
		simulations: p.Simulations,
		varWindow:   p.VaRWindow,
		seed:        p.Seed,
	}
}
