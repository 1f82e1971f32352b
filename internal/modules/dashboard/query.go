package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/internal/modules/strategy"
)

// ParseQuery reads dashboard inputs from URL query values. Missing keys keep
// their value from defaults; malformed values return ErrInvalidParams. The
// result is not validated.
func ParseQuery(q url.Values, defaults Params) (Params, error) {
	p := defaults

	var err error
	if v := q.Get("start"); v != "" {
		if p.Start, err = time.Parse(domain.DateLayout, v); err != nil {
			return p, fmt.Errorf("%w: start: expected YYYY-MM-DD, got %q", ErrInvalidParams, v)
		}
	}
	if v := q.Get("end"); v != "" {
		if p.End, err = time.Parse(domain.DateLayout, v); err != nil {
			return p, fmt.Errorf("%w: end: expected YYYY-MM-DD, got %q", ErrInvalidParams, v)
		}
	}
	if v := q.Get("strategy"); v != "" {
		if p.Strategy, err = strategy.ParseKind(v); err != nil {
			return p, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"lookback", &p.Lookback},
		{"simulations", &p.Simulations},
		{"var_window", &p.VaRWindow},
	}
	for _, f := range ints {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		if *f.dst, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("%w: %s: not an integer: %q", ErrInvalidParams, f.key, v)
		}
	}

	if v := q.Get("confidence"); v != "" {
		if p.Confidence, err = strconv.ParseFloat(v, 64); err != nil {
			return p, fmt.Errorf("%w: confidence: not a number: %q", ErrInvalidParams, v)
		}
	}
	if v := q.Get("seed"); v != "" {
		if p.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return p, fmt.Errorf("%w: seed: not an unsigned integer: %q", ErrInvalidParams, v)
		}
	}

	return p, nil
}
