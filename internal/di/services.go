package di

import (
	"fmt"
	"time"

	"github.com/aristath/quantdash/internal/clientdata"
	"github.com/aristath/quantdash/internal/clients/yahoo"
	"github.com/aristath/quantdash/internal/config"
	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/internal/modules/dashboard"
	"github.com/aristath/quantdash/internal/modules/returns"
	"github.com/aristath/quantdash/internal/modules/series"
	"github.com/aristath/quantdash/internal/modules/strategy"
	"github.com/aristath/quantdash/internal/session"
	"github.com/rs/zerolog"
)

// InitializeServices builds the chart client, the analytics services and the session store
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.CacheDB == nil {
		return fmt.Errorf("container has no cache database")
	}

	defaults, err := DashboardDefaults(cfg.Overlay.Dashboard)
	if err != nil {
		return err
	}

	container.CacheRepo = clientdata.NewRepository(container.CacheDB.Conn())
	container.YahooClient = yahoo.NewClient(cfg.YahooBaseURL, cfg.YahooRPS, container.CacheRepo, log)

	container.SeriesLoader = series.NewLoader(container.YahooClient, series.Config{
		PriceSymbol: cfg.Overlay.Symbols.Price,
		RateSymbol:  cfg.Overlay.Symbols.Rate,
		CacheTTL:    cfg.CacheTTL,
	}, log)
	container.Transformer = returns.NewTransformer()
	container.DashboardService = dashboard.NewService(
		container.SeriesLoader,
		container.Transformer,
		cfg.CacheTTL,
		log,
	).WithDefaults(defaults)
	container.Sessions = session.NewStore(cfg.AccessSecret, cfg.SessionTTL)

	log.Info().
		Str("start", defaults.Start.Format(domain.DateLayout)).
		Str("end", defaults.End.Format(domain.DateLayout)).
		Str("strategy", string(defaults.Strategy)).
		Msg("Services initialized")

	return nil
}

// DashboardDefaults applies the YAML overlay to DefaultParams and validates
// the result. Zero overlay fields keep the built-in default.
func DashboardDefaults(o config.DashboardOverlay) (dashboard.Params, error) {
	p := dashboard.DefaultParams()

	var err error
	if o.Start != "" {
		if p.Start, err = time.Parse(domain.DateLayout, o.Start); err != nil {
			return p, fmt.Errorf("dashboard defaults: start: %w", err)
		}
	}
	if o.End != "" {
		if p.End, err = time.Parse(domain.DateLayout, o.End); err != nil {
			return p, fmt.Errorf("dashboard defaults: end: %w", err)
		}
	}
	if o.Strategy != "" {
		if p.Strategy, err = strategy.ParseKind(o.Strategy); err != nil {
			return p, fmt.Errorf("dashboard defaults: %w", err)
		}
	}
	if o.Lookback != 0 {
		p.Lookback = o.Lookback
	}
	if o.Confidence != 0 {
		p.Confidence = o.Confidence
	}
	if o.Simulations != 0 {
		p.Simulations = o.Simulations
	}
	if o.VaRWindow != 0 {
		p.VaRWindow = o.VaRWindow
	}
	if o.Seed != nil {
		p.Seed = *o.Seed
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("dashboard defaults: %w", err)
	}
	return p, nil
}
