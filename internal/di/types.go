// Package di provides dependency injection type definitions.
//
// Container holds every long-lived dependency. It is built by Wire and passed
// to the server and the CLI.
package di

import (
	"github.com/aristath/quantdash/internal/clientdata"
	"github.com/aristath/quantdash/internal/clients/yahoo"
	"github.com/aristath/quantdash/internal/database"
	"github.com/aristath/quantdash/internal/modules/dashboard"
	"github.com/aristath/quantdash/internal/modules/returns"
	"github.com/aristath/quantdash/internal/modules/series"
	"github.com/aristath/quantdash/internal/scheduler"
	"github.com/aristath/quantdash/internal/session"
)

// Container holds all dependencies for the application
type Container struct {
	// Databases
	CacheDB *database.DB // Client data cache (chart API responses)

	// Repositories
	CacheRepo *clientdata.Repository

	// Clients
	YahooClient *yahoo.Client

	// Services
	SeriesLoader     *series.Loader
	Transformer      *returns.Transformer
	DashboardService *dashboard.Service
	Sessions         *session.Store

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds registered jobs for manual triggering
type JobInstances struct {
	ClientDataCleanup scheduler.Job
	MemoEviction      scheduler.Job
	CheckDatabases    scheduler.Job
}

// Close releases the container's databases
func (c *Container) Close() error {
	if c == nil || c.CacheDB == nil {
		return nil
	}
	return c.CacheDB.Close()
}
