package di

import (
	"fmt"

	"github.com/aristath/quantdash/internal/clientdata"
	"github.com/aristath/quantdash/internal/memo"
	"github.com/aristath/quantdash/internal/scheduler"
	"github.com/rs/zerolog"
)

// Job schedules (cron with seconds)
const (
	ScheduleClientDataCleanup = "0 5 * * * *"    // hourly
	ScheduleMemoEviction      = "0 */10 * * * *" // every 10 minutes
	ScheduleCheckDatabases    = "0 35 * * * *"   // hourly
)

// RegisterJobs creates the maintenance jobs and registers them with the scheduler.
// The scheduler is not started.
func RegisterJobs(container *Container, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}
	if container.CacheRepo == nil || container.SeriesLoader == nil || container.DashboardService == nil || container.Sessions == nil {
		return nil, fmt.Errorf("services must be initialized before jobs")
	}

	container.Scheduler = scheduler.New(log)

	instances := &JobInstances{
		ClientDataCleanup: clientdata.NewCleanupJob(container.CacheRepo, log),
		MemoEviction: memo.NewEvictionJob(map[string]memo.Evictor{
			"series":    container.SeriesLoader.Evictor(),
			"dashboard": container.DashboardService.Evictor(),
			"sessions":  container.Sessions.Evictor(),
		}, log),
		CheckDatabases: scheduler.NewCheckDatabasesJob(log, container.CacheDB),
	}

	registrations := []struct {
		schedule string
		job      scheduler.Job
	}{
		{ScheduleClientDataCleanup, instances.ClientDataCleanup},
		{ScheduleMemoEviction, instances.MemoEviction},
		{ScheduleCheckDatabases, instances.CheckDatabases},
	}
	for _, reg := range registrations {
		if err := container.Scheduler.AddJob(reg.schedule, reg.job); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", reg.job.Name(), err)
		}
	}

	return instances, nil
}
