package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/quantdash/internal/database"
	"github.com/rs/zerolog"
)

// CheckDatabasesJob pings each database and checkpoints its WAL
type CheckDatabasesJob struct {
	log       zerolog.Logger
	databases []*database.DB
	timeout   time.Duration
}

// NewCheckDatabasesJob creates a new CheckDatabasesJob. Nil databases are skipped.
func NewCheckDatabasesJob(log zerolog.Logger, databases ...*database.DB) *CheckDatabasesJob {
	return &CheckDatabasesJob{
		log:       log.With().Str("job", "check_databases").Logger(),
		databases: databases,
		timeout:   5 * time.Second,
	}
}

// Name returns the job name
func (j *CheckDatabasesJob) Name() string {
	return "check_databases"
}

// Run executes the check. A failed ping is an error; a failed checkpoint is
// only logged.
func (j *CheckDatabasesJob) Run() error {
	checked := 0
	for _, db := range j.databases {
		if db == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		err := db.QuickCheck(ctx)
		cancel()
		if err != nil {
			j.log.Error().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			return fmt.Errorf("database %s unreachable: %w", db.Name(), err)
		}

		if err := db.WALCheckpoint("PASSIVE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
		}

		checked++
	}

	j.log.Debug().Int("checked", checked).Msg("Database check completed")
	return nil
}
