package clientdata

import (
	"maps"
	"sync"

	"github.com/rs/zerolog"
)

// CleanupJob purges expired chart responses from the cache database and
// keeps the per-table counts of its last run for the scheduler status.
type CleanupJob struct {
	repo *Repository
	log  zerolog.Logger

	mu   sync.Mutex
	last map[string]int64
}

// NewCleanupJob creates a new client data cleanup job.
func NewCleanupJob(repo *Repository, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo: repo,
		log:  log.With().Str("job", "client_data_cleanup").Logger(),
		last: map[string]int64{},
	}
}

// Run deletes expired rows from every cache table. Counts are recorded even
// when a later table fails, so partial progress shows up in Report.
func (j *CleanupJob) Run() error {
	deleted, err := j.repo.DeleteAllExpired()

	j.mu.Lock()
	j.last = deleted
	j.mu.Unlock()

	if err != nil {
		j.log.Error().Err(err).Msg("Cache purge failed")
		return err
	}

	var total int64
	for _, n := range deleted {
		total += n
	}

	event := j.log.Debug()
	if total > 0 {
		event = j.log.Info()
	}
	for table, n := range deleted {
		event = event.Int64(table, n)
	}
	event.Int64("total", total).Msg("Expired chart responses purged")

	return nil
}

// Report returns rows deleted per table by the last run
func (j *CleanupJob) Report() map[string]int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return maps.Clone(j.last)
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "client_data_cleanup"
}
