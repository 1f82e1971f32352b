package memo

import (
	"maps"
	"sync"

	"github.com/rs/zerolog"
)

// Evictor is implemented by every Cache instantiation
type Evictor interface {
	Evict() int
}

// EvictionJob drops expired entries from a set of in-process caches
type EvictionJob struct {
	caches map[string]Evictor
	log    zerolog.Logger

	mu   sync.Mutex
	last map[string]int64
}

// NewEvictionJob creates a job over the named caches
func NewEvictionJob(caches map[string]Evictor, log zerolog.Logger) *EvictionJob {
	return &EvictionJob{
		caches: caches,
		log:    log.With().Str("job", "memo_eviction").Logger(),
		last:   map[string]int64{},
	}
}

// Run evicts expired entries from every cache
func (j *EvictionJob) Run() error {
	evicted := make(map[string]int64, len(j.caches))
	for name, c := range j.caches {
		n := c.Evict()
		evicted[name] = int64(n)
		if n > 0 {
			j.log.Debug().Str("cache", name).Int("evicted", n).Msg("Evicted expired entries")
		}
	}

	j.mu.Lock()
	j.last = evicted
	j.mu.Unlock()
	return nil
}

// Report returns entries evicted per cache by the last run
func (j *EvictionJob) Report() map[string]int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return maps.Clone(j.last)
}

// Name returns the job name for scheduling and logging.
func (j *EvictionJob) Name() string {
	return "memo_eviction"
}
