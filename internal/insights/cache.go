package insights

import (
	"log"
	"sync"
	"time"

	"go-jobmarket-insights/internal/models"
	"go-jobmarket-insights/internal/normalize"
	"go-jobmarket-insights/internal/store"
)

// Source is the read side of the job store.
type Source interface {
	ReadAll() ([]models.Job, error)
	Stat() (store.Stamp, error)
}

// Row is a stored job whose date_posted parsed as a calendar date.
type Row struct {
	models.Job
	Posted time.Time `json:"-"`
}

// Snapshot is an immutable, parsed view of the store.
type Snapshot struct {
	Rows         []Row
	Dropped      int
	LastModified time.Time
	LoadedAt     time.Time
}

// Cache keeps the last parsed snapshot and reloads it when the store file
// changes (modification time or size), when the TTL expires, or after
// Invalidate.
type Cache struct {
	mu     sync.Mutex
	source Source
	ttl    time.Duration
	now    func() time.Time

	stamp store.Stamp
	snap  *Snapshot
}

func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Snapshot returns the cached view, reloading from the store if needed.
func (c *Cache) Snapshot() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stamp, err := c.source.Stat()
	if err != nil {
		return nil, err
	}

	if c.snap != nil && stamp.Equal(c.stamp) && !c.expired() {
		return c.snap, nil
	}

	jobs, err := c.source.ReadAll()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{LastModified: stamp.ModTime, LoadedAt: c.now()}
	for _, job := range jobs {
		posted, err := normalize.ParseDate(job.DatePosted)
		if err != nil {
			snap.Dropped++
			continue
		}
		snap.Rows = append(snap.Rows, Row{Job: job, Posted: posted})
	}

	c.stamp = stamp
	c.snap = snap
	log.Printf("📋 Loaded %d stored jobs (%d without a usable date dropped)", len(snap.Rows), snap.Dropped)
	return snap, nil
}

// Invalidate forces the next Snapshot call to reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
	c.stamp = store.Stamp{}
}

func (c *Cache) expired() bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(c.snap.LoadedAt) >= c.ttl
}
