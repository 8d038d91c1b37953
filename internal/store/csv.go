// Append-only CSV ledger of every scraped listing.

package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"

	"go-jobmarket-insights/internal/models"
)

// CSVStore appends jobs to a single CSV file. Writers in different processes
// are serialized through an advisory lock on <path>.lock; the file itself is
// never rewritten.
type CSVStore struct {
	path string
}

// Stamp identifies a version of the store file.
type Stamp struct {
	Exists  bool
	ModTime time.Time
	Size    int64
}

func (s Stamp) Equal(o Stamp) bool {
	return s.Exists == o.Exists && s.Size == o.Size && s.ModTime.Equal(o.ModTime)
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string {
	return s.path
}

// Append writes jobs after the existing rows. The header row is written only
// when the file is missing or empty. An empty batch does nothing.
func (s *CSVStore) Append(jobs []models.Job) (err error) {
	if len(jobs) == 0 {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock store: %w", err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close store: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat store: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(models.CSVHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, job := range jobs {
		if err := w.Write(job.Record()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush store: %w", err)
	}

	log.Printf("💾 Saved %d job(s) to %s", len(jobs), s.path)
	return nil
}

// ReadAll returns every stored row in file order. A missing file is an empty
// store.
func (s *CSVStore) ReadAll() ([]models.Job, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !slices.Equal(header, models.CSVHeader) {
		return nil, fmt.Errorf("unexpected store header %v", header)
	}

	var jobs []models.Job
	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("⚠️ Skipping unreadable row %d in %s: %v", row, s.path, err)
			continue
		}
		jobs = append(jobs, models.JobFromRecord(rec))
	}
	return jobs, nil
}

func (s *CSVStore) Stat() (Stamp, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Stamp{}, nil
	}
	if err != nil {
		return Stamp{}, fmt.Errorf("failed to stat store: %w", err)
	}
	return Stamp{Exists: true, ModTime: info.ModTime(), Size: info.Size()}, nil
}
