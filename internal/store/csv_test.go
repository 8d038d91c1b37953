package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobmarket-insights/internal/models"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestAppend_CreatesWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "combined_jobs.csv")
	s := NewCSVStore(path)

	err := s.Append([]models.Job{
		{Title: "Data Analyst", Company: "Acme Corp", Location: "Lahore, Pakistan", DatePosted: "October 16, 2025"},
	})
	require.NoError(t, err)

	lines := readLines(t, path)
	assert.Equal(t, []string{
		"title,company,location,date_posted",
		`Data Analyst,Acme Corp,"Lahore, Pakistan","October 16, 2025"`,
	}, lines)
}

func TestAppend_HeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	s := NewCSVStore(path)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Append([]models.Job{{Title: "Analyst", DatePosted: "unknown"}}))
	}

	lines := readLines(t, path)
	require.Len(t, lines, 5)
	headers := 0
	for _, l := range lines {
		if l == "title,company,location,date_posted" {
			headers++
		}
	}
	assert.Equal(t, 1, headers)
}

func TestAppend_EmptyFileGetsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	require.NoError(t, NewCSVStore(path).Append([]models.Job{{Title: "X"}}))
	assert.Equal(t, "title,company,location,date_posted", readLines(t, path)[0])
}

func TestAppend_EmptyBatchIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	s := NewCSVStore(path)

	require.NoError(t, s.Append(nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	st, err := s.Stat()
	require.NoError(t, err)
	assert.False(t, st.Exists)
}

func TestAppend_OrderLaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	s := NewCSVStore(path)

	prior := []models.Job{{Title: "P1"}, {Title: "P2"}}
	a := []models.Job{{Title: "A1", Company: "Same"}, {Title: "A1", Company: "Same"}}
	b := []models.Job{{Title: "B1", Location: "Karachi, Pakistan"}}

	require.NoError(t, s.Append(prior))
	require.NoError(t, s.Append(a))
	require.NoError(t, s.Append(b))

	got, err := s.ReadAll()
	require.NoError(t, err)

	var want []models.Job
	want = append(want, prior...)
	want = append(want, a...)
	want = append(want, b...)
	assert.Equal(t, want, got, "rows must equal prior ++ A ++ B with duplicates kept")
}

func TestReadAll(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		jobs, err := NewCSVStore(filepath.Join(t.TempDir(), "nope.csv")).ReadAll()
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("bad header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jobs.csv")
		require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0644))
		_, err := NewCSVStore(path).ReadAll()
		assert.Error(t, err)
	})

	t.Run("short rows padded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jobs.csv")
		require.NoError(t, os.WriteFile(path, []byte("title,company,location,date_posted\nOnly Title\n"), 0644))
		jobs, err := NewCSVStore(path).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []models.Job{{Title: "Only Title"}}, jobs)
	})
}

func TestStatChangesOnAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	s := NewCSVStore(path)

	require.NoError(t, s.Append([]models.Job{{Title: "A"}}))
	first, err := s.Stat()
	require.NoError(t, err)
	assert.True(t, first.Exists)

	require.NoError(t, s.Append([]models.Job{{Title: "B"}}))
	second, err := s.Stat()
	require.NoError(t, err)
	assert.Greater(t, second.Size, first.Size)
}
