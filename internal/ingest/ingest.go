// Package ingest turns raw streaming-history export files into the
// persisted, deduplicated dataset.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmreyes/spotify-history-tools/internal/dedupe"
	"github.com/jmreyes/spotify-history-tools/internal/export"
	"github.com/jmreyes/spotify-history-tools/internal/model"
	"github.com/jmreyes/spotify-history-tools/internal/normalize"
	"github.com/jmreyes/spotify-history-tools/internal/store"
)

// ErrNoInputFiles means the data directory held no export files at all.
var ErrNoInputFiles = errors.New("no streaming history files found")

const (
	audioPattern = "Streaming_History_Audio_*.json"
	videoPattern = "Streaming_History_Video_*.json"
)

type Config struct {
	DataDir     string
	DBPath      string
	ParquetPath string
	CSVPath     string
}

// Summary reports what one ingestion run did.
type Summary struct {
	FilesFound        int
	FilesSkipped      int
	RecordsParsed     int
	Rejected          map[normalize.Reason]int
	DuplicatesRemoved int
	FinalRows         int
}

type inputFile struct {
	path  string
	media model.MediaType
}

// Run executes the whole pipeline: discover, parse, normalize, deduplicate,
// persist. A file that fails to parse is reported and skipped; a record that
// fails to normalize is dropped and counted. Neither aborts the run.
func Run(cfg Config) (*Summary, error) {
	files, err := discoverFiles(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		FilesFound: len(files),
		Rejected:   make(map[normalize.Reason]int),
	}

	var records []model.PlayRecord
	for _, f := range files {
		raws, err := readFile(f.path)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", filepath.Base(f.path), err)
			summary.FilesSkipped++
			continue
		}
		fmt.Printf("Loaded %d records from %s\n", len(raws), filepath.Base(f.path))

		for _, raw := range raws {
			summary.RecordsParsed++
			rec, err := normalize.Record(raw, f.media)
			if err != nil {
				var reject *normalize.RejectError
				if errors.As(err, &reject) {
					summary.Rejected[reject.Reason]++
					continue
				}
				return nil, err
			}
			records = append(records, rec)
		}
	}

	unique, removed := dedupe.Deduplicate(records)
	summary.DuplicatesRemoved = removed
	summary.FinalRows = len(unique)

	if err := persist(cfg, unique); err != nil {
		return nil, err
	}
	return summary, nil
}

// discoverFiles lists export files under dir, sorted by name. File order
// defines the dedup tie-break order, so it must be deterministic.
func discoverFiles(dir string) ([]inputFile, error) {
	var files []inputFile

	for _, p := range []struct {
		pattern string
		media   model.MediaType
	}{
		{audioPattern, model.MediaAudio},
		{videoPattern, model.MediaVideo},
	} {
		matches, err := filepath.Glob(filepath.Join(dir, p.pattern))
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", p.pattern, err)
		}
		for _, m := range matches {
			files = append(files, inputFile{path: m, media: p.media})
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s (expected %s or %s)",
			ErrNoInputFiles, dir, audioPattern, videoPattern)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].path < files[j].path
	})
	return files, nil
}

func readFile(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return raws, nil
}

func persist(cfg Config, records []model.PlayRecord) error {
	db, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.ReplaceAll(records); err != nil {
		return fmt.Errorf("writing database: %w", err)
	}
	if cfg.ParquetPath != "" {
		if err := export.WriteParquet(cfg.ParquetPath, records); err != nil {
			return fmt.Errorf("writing parquet: %w", err)
		}
	}
	if cfg.CSVPath != "" {
		if err := export.WriteCSV(cfg.CSVPath, records); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	return nil
}

// Report renders the run summary, one fact per line.
func (s *Summary) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Files processed: %d (%d skipped)\n", s.FilesFound-s.FilesSkipped, s.FilesSkipped)
	fmt.Fprintf(&b, "Records parsed: %d\n", s.RecordsParsed)
	for _, reason := range []normalize.Reason{normalize.MissingRequiredField, normalize.MalformedValue} {
		if n := s.Rejected[reason]; n > 0 {
			fmt.Fprintf(&b, "Records rejected (%s): %d\n", reason, n)
		}
	}
	fmt.Fprintf(&b, "Duplicates removed: %d\n", s.DuplicatesRemoved)
	fmt.Fprintf(&b, "Final rows: %d\n", s.FinalRows)
	return b.String()
}
