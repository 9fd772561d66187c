// Package export writes the Parquet and CSV materializations of the
// dataset. Row content matches the SQLite table exactly; only the encoding
// differs.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/jmreyes/spotify-history-tools/internal/model"
)

type historyRow struct {
	TS          string  `parquet:"ts"`
	Platform    *string `parquet:"platform,optional"`
	MSPlayed    int64   `parquet:"ms_played"`
	TrackName   *string `parquet:"track_name,optional"`
	ArtistName  *string `parquet:"artist_name,optional"`
	AlbumName   *string `parquet:"album_name,optional"`
	TrackURI    *string `parquet:"track_uri,optional"`
	Skipped     bool    `parquet:"skipped"`
	Shuffle     bool    `parquet:"shuffle"`
	Offline     bool    `parquet:"offline"`
	MediaType   string  `parquet:"media_type"`
	ConnCountry *string `parquet:"conn_country,optional"`
	ReasonStart *string `parquet:"reason_start,optional"`
	ReasonEnd   *string `parquet:"reason_end,optional"`
}

func toRow(r model.PlayRecord) historyRow {
	return historyRow{
		TS:          model.FormatTS(r.TS),
		Platform:    r.Platform,
		MSPlayed:    r.MSPlayed,
		TrackName:   r.TrackName,
		ArtistName:  r.ArtistName,
		AlbumName:   r.AlbumName,
		TrackURI:    r.TrackURI,
		Skipped:     r.Skipped,
		Shuffle:     r.Shuffle,
		Offline:     r.Offline,
		MediaType:   string(r.MediaType),
		ConnCountry: r.ConnCountry,
		ReasonStart: r.ReasonStart,
		ReasonEnd:   r.ReasonEnd,
	}
}

// WriteParquet writes the columnar materialization to path.
func WriteParquet(path string, records []model.PlayRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]historyRow, len(records))
	for i, r := range records {
		rows[i] = toRow(r)
	}

	w := parquet.NewGenericWriter[historyRow](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return f.Close()
}

// WriteCSV writes the delimited materialization to path, header first.
func WriteCSV(path string, records []model.PlayRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i := range records {
		if err := w.Write(records[i].EncodeRow()); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return f.Close()
}
