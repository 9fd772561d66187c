// Package normalize turns raw export entries into canonical PlayRecords.
//
// The audio and video/podcast export files use different field names for
// "what was playing"; both shapes map onto the same canonical schema here.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmreyes/spotify-history-tools/internal/model"
)

// Reason classifies why a record was rejected.
type Reason string

const (
	MissingRequiredField Reason = "missing_required_field"
	MalformedValue       Reason = "malformed_value"
)

// RejectError reports a dropped record. The pipeline counts these per
// Reason instead of aborting the run.
type RejectError struct {
	Reason Reason
	Field  string
	Err    error
}

func (e *RejectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record rejected (%s, field %q): %v", e.Reason, e.Field, e.Err)
	}
	return fmt.Sprintf("record rejected (%s, field %q)", e.Reason, e.Field)
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

// rawRecord is the superset of fields across both export shapes.
type rawRecord struct {
	TS          string  `json:"ts"`
	Platform    *string `json:"platform"`
	MSPlayed    *int64  `json:"ms_played"`
	ConnCountry *string `json:"conn_country"`
	TrackName   *string `json:"master_metadata_track_name"`
	ArtistName  *string `json:"master_metadata_album_artist_name"`
	AlbumName   *string `json:"master_metadata_album_album_name"`
	TrackURI    *string `json:"spotify_track_uri"`
	EpisodeName *string `json:"episode_name"`
	ShowName    *string `json:"episode_show_name"`
	EpisodeURI  *string `json:"spotify_episode_uri"`
	ReasonStart *string `json:"reason_start"`
	ReasonEnd   *string `json:"reason_end"`
	Shuffle     *bool   `json:"shuffle"`
	Skipped     *bool   `json:"skipped"`
	Offline     *bool   `json:"offline"`
}

// quoteFolds maps every apostrophe and quotation-mark glyph variant to one
// canonical character, so that semantically identical names produce
// identical grouping keys.
var quoteFolds = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"„", `"`, // double low-9 quotation mark
	"‟", `"`, // double high-reversed-9 quotation mark
)

// Text collapses apostrophe/quote glyph variants to canonical characters.
// Applying it twice equals applying it once.
func Text(s string) string {
	return quoteFolds.Replace(s)
}

func textPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := Text(*p)
	return &s
}

// Record parses one raw export entry into a PlayRecord. media tells which
// export file shape the entry came from. A failure returns a *RejectError;
// the record should be dropped and counted, never kept half-formed.
func Record(data []byte, media model.MediaType) (model.PlayRecord, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.PlayRecord{}, &RejectError{Reason: MalformedValue, Field: "record", Err: err}
	}
	return fromRaw(raw, media)
}

func fromRaw(raw rawRecord, media model.MediaType) (model.PlayRecord, error) {
	if raw.TS == "" {
		return model.PlayRecord{}, &RejectError{Reason: MissingRequiredField, Field: "ts"}
	}
	ts, err := time.Parse(time.RFC3339, raw.TS)
	if err != nil {
		return model.PlayRecord{}, &RejectError{Reason: MalformedValue, Field: "ts", Err: err}
	}
	if raw.MSPlayed == nil {
		return model.PlayRecord{}, &RejectError{Reason: MissingRequiredField, Field: "ms_played"}
	}
	if *raw.MSPlayed < 0 {
		return model.PlayRecord{}, &RejectError{
			Reason: MalformedValue,
			Field:  "ms_played",
			Err:    fmt.Errorf("negative duration %d", *raw.MSPlayed),
		}
	}

	rec := model.PlayRecord{
		TS:          ts.UTC(),
		Platform:    raw.Platform,
		MSPlayed:    *raw.MSPlayed,
		Skipped:     boolOrFalse(raw.Skipped),
		Shuffle:     boolOrFalse(raw.Shuffle),
		Offline:     boolOrFalse(raw.Offline),
		MediaType:   media,
		ConnCountry: raw.ConnCountry,
		ReasonStart: raw.ReasonStart,
		ReasonEnd:   raw.ReasonEnd,
	}

	switch media {
	case model.MediaVideo:
		rec.TrackName = textPtr(raw.EpisodeName)
		rec.ArtistName = textPtr(raw.ShowName)
		rec.TrackURI = raw.EpisodeURI
	default:
		rec.TrackName = textPtr(raw.TrackName)
		rec.ArtistName = textPtr(raw.ArtistName)
		rec.AlbumName = textPtr(raw.AlbumName)
		rec.TrackURI = raw.TrackURI
	}

	return rec, nil
}

func boolOrFalse(p *bool) bool {
	return p != nil && *p
}
