package model

import (
	"strconv"
	"time"
)

// MediaType distinguishes music plays from podcast/video plays. It is
// determined by which export file a record came from.
type MediaType string

const (
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
)

// PlayRecord is one listening event from the streaming history export,
// after normalization. Optional text fields are pointers: nil means the
// export had no value, which is distinct from an empty string.
type PlayRecord struct {
	TS         time.Time
	Platform   *string
	MSPlayed   int64
	TrackName  *string
	ArtistName *string
	AlbumName  *string
	TrackURI   *string
	Skipped    bool
	Shuffle    bool
	Offline    bool
	MediaType  MediaType

	// Passthrough fields from the export, not used by any query.
	ConnCountry *string
	ReasonStart *string
	ReasonEnd   *string
}

// Identity is the deduplication key for a PlayRecord. Two records with
// equal Identity values describe the same real-world play event.
type Identity struct {
	TS       int64
	URI      string
	Artist   string
	Track    string
	Album    string
	MSPlayed int64
}

// keyText encodes an optional string for use in an Identity. A leading NUL
// marks an absent value so that nil and "" stay distinct keys.
func keyText(p *string) string {
	if p == nil {
		return "\x00"
	}
	return *p
}

// Identity returns the dedup key: timestamp, the track URI when present
// (otherwise the artist/track/album triple), and the played duration.
func (r *PlayRecord) Identity() Identity {
	id := Identity{
		TS:       r.TS.UnixMilli(),
		MSPlayed: r.MSPlayed,
	}
	if r.TrackURI != nil {
		id.URI = *r.TrackURI
		return id
	}
	id.Artist = keyText(r.ArtistName)
	id.Track = keyText(r.TrackName)
	id.Album = keyText(r.AlbumName)
	return id
}

// Columns is the stable column order of the persisted table. The SQLite,
// Parquet, and CSV materializations all use these names.
var Columns = []string{
	"ts",
	"platform",
	"ms_played",
	"track_name",
	"artist_name",
	"album_name",
	"track_uri",
	"skipped",
	"shuffle",
	"offline",
	"media_type",
	"conn_country",
	"reason_start",
	"reason_end",
}

// FormatTS renders a timestamp the way every materialization stores it.
func FormatTS(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// EncodeRow renders a record as strings in Columns order. Absent optional
// fields become empty cells.
func (r *PlayRecord) EncodeRow() []string {
	return []string{
		FormatTS(r.TS),
		orEmpty(r.Platform),
		strconv.FormatInt(r.MSPlayed, 10),
		orEmpty(r.TrackName),
		orEmpty(r.ArtistName),
		orEmpty(r.AlbumName),
		orEmpty(r.TrackURI),
		strconv.FormatBool(r.Skipped),
		strconv.FormatBool(r.Shuffle),
		strconv.FormatBool(r.Offline),
		string(r.MediaType),
		orEmpty(r.ConnCountry),
		orEmpty(r.ReasonStart),
		orEmpty(r.ReasonEnd),
	}
}

func orEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
