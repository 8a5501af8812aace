package domain

import "time"

// Table identifies one of the raw source tables the report is computed from.
type Table string

const (
	TableStreams     Table = "streams"
	TableHighlights  Table = "highlights"
	TableLivestreams Table = "livestreams"
	TableBots        Table = "bots"
	TableURLs        Table = "urls"
)

// Event is the uniform row shape every source table is converted to before
// aggregation. Fields that a given table does not carry stay at their zero
// value; Liked stays nil when the highlight was never rated.
type Event struct {
	EntityID     string
	UserID       string
	CreatedAt    time.Time
	Liked        *bool
	Downloaded   bool
	LinkCopied   bool
	ViewCount    int
	StreamID     string
	LivestreamID string
}

// IsVOD reports whether a highlight originates from a converted stream.
func (e Event) IsVOD() bool { return e.StreamID != "" }

// IsLive reports whether a highlight originates from a livestream.
func (e Event) IsLive() bool { return e.LivestreamID != "" }

// Shared reports whether a highlight was downloaded or had its link copied.
func (e Event) Shared() bool { return e.Downloaded || e.LinkCopied }

// Snapshot is the immutable in-memory view of all source tables that one
// report computation runs against.
type Snapshot struct {
	Streams     []Event
	Highlights  []Event
	Livestreams []Event
	Bots        []Event
	URLs        []Event
}

// Rows returns the rows of the named table.
func (s Snapshot) Rows(t Table) []Event {
	switch t {
	case TableStreams:
		return s.Streams
	case TableHighlights:
		return s.Highlights
	case TableLivestreams:
		return s.Livestreams
	case TableBots:
		return s.Bots
	case TableURLs:
		return s.URLs
	default:
		return nil
	}
}
