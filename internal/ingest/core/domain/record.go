package domain

import "time"

// Table names one of the raw source tables in the hosted store.
type Table string

const (
	TableStreams     Table = "streams"
	TableHighlights  Table = "highlights"
	TableLivestreams Table = "livestreams"
	TableBots        Table = "bots"
	TableURLs        Table = "urls"
)

// Tables lists every source table in fetch order.
var Tables = []Table{TableStreams, TableHighlights, TableLivestreams, TableBots, TableURLs}

type StreamRow struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

type HighlightRow struct {
	ID           string
	UserID       string
	CreatedAt    time.Time
	Liked        *bool
	Downloaded   bool
	LinkCopied   bool
	StreamID     string // mutually exclusive with LivestreamID
	LivestreamID string
}

type LivestreamRow struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

type BotRow struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

type URLRow struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ViewCount int
}

// Batch is one fetch's worth of rows across all source tables.
type Batch struct {
	Streams     []StreamRow
	Highlights  []HighlightRow
	Livestreams []LivestreamRow
	Bots        []BotRow
	URLs        []URLRow
}

// Empty reports whether the batch carries no rows at all.
func (b Batch) Empty() bool {
	return len(b.Streams) == 0 && len(b.Highlights) == 0 &&
		len(b.Livestreams) == 0 && len(b.Bots) == 0 && len(b.URLs) == 0
}

// Count returns the number of rows fetched for the named table.
func (b Batch) Count(t Table) int {
	switch t {
	case TableStreams:
		return len(b.Streams)
	case TableHighlights:
		return len(b.Highlights)
	case TableLivestreams:
		return len(b.Livestreams)
	case TableBots:
		return len(b.Bots)
	case TableURLs:
		return len(b.URLs)
	default:
		return 0
	}
}

// Total returns the number of rows across all tables.
func (b Batch) Total() int {
	total := 0
	for _, t := range Tables {
		total += b.Count(t)
	}
	return total
}
