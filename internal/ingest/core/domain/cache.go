package domain

import "time"

// RawDataCache is the session-scoped snapshot of raw rows plus the max
// timestamp seen per table. It is an explicit value owned by its caller;
// merging and invalidation return new values instead of mutating shared
// state. Computed metrics are never stored here, only raw rows.
type RawDataCache struct {
	rows     Batch
	lastSeen map[Table]time.Time
}

// NewRawDataCache returns an empty cache.
func NewRawDataCache() RawDataCache {
	return RawDataCache{lastSeen: make(map[Table]time.Time)}
}

// LastSeen returns the max created_at observed for the table, or the zero
// time when the table has never been fetched.
func (c RawDataCache) LastSeen(t Table) time.Time {
	return c.lastSeen[t]
}

// Rows returns the cached rows. Callers must treat the result as read-only.
func (c RawDataCache) Rows() Batch {
	return c.rows
}

// Invalidate returns an empty cache, forcing the next fetch to reload
// every table from scratch.
func (c RawDataCache) Invalidate() RawDataCache {
	return NewRawDataCache()
}

// MergeIncremental returns a new cache with the batch appended. Rows whose
// id is already cached for the same table are ignored, and per-table
// high-water marks advance to the max created_at seen.
func (c RawDataCache) MergeIncremental(b Batch) RawDataCache {
	next := RawDataCache{
		rows:     c.rows,
		lastSeen: make(map[Table]time.Time, len(c.lastSeen)),
	}
	for t, ts := range c.lastSeen {
		next.lastSeen[t] = ts
	}

	seen := make(map[string]struct{})

	for _, r := range c.rows.Streams {
		seen[string(TableStreams)+"/"+r.ID] = struct{}{}
	}
	for _, r := range b.Streams {
		if _, dup := seen[string(TableStreams)+"/"+r.ID]; dup {
			continue
		}
		seen[string(TableStreams)+"/"+r.ID] = struct{}{}
		next.rows.Streams = append(next.rows.Streams, r)
		next.advance(TableStreams, r.CreatedAt)
	}

	for _, r := range c.rows.Highlights {
		seen[string(TableHighlights)+"/"+r.ID] = struct{}{}
	}
	for _, r := range b.Highlights {
		if _, dup := seen[string(TableHighlights)+"/"+r.ID]; dup {
			continue
		}
		seen[string(TableHighlights)+"/"+r.ID] = struct{}{}
		next.rows.Highlights = append(next.rows.Highlights, r)
		next.advance(TableHighlights, r.CreatedAt)
	}

	for _, r := range c.rows.Livestreams {
		seen[string(TableLivestreams)+"/"+r.ID] = struct{}{}
	}
	for _, r := range b.Livestreams {
		if _, dup := seen[string(TableLivestreams)+"/"+r.ID]; dup {
			continue
		}
		seen[string(TableLivestreams)+"/"+r.ID] = struct{}{}
		next.rows.Livestreams = append(next.rows.Livestreams, r)
		next.advance(TableLivestreams, r.CreatedAt)
	}

	for _, r := range c.rows.Bots {
		seen[string(TableBots)+"/"+r.ID] = struct{}{}
	}
	for _, r := range b.Bots {
		if _, dup := seen[string(TableBots)+"/"+r.ID]; dup {
			continue
		}
		seen[string(TableBots)+"/"+r.ID] = struct{}{}
		next.rows.Bots = append(next.rows.Bots, r)
		next.advance(TableBots, r.CreatedAt)
	}

	for _, r := range c.rows.URLs {
		seen[string(TableURLs)+"/"+r.ID] = struct{}{}
	}
	for _, r := range b.URLs {
		if _, dup := seen[string(TableURLs)+"/"+r.ID]; dup {
			continue
		}
		seen[string(TableURLs)+"/"+r.ID] = struct{}{}
		next.rows.URLs = append(next.rows.URLs, r)
		next.advance(TableURLs, r.CreatedAt)
	}

	return next
}

func (c *RawDataCache) advance(t Table, ts time.Time) {
	if ts.After(c.lastSeen[t]) {
		c.lastSeen[t] = ts
	}
}
