package main

import (
	"time"

	"github.com/patrickmn/go-cache"

	"chatteroo"
)

// heardTTL mirrors the teacher's MODES_AIRCRAFT_TTL: a station not
// heard from again within this window drops off the list.
const heardTTL = 5 * time.Minute

const heardCleanupInterval = 30 * time.Second

// heardEntry is what the monitor remembers about one station between
// the Transmissions it overhears.
type heardEntry struct {
	station  chatteroo.Station
	lastTag  uint8
	lastSeen time.Time
	messages int64
	corrID   string
}

// book is the monitor's "who have we heard from recently" table,
// structured the same way the teacher's mode_s.Decoder keeps a
// recently-seen ICAO address cache: a TTL cache keyed by the station's
// display string, refreshed on every sighting.
type book struct {
	c *cache.Cache
}

func newBook() *book {
	return &book{c: cache.New(heardTTL, heardCleanupInterval)}
}

// see records (or refreshes) a sighting of station, tagged with the
// variant of the command it arrived in and an opaque correlation id for
// log correlation.
func (b *book) see(station chatteroo.Station, tag uint8, corrID string) {
	key := station.String()
	var entry heardEntry
	if existing, found := b.c.Get(key); found {
		entry = existing.(heardEntry)
	} else {
		entry = heardEntry{station: station}
	}
	entry.lastTag = tag
	entry.lastSeen = time.Now()
	entry.messages++
	entry.corrID = corrID
	b.c.SetDefault(key, entry)
}

// entries returns a snapshot of everything currently in the book, for
// rendering into the monitor's list panel.
func (b *book) entries() []heardEntry {
	items := b.c.Items()
	out := make([]heardEntry, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(heardEntry))
	}
	return out
}

// count returns how many distinct stations are currently tracked.
func (b *book) count() int {
	return b.c.ItemCount()
}
