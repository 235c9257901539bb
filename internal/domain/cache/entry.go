// Package cache defines the envelope used for scraped league data on disk.
package cache

import (
	"errors"
	"time"
)

// Keys of the league caches.
const (
	KeyStandings = "del_table"
	KeyFixtures  = "del_fixtures"
)

// TimestampLayout is ISO 8601 with second precision and numeric offset.
const TimestampLayout = "2006-01-02T15:04:05Z07:00"

// ErrNotFound is returned when a cache entry has never been written.
var ErrNotFound = errors.New("cache entry not found")

// Entry wraps cached data with the time it was fetched.
type Entry[T any] struct {
	UpdatedAt string `json:"updated_at"`
	Data      T      `json:"data"`
}

// NewEntry stamps data with now in loc.
func NewEntry[T any](data T, now time.Time, loc *time.Location) Entry[T] {
	if loc != nil {
		now = now.In(loc)
	}
	return Entry[T]{UpdatedAt: now.Format(TimestampLayout), Data: data}
}

// Updated parses UpdatedAt; a malformed stamp yields the zero time.
func (e Entry[T]) Updated() time.Time {
	t, err := time.Parse(TimestampLayout, e.UpdatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
