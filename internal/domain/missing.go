package domain

import "time"

// MissingWord is an aggregated record of a word token that resolved to no
// translation candidate. Count accumulates across requests; LastSeen is the
// time of the most recent occurrence.
type MissingWord struct {
	Word      string
	Direction Direction
	Count     int
	LastSeen  time.Time
}
