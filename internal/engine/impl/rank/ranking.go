package rank

import "time"

// RankEntry is one ranked value with its multiplicity inside a window.
type RankEntry struct {
	Value int64
	Count int
}

// GroupRanking is the most recent closed window of one group: its top entries
// in descending rank order and the window's exclusive end time.
type GroupRanking struct {
	Group     string
	WindowEnd time.Time
	Entries   []RankEntry
}

// RankingData is the snapshot payload produced by a rank task and consumed by
// its writers.
type RankingData struct {
	TaskName string
	Groups   []GroupRanking
}
