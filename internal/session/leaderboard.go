package session

import (
	"sort"
	"sync"
	"time"
)

// leaderboardCap bounds the retained entry set.
const leaderboardCap = 10

// Entry is one finished match on the leaderboard.
type Entry struct {
	Name    string        `json:"name"`
	Score   int           `json:"score"`
	Results []RoundResult `json:"results,omitempty"`
	When    time.Time     `json:"when"`
}

// Leaderboard is the persistence collaborator contract. The machine only
// calls it at session completion, never mid-round.
type Leaderboard interface {
	Entries() []Entry
	AddEntry(name string, score int, results []RoundResult) Entry
	IsHighScore(score int) bool
}

// MemoryLeaderboard is the in-process implementation: a capped top-10 set
// sorted descending by score.
type MemoryLeaderboard struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryLeaderboard() *MemoryLeaderboard {
	return &MemoryLeaderboard{}
}

func (l *MemoryLeaderboard) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

func (l *MemoryLeaderboard) AddEntry(name string, score int, results []RoundResult) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := Entry{
		Name:    name,
		Score:   score,
		Results: append([]RoundResult(nil), results...),
		When:    time.Now(),
	}
	l.entries = append(l.entries, entry)
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Score > l.entries[j].Score
	})
	if len(l.entries) > leaderboardCap {
		l.entries = l.entries[:leaderboardCap]
	}
	return entry
}

func (l *MemoryLeaderboard) IsHighScore(score int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if score <= 0 {
		return false
	}
	if len(l.entries) < leaderboardCap {
		return true
	}
	return score > l.entries[len(l.entries)-1].Score
}
