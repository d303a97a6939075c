package session

import (
	"fmt"
	"testing"
)

func TestLeaderboardSortsAndCaps(t *testing.T) {
	board := NewMemoryLeaderboard()
	for i := 1; i <= 12; i++ {
		board.AddEntry(fmt.Sprintf("player-%d", i), i, nil)
	}

	entries := board.Entries()
	if len(entries) != leaderboardCap {
		t.Fatalf("retained %d entries, want the cap of %d", len(entries), leaderboardCap)
	}
	if entries[0].Score != 12 {
		t.Errorf("top score = %d, want 12", entries[0].Score)
	}
	if entries[len(entries)-1].Score != 3 {
		t.Errorf("lowest retained score = %d, want 3", entries[len(entries)-1].Score)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Score > entries[i-1].Score {
			t.Fatalf("entries out of order at %d: %v", i, entries)
		}
	}
}

func TestLeaderboardIsHighScore(t *testing.T) {
	board := NewMemoryLeaderboard()

	if board.IsHighScore(0) {
		t.Error("a zero score never ranks")
	}
	if board.IsHighScore(-3) {
		t.Error("a negative score never ranks")
	}
	if !board.IsHighScore(1) {
		t.Error("any positive score ranks on an empty board")
	}

	for i := 0; i < leaderboardCap; i++ {
		board.AddEntry("filler", 100+i, nil)
	}
	if board.IsHighScore(100) {
		t.Error("a score tied with the lowest retained entry does not rank")
	}
	if !board.IsHighScore(101) {
		t.Error("a score above the lowest retained entry ranks")
	}
}

func TestLeaderboardAddEntryCopiesResults(t *testing.T) {
	board := NewMemoryLeaderboard()
	results := []RoundResult{{Round: 1, Place: 2, Score: 3}}
	entry := board.AddEntry("ace", 9, results)

	if entry.Name != "ace" || entry.Score != 9 || entry.When.IsZero() {
		t.Errorf("entry not filled in: %+v", entry)
	}
	results[0].Score = 99
	if board.Entries()[0].Results[0].Score != 3 {
		t.Error("stored results alias the caller's slice")
	}
}
