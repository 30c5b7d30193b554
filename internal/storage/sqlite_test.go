package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.RecordHighScore("tides", 42); err != nil {
		t.Fatalf("RecordHighScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("tides")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 42 {
		t.Errorf("Expected high score 42 after reopen, got %d", high)
	}
}

func TestStoreValue(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Value("missing"); err != nil || ok {
		t.Errorf("missing key: ok=%v err=%v, expected not found", ok, err)
	}

	if err := store.SetValue("tides.highScore", 12.5); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}
	if err := store.SetValue("tides.highScore", 13); err != nil {
		t.Fatalf("SetValue() overwrite failed: %v", err)
	}
	v, ok, err := store.Value("tides.highScore")
	if err != nil || !ok || v != 13 {
		t.Errorf("Value() = %v, %v, %v; expected 13, true, nil", v, ok, err)
	}
}

func TestStoreSetValueRejectsNonFinite(t *testing.T) {
	store := openTestStore(t)
	var zero float64
	for _, v := range []float64{zero / zero, 1 / zero} {
		if err := store.SetValue("k", v); err == nil {
			t.Errorf("SetValue(%v) should fail", v)
		}
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No score yet
	high, err := store.HighScore("tides")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	tests := []struct {
		score   int
		updated bool
		best    int
	}{
		{10, true, 10},
		{7, false, 10},
		{10, false, 10},
		{25, true, 25},
	}
	for _, tc := range tests {
		updated, err := store.RecordHighScore("tides", tc.score)
		if err != nil {
			t.Fatalf("RecordHighScore(%d) failed: %v", tc.score, err)
		}
		if updated != tc.updated {
			t.Errorf("RecordHighScore(%d) updated=%v, expected %v", tc.score, updated, tc.updated)
		}
		if high, _ := store.HighScore("tides"); high != tc.best {
			t.Errorf("after %d: high score %d, expected %d", tc.score, high, tc.best)
		}
	}

	// Other games keep their own key
	if high, _ := store.HighScore("tides_zen"); high != 0 {
		t.Errorf("tides_zen should have no high score, got %d", high)
	}
}

func TestStoreHighScoreInvalidValue(t *testing.T) {
	store := openTestStore(t)
	if err := store.SetValue(HighScoreKey("tides"), -5); err != nil {
		t.Fatal(err)
	}
	if _, err := store.db.Exec("INSERT INTO kv (key, value) VALUES (?, NULL)", HighScoreKey("tides_zen")); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"tides", "tides_zen"} {
		high, err := store.HighScore(id)
		if err != nil {
			t.Fatalf("HighScore(%q) failed: %v", id, err)
		}
		if high != 0 {
			t.Errorf("invalid stored value for %q should read as 0, got %d", id, high)
		}
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, e := range []ScoreEntry{
		{GameID: "tides", Player: "ana", Score: 100, Reason: "balance lost", Ticks: 7000},
		{GameID: "tides", Player: "bo", Score: 50, Reason: "overwhelmed", Ticks: 4000},
		{GameID: "tides", Player: "ana", Score: 200, Reason: "edge timeout", Ticks: 14000},
		{GameID: "tides_zen", Score: 500, Reason: "balance lost", Ticks: 32000},
	} {
		saved, err := store.SaveScore(e)
		if err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
		if saved.ID == 0 {
			t.Error("SaveScore() should return the inserted ID")
		}
		if _, err := uuid.Parse(saved.RunID); err != nil {
			t.Errorf("RunID %q is not a uuid: %v", saved.RunID, err)
		}
	}

	scores, err := store.TopScores("tides", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	want := []int{200, 100, 50}
	for i, s := range scores {
		if s.Score != want[i] {
			t.Errorf("scores[%d] = %d, expected %d", i, s.Score, want[i])
		}
	}
	if scores[0].Player != "ana" || scores[0].Reason != "edge timeout" || scores[0].Ticks != 14000 {
		t.Errorf("top entry fields not round-tripped: %+v", scores[0])
	}

	zen, err := store.TopScores("tides_zen", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(zen) != 1 {
		t.Errorf("Expected 1 zen score, got %d", len(zen))
	}
}

func TestStoreSaveKeepsRunID(t *testing.T) {
	store := openTestStore(t)
	id := uuid.NewString()

	saved, err := store.SaveScore(ScoreEntry{RunID: id, GameID: "tides", Score: 3})
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if saved.RunID != id {
		t.Errorf("RunID = %q, expected %q", saved.RunID, id)
	}

	// Run ids are unique
	if _, err := store.SaveScore(ScoreEntry{RunID: id, GameID: "tides", Score: 4}); err == nil {
		t.Error("duplicate run id should be rejected")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	// Save 5 scores
	for i := 0; i < 5; i++ {
		if _, err := store.SaveScore(ScoreEntry{GameID: "test", Score: (i + 1) * 100}); err != nil {
			t.Fatal(err)
		}
	}

	// Request only top 3
	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	for _, e := range []ScoreEntry{
		{GameID: "tides", Score: 100},
		{GameID: "tides", Score: 200},
		{GameID: "tides_zen", Score: 300},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatal(err)
		}
	}
	store.RecordHighScore("tides", 200)
	store.RecordHighScore("tides_zen", 300)

	// Clear only tides
	if err := store.ClearScores("tides"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("tides", 10); len(scores) != 0 {
		t.Errorf("Expected 0 tides scores after clear, got %d", len(scores))
	}
	if high, _ := store.HighScore("tides"); high != 0 {
		t.Errorf("Expected cleared high score, got %d", high)
	}

	// Zen should be untouched
	if scores, _ := store.TopScores("tides_zen", 10); len(scores) != 1 {
		t.Error("zen scores should not be affected by clearing tides")
	}
	if high, _ := store.HighScore("tides_zen"); high != 300 {
		t.Errorf("zen high score = %d, expected 300", high)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GameStats("tides")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	for _, e := range []ScoreEntry{
		{GameID: "tides", Score: 10, Ticks: 600},
		{GameID: "tides", Score: 30, Ticks: 1800},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.GameStats("tides")
	if err != nil {
		t.Fatalf("GameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 30 || stats.AvgScore != 20 || stats.TotalTicks != 2400 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStoreConcurrentSessions(t *testing.T) {
	store := openTestStore(t)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, err := store.SaveScore(ScoreEntry{GameID: "tides", Score: score}); err != nil {
				t.Errorf("SaveScore(%d) failed: %v", score, err)
			}
		}(i)
	}
	wg.Wait()

	scores, err := store.TopScores("tides", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 8 {
		t.Errorf("Expected 8 scores, got %d", len(scores))
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
