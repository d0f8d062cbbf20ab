package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "journal")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecentOrder(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		err := store.Append(Entry{
			ActorID:    "actor",
			Action:     "task.create",
			EntityKind: "task",
			EntityID:   "t" + string(rune('1'+i)),
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[i-1].Timestamp) {
			t.Fatal("entries must be chronological")
		}
	}
	if entries[0].EntityID != "t1" {
		t.Fatalf("expected oldest entry first, got %s", entries[0].EntityID)
	}
}

func TestCleanupDropsOldEntries(t *testing.T) {
	store := openTestStore(t)

	old := Entry{ActorID: "a", Action: "x", EntityID: "old", Timestamp: time.Now().Add(-2 * time.Hour)}
	fresh := Entry{ActorID: "a", Action: "x", EntityID: "fresh", Timestamp: time.Now()}
	if err := store.Append(old); err != nil {
		t.Fatalf("append old: %v", err)
	}
	if err := store.Append(fresh); err != nil {
		t.Fatalf("append fresh: %v", err)
	}

	if err := store.Cleanup(time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size != 1 {
		t.Fatalf("expected 1 entry after cleanup, got %d", size)
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 || entries[0].EntityID != "fresh" {
		t.Fatalf("expected only the fresh entry, got %+v", entries)
	}
}
