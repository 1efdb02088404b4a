/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ratingstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikeb26/uqlt/elo"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := New(path)
	if err != nil {
		t.Fatalf("New(%v): %v", path, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ratings.db")
	s := openStore(t, path)

	empty, err := s.Load(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Load on a new store: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no ratings, got %v", empty)
	}

	err = s.Save(ctx, map[string]elo.Ratings{
		"Rapha":  {Duel: 2100, FFA: 1800},
		"cypher": {Duel: 2000},
		"nobody": {},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// overwrite one entry
	if err := s.Save(ctx, map[string]elo.Ratings{"rapha": {Duel: 2150}}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := s.Load(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ratings, got %v", got)
	}
	if got["rapha"] != (elo.Ratings{Duel: 2150}) {
		t.Errorf("rapha = %+v; want upserted duel 2150", got["rapha"])
	}
	if got["cypher"].Duel != 2000 {
		t.Errorf("cypher = %+v", got["cypher"])
	}
	if _, ok := got["nobody"]; ok {
		t.Errorf("players saved without ratings should be asked about again")
	}
}

func TestLoadSkipsStaleRatings(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "ratings.db"))

	err := s.Save(ctx, map[string]elo.Ratings{
		"fresh": {Duel: 1700},
		"stale": {Duel: 1400},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	old := formatTimestamp(time.Now().Add(-48 * time.Hour))
	if _, err := s.db.ExecContext(ctx,
		"UPDATE ratings SET updated_at = ? WHERE name = ?", old, "stale"); err != nil {
		t.Fatalf("aging row: %v", err)
	}

	got, err := s.Load(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := got["stale"]; ok {
		t.Errorf("a rating older than the max age should not be restored")
	}
	if got["fresh"].Duel != 1700 {
		t.Errorf("fresh = %+v", got["fresh"])
	}

	cache := elo.NewCache()
	cache.Restore(got)
	if batches := elo.Partition(cache, []string{"fresh", "stale"}, 10); len(batches) != 1 ||
		len(batches[0]) != 1 || batches[0][0] != "stale" {
		t.Errorf("stale player should be looked up again, got batches %v", batches)
	}

	all, err := s.Load(ctx, 0)
	if err != nil {
		t.Fatalf("Load without a max age: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("no max age should load every rated row, got %v", all)
	}

	// saving a newer lookup makes the row fresh again
	if err := s.Save(ctx, map[string]elo.Ratings{"stale": {Duel: 1450}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got["stale"].Duel != 1450 {
		t.Errorf("re-fetched rating not restored: %+v", got["stale"])
	}
}

func TestReopenRestoresCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ratings.db")

	first, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cache := elo.NewCache()
	cache.Update("alice", elo.Ratings{Duel: 1200})
	cache.SetDefault("bob")
	if err := first.Save(ctx, cache.Updates()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := openStore(t, path)
	ratings, err := second.Load(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	restored := elo.NewCache()
	restored.Restore(ratings)
	if r, ok := restored.Get("ALICE"); !ok || r.Duel != 1200 {
		t.Errorf("alice = %+v, %v; want 1200, true", r, ok)
	}
	if restored.Known("bob") {
		t.Errorf("placeholder entries should not be persisted")
	}
}
