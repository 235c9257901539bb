package refreshlog_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"matchhub/internal/adapters/storage"
	"matchhub/internal/adapters/storage/refreshlog"
	domain "matchhub/internal/domain/refresh"
)

func TestSQLiteStore(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	store := refreshlog.NewSQLiteStore(db)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC)

	attempts := []domain.Attempt{
		{ID: "1", Source: domain.SourceStandings, TriggeredBy: "martin", OK: true, Items: 14, StartedAt: base, Duration: 1200 * time.Millisecond},
		{ID: "2", Source: domain.SourceStandings, TriggeredBy: "cli", OK: false, Error: "status 503", StartedAt: base.Add(time.Hour)},
		{ID: "3", Source: domain.SourceFixtures, OK: true, Items: 300, StartedAt: base.Add(2 * time.Hour)},
	}
	for _, a := range attempts {
		if err := store.Save(ctx, a); err != nil {
			t.Fatalf("Save(%s): %v", a.ID, err)
		}
	}

	recent, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "3" || recent[1].Error != "status 503" {
		t.Errorf("ListRecent() = %+v", recent)
	}

	last, ok, err := store.LastSuccess(ctx, domain.SourceStandings)
	if err != nil || !ok {
		t.Fatalf("LastSuccess: %v, %v", ok, err)
	}
	if last.ID != "1" || last.Items != 14 || last.Duration != 1200*time.Millisecond {
		t.Errorf("LastSuccess() = %+v", last)
	}
	if _, ok, _ := store.LastSuccess(ctx, domain.RecentSource("ERC Ingolstadt")); ok {
		t.Error("expected no success for recent source")
	}
}
