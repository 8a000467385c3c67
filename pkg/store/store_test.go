package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccollicutt/conversa/pkg/analyzer"
	"github.com/ccollicutt/conversa/pkg/parser"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleResult() *analyzer.AnalysisResult {
	chat := "01/01/2024, 10:00 - Ana: bom dia kkkk 😂\n" +
		"01/01/2024, 10:05 - Bruno: bom dia! tudo bem?\n" +
		"01/01/2024, 10:06 - Ana: tudo ótimo"
	return analyzer.Analyze(parser.Parse(chat, parser.WithLocation(time.UTC)))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 2 {
		t.Errorf("version = %d, want 2 (init + keywords)", result.Version)
	}
	if result.Dirty {
		t.Error("schema should not be dirty")
	}
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord(sampleResult(), "chat.txt")

	if rec.TotalMessages != 3 || rec.Participants != 2 {
		t.Errorf("totals = %d msgs / %d participants, want 3/2", rec.TotalMessages, rec.Participants)
	}
	if len(rec.Senders) != 2 || rec.Senders[0] != (SenderCount{Name: "Ana", Messages: 2}) {
		t.Errorf("senders = %+v", rec.Senders)
	}
	if rec.MostUsedEmoji != "😂" {
		t.Errorf("emoji = %q", rec.MostUsedEmoji)
	}
	if rec.Keywords["laughter"] != 1 {
		t.Errorf("keywords = %v", rec.Keywords)
	}
	if rec.FirstMessageAt != "2024-01-01T10:00:00Z" || rec.LastMessageAt != "2024-01-01T10:06:00Z" {
		t.Errorf("range = %s .. %s", rec.FirstMessageAt, rec.LastMessageAt)
	}
	if rec.MostActiveHour == nil || *rec.MostActiveHour != 10 {
		t.Errorf("most active hour = %v", rec.MostActiveHour)
	}
}

func TestNewRecord_Empty(t *testing.T) {
	rec := NewRecord(analyzer.Analyze(nil), "empty.txt")
	if rec.MostActiveHour != nil || rec.FavoriteWord != "" || rec.DominantCategory != "" {
		t.Errorf("empty record should have no derived fields: %+v", rec)
	}
}

func TestSaveAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rec := NewRecord(sampleResult(), "chat.txt")
	if err := db.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatal("Save should assign ID and CreatedAt")
	}

	got, err := db.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Source != "chat.txt" || got.TotalMessages != 3 {
		t.Errorf("got %+v", got)
	}
	if len(got.Senders) != 2 || got.Senders[1].Name != "Bruno" {
		t.Errorf("senders = %+v", got.Senders)
	}
	if got.MostActiveHour == nil || *got.MostActiveHour != 10 {
		t.Errorf("most active hour = %v", got.MostActiveHour)
	}
	if got.Keywords["questions"] != 1 {
		t.Errorf("keywords = %v", got.Keywords)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt.Truncate(time.Millisecond)) {
		t.Errorf("created at = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestSave_EmptyResultRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rec := NewRecord(analyzer.Analyze(nil), "empty.txt")
	if err := db.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	got, err := db.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.MostActiveHour != nil {
		t.Errorf("hour should stay NULL, got %d", *got.MostActiveHour)
	}
	if len(got.Senders) != 0 || len(got.TopExpressions) != 0 {
		t.Errorf("expected empty collections, got %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, src := range []string{"a.txt", "b.txt", "c.txt"} {
		rec := NewRecord(sampleResult(), src)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := db.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := db.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].Source != "c.txt" || recs[1].Source != "b.txt" {
		t.Errorf("order = %s, %s", recs[0].Source, recs[1].Source)
	}

	all, err := db.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("default limit returned %d records", len(all))
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rec := NewRecord(sampleResult(), "chat.txt")
	if err := db.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := db.Delete(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("record should be gone, err = %v", err)
	}
	if err := db.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
