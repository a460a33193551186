package ledger

import (
	"context"
	"testing"
	"time"
)

func TestBadgerLedgerRecordListDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx := context.Background()
	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	second := Orphan{ArtifactID: "b", Error: "redis down", At: base.Add(time.Second)}
	first := Orphan{ArtifactID: "a", Filename: "clip.mp4", Username: "ada", Error: "redis down", At: base}
	for _, o := range []Orphan{second, first} {
		if err := l.Record(ctx, o); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Entries survive a reopen.
	l, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()

	got, err := l.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ArtifactID != "a" || got[1].ArtifactID != "b" {
		t.Fatalf("list order/content: %+v", got)
	}
	if got[0].Filename != "clip.mp4" || got[0].Username != "ada" {
		t.Fatalf("fields lost: %+v", got[0])
	}

	if err := l.Delete(got[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = l.List(ctx)
	if len(got) != 1 || got[0].ArtifactID != "b" {
		t.Fatalf("after delete: %+v", got)
	}
}

func TestInMemoryLedgerStampsTime(t *testing.T) {
	l, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()
	if err := l.Record(context.Background(), Orphan{ArtifactID: "x", Error: "boom"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := l.List(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("list: %v %+v", err, got)
	}
	if got[0].At.IsZero() {
		t.Fatalf("time not stamped")
	}
}
