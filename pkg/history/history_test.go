package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/xplshn/tacgen/pkg/analyzer"
	"github.com/xplshn/tacgen/pkg/config"
	"github.com/xplshn/tacgen/pkg/token"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func analyze(t *testing.T, src string) *analyzer.Result {
	t.Helper()
	res, err := analyzer.New(config.NewConfig()).Analyze(analyzer.C, src)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestNewRecord(t *testing.T) {
	res := analyze(t, "int x = a + b;")
	rec := NewRecord("alice", res, base)
	if len(rec.ID) != 16 {
		t.Errorf("ID %q should be 16 hex digits", rec.ID)
	}
	if again := NewRecord("alice", res, base); again.ID != rec.ID {
		t.Errorf("ID not deterministic: %s vs %s", rec.ID, again.ID)
	}
	if later := NewRecord("alice", res, base.Add(time.Second)); later.ID == rec.ID {
		t.Error("records at different times share an ID")
	}
	if other := NewRecord("bob", res, base); other.ID == rec.ID {
		t.Error("records of different users share an ID")
	}
	if rec.Language != analyzer.C || rec.SourceCode != res.SourceCode || len(rec.ThreeAddressCode) != 2 {
		t.Errorf("record does not carry the result: %+v", rec)
	}
}

func storeTests(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("requires user", func(t *testing.T) {
		s := newStore(t)
		err := s.Append(ctx, NewRecord("", analyze(t, "x = 1;"), base))
		if !errors.Is(err, ErrNoUser) {
			t.Errorf("Append without user: err = %v, want ErrNoUser", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		recs, err := newStore(t).List(ctx, "nobody")
		if err != nil || len(recs) != 0 {
			t.Errorf("List = %v, %v", recs, err)
		}
	})

	t.Run("newest first per user", func(t *testing.T) {
		s := newStore(t)
		first := NewRecord("alice", analyze(t, "x = 1;"), base)
		other := NewRecord("bob", analyze(t, "y = 2;"), base.Add(time.Minute))
		second := NewRecord("alice", analyze(t, "int z = x * 2; f(z);"), base.Add(time.Hour))
		for _, r := range []Record{first, other, second} {
			if err := s.Append(ctx, r); err != nil {
				t.Fatal(err)
			}
		}

		got, err := s.List(ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		opts := cmp.Options{cmpopts.IgnoreFields(token.Token{}, "Len"), cmpopts.EquateEmpty()}
		if diff := cmp.Diff([]Record{second, first}, got, opts); diff != "" {
			t.Errorf("List mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := newStore(t).Append(cctx, NewRecord("alice", analyze(t, "x = 1;"), base)); !errors.Is(err, context.Canceled) {
			t.Errorf("Append with cancelled context: err = %v", err)
		}
	})
}

func TestMemStore(t *testing.T) {
	storeTests(t, func(*testing.T) Store { return NewMemStore() })
}

func TestFileStore(t *testing.T) {
	storeTests(t, func(t *testing.T) Store {
		return NewFileStore(filepath.Join(t.TempDir(), "nested", "history.jsonl"))
	})
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.jsonl")
	rec := NewRecord("alice", analyze(t, "if (a < b) { } x = a;"), base)
	if err := NewFileStore(path).Append(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileStore(path).List(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if diff := cmp.Diff(rec.Quadruples, got[0].Quadruples); diff != "" {
		t.Errorf("quadruples mismatch (-want +got):\n%s", diff)
	}
	if !got[0].Timestamp.Equal(base) || got[0].ID != rec.ID {
		t.Errorf("record header mismatch: %s %v", got[0].ID, got[0].Timestamp)
	}
}
