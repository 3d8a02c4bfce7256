package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/bubbleset/pkg/document"
	bserrors "github.com/matzehuels/bubbleset/pkg/errors"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	older := &document.Layout{Width: 100, Height: 50, Strategy: "pack", CreatedAt: time.Now().Add(-time.Hour).UTC()}
	newer := &document.Layout{Width: 200, Height: 80, Strategy: "force",
		Circles: []document.Circle{{Set: "A", X: 1, Y: 2, Radius: 3}}}

	for _, doc := range []*document.Layout{older, newer} {
		if err := s.Put(ctx, doc); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if doc.ID == "" || doc.CreatedAt.IsZero() {
			t.Fatalf("Put did not assign id and time: %+v", doc)
		}
	}

	got, err := s.Get(ctx, newer.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Width != 200 || got.Strategy != "force" || len(got.Circles) != 1 || got.Circles[0].Radius != 3 {
		t.Errorf("Get = %+v", got)
	}

	list, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Errorf("List order wrong: %d entries", len(list))
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d entries", len(list))
	}

	if err := s.Delete(ctx, newer.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, newer.ID); !bserrors.Is(err, bserrors.ErrCodeLayoutNotFound) {
		t.Errorf("Get after Delete = %v, want LAYOUT_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, newer.ID); err != nil {
		t.Errorf("deleting a missing layout: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)

	if _, err := s.Get(context.Background(), "../../etc/passwd"); !bserrors.Is(err, bserrors.ErrCodeLayoutNotFound) {
		t.Errorf("path-like id: err = %v, want LAYOUT_NOT_FOUND", err)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("BUBBLESET_MONGO_URI")
	if uri == "" {
		t.Skip("BUBBLESET_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "bubbleset_test", Collection: "layouts_" + time.Now().Format("150405")})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	defer s.coll.Drop(ctx)
	testStore(t, s)
}
