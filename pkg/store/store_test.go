package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// testBackends returns a constructor per locally testable backend. Redis,
// MongoDB and PostgreSQL need live servers and are exercised in integration
// environments instead.
func testBackends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "galleries.json"))
			if err != nil {
				t.Fatalf("NewFileStore() error = %v", err)
			}
			return s
		},
	}
}

func testDocument(variantID string) codec.Document {
	return codec.Document{
		Version:    codec.Version,
		Background: "living-room",
		Slots: []codec.SlotRecord{
			{
				X: 100, Y: 80, Width: 120, Height: 160,
				SizeLabel:    "50x70",
				ProductID:    "poster-lines",
				VariantID:    variantID,
				ProductTitle: "Lines",
				ProductPrice: 2999,
				ProductSize:  "50x70",
			},
		},
	}
}

func TestSaveMintsNewIDPerSave(t *testing.T) {
	for name, newStore := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			first, err := s.Save(ctx, "Living Room", testDocument("v1"), SaveOptions{})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			second, err := s.Save(ctx, "Living Room", testDocument("v2"), SaveOptions{})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			if first.ID == second.ID {
				t.Errorf("expected distinct ids for two plain saves, both got %q", first.ID)
			}
			records, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != 2 {
				t.Errorf("List() returned %d records, want 2", len(records))
			}
		})
	}
}

func TestSaveOverwriteReusesNewestSameName(t *testing.T) {
	for name, newStore := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			first, err := s.Save(ctx, "Hallway", testDocument("v1"), SaveOptions{})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			time.Sleep(2 * time.Millisecond)
			second, err := s.Save(ctx, "Hallway", testDocument("v2"), SaveOptions{})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			time.Sleep(2 * time.Millisecond)

			updated, err := s.Save(ctx, "Hallway", testDocument("v3"), SaveOptions{Overwrite: true})
			if err != nil {
				t.Fatalf("Save(Overwrite) error = %v", err)
			}
			if updated.ID != second.ID {
				t.Errorf("Overwrite reused id %q, want newest same-name id %q", updated.ID, second.ID)
			}
			if updated.ID == first.ID {
				t.Errorf("Overwrite reused the older record's id %q", first.ID)
			}
			if !updated.CreatedAt.Equal(second.CreatedAt) {
				t.Errorf("Overwrite CreatedAt = %v, want original %v", updated.CreatedAt, second.CreatedAt)
			}
			if !updated.UpdatedAt.After(second.UpdatedAt) {
				t.Errorf("Overwrite UpdatedAt = %v, want after %v", updated.UpdatedAt, second.UpdatedAt)
			}

			got, err := s.Get(ctx, second.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Document.Slots[0].VariantID != "v3" {
				t.Errorf("overwritten document variant = %q, want %q", got.Document.Slots[0].VariantID, "v3")
			}
			records, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != 2 {
				t.Errorf("List() returned %d records after overwrite, want 2", len(records))
			}
		})
	}
}

func TestSaveOverwriteWithoutMatchMintsNewID(t *testing.T) {
	for name, newStore := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			rec, err := s.Save(ctx, "Fresh Wall", testDocument("v1"), SaveOptions{Overwrite: true})
			if err != nil {
				t.Fatalf("Save(Overwrite) error = %v", err)
			}
			if rec.ID == "" {
				t.Error("expected a minted id when no same-name record exists")
			}
		})
	}
}

func TestSaveRejectsInvalidName(t *testing.T) {
	for name, newStore := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			_, err := s.Save(ctx, "   ", testDocument("v1"), SaveOptions{})
			if errors.GetCode(err) != errors.ErrCodeInvalidName {
				t.Fatalf("Save(blank name) error = %v, want INVALID_NAME", err)
			}
			records, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != 0 {
				t.Errorf("rejected save wrote %d records, want 0", len(records))
			}
		})
	}
}

func TestGetAndDeleteMissing(t *testing.T) {
	for name, newStore := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			if _, err := s.Get(ctx, "nope"); errors.GetCode(err) != errors.ErrCodeGalleryNotFound {
				t.Errorf("Get(missing) error = %v, want GALLERY_NOT_FOUND", err)
			}
			if err := s.Delete(ctx, "nope"); errors.GetCode(err) != errors.ErrCodeGalleryNotFound {
				t.Errorf("Delete(missing) error = %v, want GALLERY_NOT_FOUND", err)
			}
		})
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	for name, newStore := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			rec, err := s.Save(ctx, "Short Lived", testDocument("v1"), SaveOptions{})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if err := s.Delete(ctx, rec.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Get(ctx, rec.ID); !errors.IsNotFound(err) {
				t.Errorf("Get(deleted) error = %v, want not-found", err)
			}
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	for name, newStore := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			names := []string{"First", "Second", "Third"}
			for _, n := range names {
				if _, err := s.Save(ctx, n, testDocument("v1"), SaveOptions{}); err != nil {
					t.Fatalf("Save(%q) error = %v", n, err)
				}
				time.Sleep(2 * time.Millisecond)
			}

			records, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != len(names) {
				t.Fatalf("List() returned %d records, want %d", len(records), len(names))
			}
			for i, want := range []string{"Third", "Second", "First"} {
				if records[i].Name != want {
					t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, want)
				}
			}
		})
	}
}

func TestDocumentRoundTripThroughStore(t *testing.T) {
	for name, newStore := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			doc := testDocument("v-keep")
			doc.Service = &codec.ServiceRecord{VariantID: "svc-1", Title: "Framing", PriceMinor: 500}

			rec, err := s.Save(ctx, "Round Trip", doc, SaveOptions{})
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := s.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}

			if got.Name != "Round Trip" {
				t.Errorf("Name = %q, want %q", got.Name, "Round Trip")
			}
			if len(got.Document.Slots) != 1 || got.Document.Slots[0].VariantID != "v-keep" {
				t.Errorf("stored document slots = %+v, want the saved slot", got.Document.Slots)
			}
			if got.Document.Service == nil || got.Document.Service.VariantID != "svc-1" {
				t.Errorf("stored service = %+v, want svc-1", got.Document.Service)
			}
		})
	}
}

func TestFileStoreCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galleries.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("List() over corrupt file returned %d records, want 0", len(records))
	}

	// Saving over a corrupt file replaces it with a valid one.
	if _, err := s.Save(ctx, "Recovered", testDocument("v1"), SaveOptions{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	records, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("List() after recovery returned %d records, want 1", len(records))
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galleries.json")
	ctx := context.Background()

	s1, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	rec, err := s1.Save(ctx, "Durable", testDocument("v1"), SaveOptions{})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	s1.Close()

	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Durable" {
		t.Errorf("Name = %q, want %q", got.Name, "Durable")
	}
}

func TestWishlist(t *testing.T) {
	w := &Wishlist{}
	if !w.Add("poster-lines") {
		t.Error("Add(new) = false, want true")
	}
	if w.Add("poster-lines") {
		t.Error("Add(duplicate) = true, want false")
	}
	w.Add("poster-dots")
	if !w.Has("poster-dots") {
		t.Error("Has(poster-dots) = false, want true")
	}
	if !w.Remove("poster-lines") {
		t.Error("Remove(present) = false, want true")
	}
	if w.Remove("poster-lines") {
		t.Error("Remove(absent) = true, want false")
	}
	if len(w.Handles) != 1 || w.Handles[0] != "poster-dots" {
		t.Errorf("Handles = %v, want [poster-dots]", w.Handles)
	}
}

func TestWishlistLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wishlist.json")

	w := &Wishlist{Handles: []string{"a", "b"}}
	if err := SaveWishlist(path, w); err != nil {
		t.Fatalf("SaveWishlist() error = %v", err)
	}
	got := LoadWishlist(path)
	if len(got.Handles) != 2 || got.Handles[0] != "a" || got.Handles[1] != "b" {
		t.Errorf("LoadWishlist() = %v, want [a b]", got.Handles)
	}

	// Missing and corrupt files both load as empty.
	if got := LoadWishlist(filepath.Join(t.TempDir(), "missing.json")); len(got.Handles) != 0 {
		t.Errorf("LoadWishlist(missing) = %v, want empty", got.Handles)
	}
	if err := os.WriteFile(path, []byte("]["), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	if got := LoadWishlist(path); len(got.Handles) != 0 {
		t.Errorf("LoadWishlist(corrupt) = %v, want empty", got.Handles)
	}
}
