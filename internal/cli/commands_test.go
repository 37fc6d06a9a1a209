package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const testDocument = `{
	"version": 2,
	"slots": [
		{"x": 100, "y": 80, "width": 120, "height": 160, "size": "50x70",
		 "variant_id": "12345", "product_price_minor": 2999}
	]
}`

func writeTestDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gallery.json")
	if err := os.WriteFile(path, []byte(testDocument), 0644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

// useFileStore points the config env at a throwaway file-backed store.
func useFileStore(t *testing.T) {
	t.Helper()
	t.Setenv("WALLBUILDER_STORE", "file")
	t.Setenv("WALLBUILDER_STORE_PATH", filepath.Join(t.TempDir(), "galleries.json"))
}

func TestTotalCommand(t *testing.T) {
	cmd := newTotalCmd()
	cmd.SetArgs([]string{writeTestDocument(t)})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("total: %v", err)
	}
}

func TestTotalCommandRejectsBadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("write document: %v", err)
	}

	cmd := newTotalCmd()
	cmd.SetArgs([]string{path})
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err == nil {
		t.Fatal("total should fail on a structurally invalid document")
	}
}

func TestResolveCommand(t *testing.T) {
	cmd := newResolveCmd()
	cmd.SetArgs([]string{
		"--variants", "S - 29.7 x 42cm (A3)|Paper:29.99|123;L - 70 x 100cm|Canvas:54.99|456",
		"--size", "70x100",
		"--material", "canvas",
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
}

func TestResolveCommandRequiresSource(t *testing.T) {
	cmd := newResolveCmd()
	cmd.SetArgs([]string{"--size", "30x40"})
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err == nil {
		t.Fatal("resolve should fail without --variants or --handle")
	}
}

func TestShareEncodeCommand(t *testing.T) {
	cmd := newShareEncodeCmd()
	cmd.SetArgs([]string{writeTestDocument(t), "--page-url", "https://shop.example.com/pages/gallery"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("share encode: %v", err)
	}
}

func TestWishlistAddListRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wishlist.json")

	cmd := newWishlistCmd()
	cmd.SetArgs([]string{"add", "fern-print", "--file", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("add: %v", err)
	}

	cmd = newWishlistCmd()
	cmd.SetArgs([]string{"list", "--file", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}

	cmd = newWishlistCmd()
	cmd.SetArgs([]string{"remove", "fern-print", "--file", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("remove: %v", err)
	}
}

func TestGalleriesSaveListDelete(t *testing.T) {
	useFileStore(t)
	configPath := ""

	save := newGalleriesSaveCmd(&configPath)
	save.SetArgs([]string{writeTestDocument(t), "--name", "Hallway"})
	if err := save.Execute(); err != nil {
		t.Fatalf("save: %v", err)
	}

	list := newGalleriesListCmd(&configPath)
	list.SetArgs([]string{})
	if err := list.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}

	// Deleting a made-up id fails with a not-found error.
	del := newGalleriesDeleteCmd(&configPath)
	del.SetArgs([]string{"no-such-id"})
	del.SilenceErrors = true
	if err := del.Execute(); err == nil {
		t.Fatal("delete of unknown id should fail")
	}
}
