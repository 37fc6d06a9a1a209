package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// Wishlist is an ordered set of product handles a shopper marked for later.
// Like saved galleries it historically lived under a single local-storage
// key, so the persisted form is one JSON array read and written whole.
type Wishlist struct {
	Handles []string `json:"handles"`
}

// Add appends handle if not already present. Returns true when added.
func (w *Wishlist) Add(handle string) bool {
	if w.Has(handle) {
		return false
	}
	w.Handles = append(w.Handles, handle)
	return true
}

// Remove drops handle. Returns true when it was present.
func (w *Wishlist) Remove(handle string) bool {
	idx := slices.Index(w.Handles, handle)
	if idx < 0 {
		return false
	}
	w.Handles = slices.Delete(w.Handles, idx, idx+1)
	return true
}

// Has reports whether handle is on the list.
func (w *Wishlist) Has(handle string) bool {
	return slices.Contains(w.Handles, handle)
}

// LoadWishlist reads a wishlist file. A missing or unreadable file yields an
// empty wishlist, never an error: a broken wishlist must not break the page.
func LoadWishlist(path string) *Wishlist {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Wishlist{}
	}
	var w Wishlist
	if err := json.Unmarshal(data, &w); err != nil {
		return &Wishlist{}
	}
	return &w
}

// SaveWishlist writes the wishlist whole, creating parent directories.
func SaveWishlist(path string, w *Wishlist) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "create wishlist directory")
	}
	data, err := json.Marshal(w)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode wishlist")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write wishlist")
	}
	return nil
}
