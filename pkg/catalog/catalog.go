// Package catalog parses and indexes per-product variant lists.
//
// Storefront templates emit each product's purchasable variants as a single
// encoded attribute string:
//
//	"<size>|<material>:<price>|<variantId>;<size>|<material>:<price>|<variantId>;..."
//
// for example:
//
//	"S - 29.7 x 42cm (A3)|225g Fine Art Paper:29.99|12345;L - 70 x 100cm|400g Cotton Canvas:54.99|67890"
//
// Parse decodes that string into Variant records with prices in minor
// currency units, skipping malformed entries instead of failing the whole
// list. Index answers "which variant matches this frame size and material",
// with a deliberate fallback order so a lookup miss is recoverable rather
// than fatal: exact normalized match first, then material containment in
// either direction, then first-size-match when no material is requested.
package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/normalize"
)

// Variant is one purchasable size/material combination of a product.
// Records are immutable once parsed.
type Variant struct {
	SizeLabel     string `json:"size_label" bson:"size_label"`         // raw size text as encoded
	MaterialLabel string `json:"material_label" bson:"material_label"` // raw material text as encoded
	SizeKey       string `json:"size_key" bson:"size_key"`             // normalized "WxH", empty if unparseable
	MaterialKey   string `json:"material_key" bson:"material_key"`     // normalized material key
	PriceMinor    int64  `json:"price_minor" bson:"price_minor"`       // price in minor units (cents)
	VariantID     string `json:"variant_id" bson:"variant_id"`
}

// Parse decodes an encoded variant list. Entries missing a delimiter or with
// an unparseable price are skipped; an empty input yields an empty slice.
func Parse(encoded string) []Variant {
	if strings.TrimSpace(encoded) == "" {
		return nil
	}

	entries := strings.Split(encoded, ";")
	variants := make([]Variant, 0, len(entries))
	for _, entry := range entries {
		v, ok := parseEntry(entry)
		if !ok {
			continue
		}
		variants = append(variants, v)
	}
	return variants
}

// parseEntry decodes a single "<size>|<material>:<price>|<variantId>" tuple.
func parseEntry(entry string) (Variant, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return Variant{}, false
	}

	// The size label may itself contain spaces and parentheses, so split on
	// the first ':' only; everything before is size|material.
	head, tail, found := strings.Cut(entry, ":")
	if !found {
		return Variant{}, false
	}

	sizeLabel, materialLabel, found := strings.Cut(head, "|")
	if !found {
		return Variant{}, false
	}

	priceText, variantID, found := strings.Cut(tail, "|")
	if !found {
		return Variant{}, false
	}
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		return Variant{}, false
	}

	priceMinor, ok := parsePriceMinor(priceText)
	if !ok {
		return Variant{}, false
	}

	sizeKey, _ := normalize.Size(sizeLabel)
	return Variant{
		SizeLabel:     strings.TrimSpace(sizeLabel),
		MaterialLabel: strings.TrimSpace(materialLabel),
		SizeKey:       sizeKey,
		MaterialKey:   normalize.Material(materialLabel),
		PriceMinor:    priceMinor,
		VariantID:     variantID,
	}, true
}

// parsePriceMinor converts a decimal currency string ("29.99", "54,99") to
// minor units. Comma decimal separators appear in localized templates.
func parsePriceMinor(text string) (int64, bool) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(math.Round(f * 100)), true
}

// Index is a queryable view over a product's parsed variants.
type Index struct {
	variants []Variant
}

// NewIndex builds an Index over the given variants. Order is preserved: the
// first record is the fallback when nothing matches.
func NewIndex(variants []Variant) *Index {
	return &Index{variants: variants}
}

// ParseIndex is shorthand for NewIndex(Parse(encoded)).
func ParseIndex(encoded string) *Index {
	return NewIndex(Parse(encoded))
}

// Len returns the number of indexed variants.
func (ix *Index) Len() int { return len(ix.variants) }

// Variants returns the indexed records in their original order.
func (ix *Index) Variants() []Variant { return ix.variants }

// First returns the first indexed variant, the designated fallback record.
// ok is false only for an empty index.
func (ix *Index) First() (Variant, bool) {
	if len(ix.variants) == 0 {
		return Variant{}, false
	}
	return ix.variants[0], true
}

// Find locates the variant matching the given size label and, optionally, a
// material label. Both labels are normalized before comparison. With an empty
// material the first size match wins. A miss returns a VARIANT_NOT_FOUND
// error; callers treat it as recoverable and typically fall back to First.
func (ix *Index) Find(sizeLabel, materialLabel string) (Variant, error) {
	sizeKey, ok := normalize.Size(sizeLabel)
	if !ok {
		return Variant{}, errors.New(errors.ErrCodeVariantNotFound, "unparseable size %q", sizeLabel)
	}

	for _, v := range ix.variants {
		if v.SizeKey != sizeKey {
			continue
		}
		if materialLabel == "" || normalize.MaterialsMatch(v.MaterialLabel, materialLabel) {
			return v, nil
		}
	}
	return Variant{}, errors.New(errors.ErrCodeVariantNotFound,
		"no variant for size %q material %q", sizeLabel, materialLabel)
}

// FindOrFirst resolves like Find but degrades to the first available variant
// on a miss, implementing the never-dangling policy used when a frame changes
// size. ok is false only when the index is empty.
func (ix *Index) FindOrFirst(sizeLabel, materialLabel string) (Variant, bool) {
	if v, err := ix.Find(sizeLabel, materialLabel); err == nil {
		return v, true
	}
	return ix.First()
}

// SizeKeys returns the distinct normalized size keys in index order. Used to
// present the available sizes for a product.
func (ix *Index) SizeKeys() []string {
	seen := make(map[string]bool, len(ix.variants))
	keys := make([]string, 0, len(ix.variants))
	for _, v := range ix.variants {
		if v.SizeKey == "" || seen[v.SizeKey] {
			continue
		}
		seen[v.SizeKey] = true
		keys = append(keys, v.SizeKey)
	}
	return keys
}
