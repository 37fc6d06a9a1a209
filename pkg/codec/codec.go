// Package codec serializes gallery compositions to and from their persisted
// document form.
//
// The document is a flat JSON object: background key, layout id, an array of
// slot records (logical position/size plus optional product and frame
// fields) and an optional framing-service record. The same bytes back every
// storage backend and the URL-shareable link form.
//
// Reading is deliberately tolerant. Saved and shared documents outlive code
// changes, so any missing optional field resolves to its empty default and a
// malformed slot entry is skipped rather than failing the document. Only a
// structurally unreadable payload is an error. Writing always emits the
// current shape.
package codec

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/kuriosis/wallbuilder/pkg/composition"
	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/placement"
)

// Version identifies the current document shape. Readers accept documents
// with no version at all (pre-versioning saves).
const Version = 2

// Document is the flat persisted form of a composition.
type Document struct {
	Version    int              `json:"version" bson:"version"`
	Background string           `json:"background,omitempty" bson:"background,omitempty"`
	LayoutID   string           `json:"layout_id,omitempty" bson:"layout_id,omitempty"`
	Slots      []SlotRecord     `json:"slots" bson:"slots"`
	Service    *ServiceRecord   `json:"service,omitempty" bson:"service,omitempty"`
}

// SlotRecord is one slot with its optional bindings, flattened.
type SlotRecord struct {
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`
	SizeLabel string  `json:"size" bson:"size"`

	ProductID       string `json:"product_id,omitempty" bson:"product_id,omitempty"`
	VariantID       string `json:"variant_id,omitempty" bson:"variant_id,omitempty"`
	ProductTitle    string `json:"product_title,omitempty" bson:"product_title,omitempty"`
	ProductImage    string `json:"product_image,omitempty" bson:"product_image,omitempty"`
	ProductPrice    int64  `json:"product_price_minor,omitempty" bson:"product_price_minor,omitempty"`
	ProductSize     string `json:"product_size,omitempty" bson:"product_size,omitempty"`
	ProductMaterial string `json:"product_material,omitempty" bson:"product_material,omitempty"`

	FrameProductID string `json:"frame_product_id,omitempty" bson:"frame_product_id,omitempty"`
	FrameVariantID string `json:"frame_variant_id,omitempty" bson:"frame_variant_id,omitempty"`
	FrameName      string `json:"frame_name,omitempty" bson:"frame_name,omitempty"`
	FrameImage     string `json:"frame_image,omitempty" bson:"frame_image,omitempty"`
	FramePrice     int64  `json:"frame_price_minor,omitempty" bson:"frame_price_minor,omitempty"`
	FrameSize      string `json:"frame_size,omitempty" bson:"frame_size,omitempty"`
}

// ServiceRecord is the persisted framing-service selection.
type ServiceRecord struct {
	ProductID  string `json:"product_id,omitempty" bson:"product_id,omitempty"`
	VariantID  string `json:"variant_id" bson:"variant_id"`
	Title      string `json:"title,omitempty" bson:"title,omitempty"`
	PriceMinor int64  `json:"price_minor" bson:"price_minor"`
}

// ToDocument converts a composition to its persisted form.
func ToDocument(c *composition.Composition) Document {
	doc := Document{
		Version:    Version,
		Background: c.Background,
		LayoutID:   c.LayoutID,
		Slots:      make([]SlotRecord, 0, len(c.Slots)),
	}
	for i := range c.Slots {
		s := &c.Slots[i]
		rec := SlotRecord{
			X:         s.Rect.X,
			Y:         s.Rect.Y,
			Width:     s.Rect.Width,
			Height:    s.Rect.Height,
			SizeLabel: s.SizeLabel,
		}
		if p := s.Product; p != nil {
			rec.ProductID = p.ProductID
			rec.VariantID = p.VariantID
			rec.ProductTitle = p.Title
			rec.ProductImage = p.ImageURL
			rec.ProductPrice = p.PriceMinor
			rec.ProductSize = p.SizeKey
			rec.ProductMaterial = p.MaterialKey
		}
		if f := s.Frame; f != nil {
			rec.FrameProductID = f.ProductID
			rec.FrameVariantID = f.VariantID
			rec.FrameName = f.Name
			rec.FrameImage = f.ImageURL
			rec.FramePrice = f.PriceMinor
			rec.FrameSize = f.SizeKey
		}
		doc.Slots = append(doc.Slots, rec)
	}
	if c.Service != nil {
		doc.Service = &ServiceRecord{
			ProductID:  c.Service.ProductID,
			VariantID:  c.Service.VariantID,
			Title:      c.Service.Title,
			PriceMinor: c.Service.PriceMinor,
		}
	}
	return doc
}

// Marshal serializes a composition to document JSON.
func Marshal(c *composition.Composition) ([]byte, error) {
	return json.Marshal(ToDocument(c))
}

// MarshalIndent serializes a document as indented JSON for display.
func MarshalIndent(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// FromDocument rebuilds a composition from an already-decoded document,
// applying the same tolerance rules as Unmarshal: slots without usable
// geometry are skipped and orphaned frame bindings are dropped.
func FromDocument(doc Document) *composition.Composition {
	c := composition.New()
	c.Background = doc.Background
	c.LayoutID = doc.LayoutID

	for _, rec := range doc.Slots {
		if rec.Width <= 0 || rec.Height <= 0 {
			continue
		}
		idx := c.AddSlot(placement.Rect{X: rec.X, Y: rec.Y, Width: rec.Width, Height: rec.Height}, rec.SizeLabel)

		if rec.VariantID != "" {
			_ = c.BindProduct(idx, composition.ProductBinding{
				ProductID:   rec.ProductID,
				VariantID:   rec.VariantID,
				Title:       rec.ProductTitle,
				ImageURL:    rec.ProductImage,
				PriceMinor:  rec.ProductPrice,
				SizeKey:     rec.ProductSize,
				MaterialKey: rec.ProductMaterial,
			})
		}
		if rec.FrameVariantID != "" {
			_ = c.BindFrame(idx, composition.FrameBinding{
				ProductID:  rec.FrameProductID,
				VariantID:  rec.FrameVariantID,
				Name:       rec.FrameName,
				ImageURL:   rec.FrameImage,
				PriceMinor: rec.FramePrice,
				SizeKey:    rec.FrameSize,
			}, nil)
		}
	}

	if doc.Service != nil && doc.Service.VariantID != "" {
		c.Service = &composition.ServiceBinding{
			ProductID:  doc.Service.ProductID,
			VariantID:  doc.Service.VariantID,
			Title:      doc.Service.Title,
			PriceMinor: doc.Service.PriceMinor,
		}
	}
	return c
}

// Unmarshal reads document JSON back into a composition. Tolerance rules:
// missing optional fields default, slot entries without usable geometry are
// skipped, a frame binding on a productless slot is dropped to preserve the
// assembly-order invariant. Only structurally invalid JSON errors.
func Unmarshal(data []byte) (*composition.Composition, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document root must be an object")
	}

	c := composition.New()
	c.Background = root.Get("background").String()
	c.LayoutID = root.Get("layout_id").String()

	root.Get("slots").ForEach(func(_, slot gjson.Result) bool {
		if !slot.IsObject() {
			return true // skip malformed entry, keep the rest
		}
		rect := placement.Rect{
			X:      slot.Get("x").Float(),
			Y:      slot.Get("y").Float(),
			Width:  slot.Get("width").Float(),
			Height: slot.Get("height").Float(),
		}
		if rect.Width <= 0 || rect.Height <= 0 {
			return true // no usable geometry, skip
		}

		idx := c.AddSlot(rect, slot.Get("size").String())

		if variantID := slot.Get("variant_id").String(); variantID != "" {
			_ = c.BindProduct(idx, composition.ProductBinding{
				ProductID:   slot.Get("product_id").String(),
				VariantID:   variantID,
				Title:       slot.Get("product_title").String(),
				ImageURL:    slot.Get("product_image").String(),
				PriceMinor:  slot.Get("product_price_minor").Int(),
				SizeKey:     slot.Get("product_size").String(),
				MaterialKey: slot.Get("product_material").String(),
			})
		}
		if frameVariantID := slot.Get("frame_variant_id").String(); frameVariantID != "" {
			// BindFrame rejects frames on productless slots; a legacy
			// document carrying one just loses the orphaned frame.
			_ = c.BindFrame(idx, composition.FrameBinding{
				ProductID:  slot.Get("frame_product_id").String(),
				VariantID:  frameVariantID,
				Name:       slot.Get("frame_name").String(),
				ImageURL:   slot.Get("frame_image").String(),
				PriceMinor: slot.Get("frame_price_minor").Int(),
				SizeKey:    slot.Get("frame_size").String(),
			}, nil)
		}
		return true
	})

	if svc := root.Get("service"); svc.IsObject() {
		if variantID := svc.Get("variant_id").String(); variantID != "" {
			c.Service = &composition.ServiceBinding{
				ProductID:  svc.Get("product_id").String(),
				VariantID:  variantID,
				Title:      svc.Get("title").String(),
				PriceMinor: svc.Get("price_minor").Int(),
			}
		}
	}
	return c, nil
}
