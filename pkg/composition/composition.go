// Package composition holds the aggregate state of one gallery-wall design.
//
// A Composition owns an ordered list of frame slots, each optionally bound to
// a product variant and a physical framing add-on, plus a single
// composition-wide framing-service selection. All mutation goes through
// methods on Composition so the two structural invariants hold at all times:
//
//   - slot indices are unique and contiguous; removing a slot re-indexes the
//     slots behind it and their bindings move with them
//   - a frame binding never exists on a slot without a product binding,
//     mirroring real assembly order (the print exists before it is framed)
//
// Totals are never cached here: pricing recomputes them from current state,
// so they cannot diverge from the bindings.
package composition

import (
	"github.com/kuriosis/wallbuilder/pkg/catalog"
	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/placement"
)

// ProductBinding attaches a purchasable product variant to a slot. It is
// replaced wholesale on reassignment, never patched field by field.
type ProductBinding struct {
	ProductID   string `json:"product_id" bson:"product_id"`
	VariantID   string `json:"variant_id" bson:"variant_id"`
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	ImageURL    string `json:"image_url,omitempty" bson:"image_url,omitempty"`
	PriceMinor  int64  `json:"price_minor" bson:"price_minor"`
	SizeKey     string `json:"size_key,omitempty" bson:"size_key,omitempty"`
	MaterialKey string `json:"material_key,omitempty" bson:"material_key,omitempty"`
}

// FrameBinding attaches a physical framing add-on product to a slot. Its
// lifecycle is independent from the product binding, except that it can only
// exist on a slot that has one.
type FrameBinding struct {
	ProductID  string `json:"product_id" bson:"product_id"`
	VariantID  string `json:"variant_id" bson:"variant_id"`
	Name       string `json:"name,omitempty" bson:"name,omitempty"`
	ImageURL   string `json:"image_url,omitempty" bson:"image_url,omitempty"`
	PriceMinor int64  `json:"price_minor" bson:"price_minor"`
	SizeKey    string `json:"size_key,omitempty" bson:"size_key,omitempty"`
}

// ServiceBinding is the one-time framing-service add-on applied once per
// composition regardless of how many slots are framed.
type ServiceBinding struct {
	ProductID  string `json:"product_id" bson:"product_id"`
	VariantID  string `json:"variant_id" bson:"variant_id"`
	Title      string `json:"title,omitempty" bson:"title,omitempty"`
	PriceMinor int64  `json:"price_minor" bson:"price_minor"`
}

// Slot is one placed rectangle on the wall.
type Slot struct {
	Index     int             `json:"index" bson:"index"`
	Rect      placement.Rect  `json:"rect" bson:"rect"` // logical 640×400 units
	SizeLabel string          `json:"size_label" bson:"size_label"`
	Product   *ProductBinding `json:"product,omitempty" bson:"product,omitempty"`
	Frame     *FrameBinding   `json:"frame,omitempty" bson:"frame,omitempty"`
}

// HasProduct reports whether a product is bound to the slot.
func (s *Slot) HasProduct() bool { return s.Product != nil }

// HasFrame reports whether a framing add-on is bound to the slot.
func (s *Slot) HasFrame() bool { return s.Frame != nil }

// Composition is the aggregate root for one gallery-wall design.
type Composition struct {
	Background string          `json:"background,omitempty" bson:"background,omitempty"`
	LayoutID   string          `json:"layout_id,omitempty" bson:"layout_id,omitempty"`
	Slots      []Slot          `json:"slots" bson:"slots"`
	Service    *ServiceBinding `json:"service,omitempty" bson:"service,omitempty"`
}

// New creates an empty composition.
func New() *Composition {
	return &Composition{}
}

// FromLayout creates a composition pre-populated with one slot per layout
// frame, all positioned and unbound.
func FromLayout(l Layout) *Composition {
	c := &Composition{LayoutID: l.ID}
	for _, f := range l.Frames {
		c.AddSlot(f.Rect, f.SizeLabel)
	}
	return c
}

// AddSlot appends a slot at the next index and returns its index. The rect is
// clamped onto the logical canvas.
func (c *Composition) AddSlot(rect placement.Rect, sizeLabel string) int {
	idx := len(c.Slots)
	c.Slots = append(c.Slots, Slot{
		Index:     idx,
		Rect:      placement.ClampToCanvas(rect),
		SizeLabel: sizeLabel,
	})
	return idx
}

// Slot returns the slot at index.
func (c *Composition) Slot(index int) (*Slot, error) {
	if index < 0 || index >= len(c.Slots) {
		return nil, errors.New(errors.ErrCodeInvalidSlot, "no slot at index %d", index)
	}
	return &c.Slots[index], nil
}

// RemoveSlot removes the slot at index along with its bindings and re-indexes
// the remaining slots so indices stay contiguous. Bindings of later slots
// move down with their slot.
func (c *Composition) RemoveSlot(index int) error {
	if index < 0 || index >= len(c.Slots) {
		return errors.New(errors.ErrCodeInvalidSlot, "no slot at index %d", index)
	}
	c.Slots = append(c.Slots[:index], c.Slots[index+1:]...)
	for i := range c.Slots {
		c.Slots[i].Index = i
	}
	return nil
}

// MoveSlot commits a new position for the slot at index. The rect is clamped
// to the canvas; size is taken from the rect as drags may also resize.
func (c *Composition) MoveSlot(index int, rect placement.Rect) error {
	s, err := c.Slot(index)
	if err != nil {
		return err
	}
	s.Rect = placement.ClampToCanvas(rect)
	return nil
}

// BindProduct attaches (or replaces) the product binding on the slot at
// index. Slot position and size are untouched.
func (c *Composition) BindProduct(index int, b ProductBinding) error {
	s, err := c.Slot(index)
	if err != nil {
		return err
	}
	s.Product = &b
	return nil
}

// UnbindProduct removes the product binding and, because a frame cannot hang
// on an empty slot, any frame binding with it.
func (c *Composition) UnbindProduct(index int) error {
	s, err := c.Slot(index)
	if err != nil {
		return err
	}
	s.Product = nil
	s.Frame = nil
	return nil
}

// BindFrame attaches a framing add-on to the slot at index. Rejected when the
// slot has no product yet: a print must exist before it can be framed. The
// first frame bound anywhere on the composition auto-applies defaultService
// if no service has been chosen yet (pass nil to skip auto-apply).
func (c *Composition) BindFrame(index int, b FrameBinding, defaultService *ServiceBinding) error {
	s, err := c.Slot(index)
	if err != nil {
		return err
	}
	if !s.HasProduct() {
		return errors.New(errors.ErrCodeSlotEmpty, "slot %d has no product to frame", index)
	}
	s.Frame = &b
	if c.Service == nil && defaultService != nil {
		svc := *defaultService
		c.Service = &svc
	}
	return nil
}

// UnbindFrame removes the framing add-on from the slot at index. The
// composition-wide service binding is cleared when no framed slots remain.
func (c *Composition) UnbindFrame(index int) error {
	s, err := c.Slot(index)
	if err != nil {
		return err
	}
	s.Frame = nil
	if !c.HasFramedSlots() {
		c.Service = nil
	}
	return nil
}

// ChangeFrameSize resizes the slot's product to a new size, re-resolving the
// variant against ix with the new size and the binding's current material.
// When no variant matches, the binding is pointed at the first available
// variant instead of dangling. With an empty index the binding is left as-is.
func (c *Composition) ChangeFrameSize(index int, newSizeLabel string, ix *catalog.Index) error {
	s, err := c.Slot(index)
	if err != nil {
		return err
	}
	if !s.HasProduct() {
		return errors.New(errors.ErrCodeSlotEmpty, "slot %d has no product", index)
	}

	s.SizeLabel = newSizeLabel

	v, ok := ix.FindOrFirst(newSizeLabel, s.Product.MaterialKey)
	if !ok {
		return nil
	}
	s.Product.VariantID = v.VariantID
	s.Product.PriceMinor = v.PriceMinor
	s.Product.SizeKey = v.SizeKey
	if v.MaterialKey != "" {
		s.Product.MaterialKey = v.MaterialKey
	}
	return nil
}

// BindFramingService sets the single composition-wide framing service,
// replacing any previous choice. Rejected while no slot has a frame binding:
// a service for zero framed prints is not a valid order line.
func (c *Composition) BindFramingService(b ServiceBinding) error {
	if !c.HasFramedSlots() {
		return errors.New(errors.ErrCodeSlotEmpty, "no framed slots to apply a framing service to")
	}
	c.Service = &b
	return nil
}

// HasFramedSlots reports whether at least one slot carries a frame binding.
func (c *Composition) HasFramedSlots() bool {
	for i := range c.Slots {
		if c.Slots[i].HasFrame() {
			return true
		}
	}
	return false
}

// HasProducts reports whether at least one slot carries a product binding.
func (c *Composition) HasProducts() bool {
	for i := range c.Slots {
		if c.Slots[i].HasProduct() {
			return true
		}
	}
	return false
}

// ProductCount returns the number of slots with a product binding.
func (c *Composition) ProductCount() int {
	n := 0
	for i := range c.Slots {
		if c.Slots[i].HasProduct() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the composition.
func (c *Composition) Clone() *Composition {
	out := &Composition{
		Background: c.Background,
		LayoutID:   c.LayoutID,
		Slots:      make([]Slot, len(c.Slots)),
	}
	copy(out.Slots, c.Slots)
	for i := range out.Slots {
		if p := out.Slots[i].Product; p != nil {
			cp := *p
			out.Slots[i].Product = &cp
		}
		if f := out.Slots[i].Frame; f != nil {
			cf := *f
			out.Slots[i].Frame = &cf
		}
	}
	if c.Service != nil {
		svc := *c.Service
		out.Service = &svc
	}
	return out
}
