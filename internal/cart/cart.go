// Package cart keeps order lines keyed by (product, variant). Adding the same
// selection twice bumps the quantity of the existing line.
package cart

import (
	"errors"
	"time"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/google/uuid"
)

const (
	noVariant = "none"

	AddedFlashTTL     = 1000 * time.Millisecond
	IncrementFlashTTL = 600 * time.Millisecond

	// MaxQuantity ограничивает строку корзины, чтобы суммы оставались в int64.
	MaxQuantity = 10000
)

var (
	ErrVariantRequired   = errors.New("variant selection required")
	ErrUnknownVariant    = errors.New("variant does not belong to product")
	ErrUnexpectedVariant = errors.New("product has no variants")
	ErrQuantityInvalid   = errors.New("quantity must be within 1..10000")
)

type Key string

func KeyOf(productID uuid.UUID, variantID *uuid.UUID) Key {
	if variantID == nil {
		return Key(productID.String() + ":" + noVariant)
	}
	return Key(productID.String() + ":" + variantID.String())
}

type Line struct {
	Key       Key
	Product   models.Product
	VariantID *uuid.UUID
	Quantity  int
}

// Variant resolves the selected variant against the product snapshot.
func (l Line) Variant() *models.ProductVariant {
	if l.VariantID == nil {
		return nil
	}
	return l.Product.Variant(*l.VariantID)
}

// Cart is owned by a single session or request and is not safe for concurrent use.
type Cart struct {
	lines   map[Key]*Line
	order   []Key
	flashes map[Key]time.Time
	now     func() time.Time
}

func New() *Cart {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Cart {
	return &Cart{
		lines:   make(map[Key]*Line),
		flashes: make(map[Key]time.Time),
		now:     now,
	}
}

// DefaultVariant is the preselected variant for a product, nil when it has none.
func DefaultVariant(p models.Product) *uuid.UUID {
	if len(p.Variants) == 0 {
		return nil
	}
	id := p.Variants[0].ID
	return &id
}

func validateSelection(p models.Product, variantID *uuid.UUID) error {
	if len(p.Variants) == 0 {
		if variantID != nil {
			return ErrUnexpectedVariant
		}
		return nil
	}
	if variantID == nil {
		return ErrVariantRequired
	}
	if p.Variant(*variantID) == nil {
		return ErrUnknownVariant
	}
	return nil
}

func (c *Cart) Add(p models.Product, variantID *uuid.UUID) (Key, error) {
	return c.AddQuantity(p, variantID, 1)
}

// AddQuantity inserts a new line or merges qty into the existing one.
func (c *Cart) AddQuantity(p models.Product, variantID *uuid.UUID, qty int) (Key, error) {
	if qty <= 0 || qty > MaxQuantity {
		return "", ErrQuantityInvalid
	}
	if err := validateSelection(p, variantID); err != nil {
		return "", err
	}

	key := KeyOf(p.ID, variantID)
	if cur, ok := c.lines[key]; ok {
		if cur.Quantity+qty > MaxQuantity {
			return "", ErrQuantityInvalid
		}
		cur.Quantity += qty
		cur.Product = p
		c.flash(key, IncrementFlashTTL)
		return key, nil
	}

	var vid *uuid.UUID
	if variantID != nil {
		v := *variantID
		vid = &v
	}
	c.lines[key] = &Line{Key: key, Product: p, VariantID: vid, Quantity: qty}
	c.order = append(c.order, key)
	c.flash(key, AddedFlashTTL)
	return key, nil
}

// Increment is a no-op for unknown keys and lines already at MaxQuantity.
func (c *Cart) Increment(key Key) {
	cur, ok := c.lines[key]
	if !ok || cur.Quantity >= MaxQuantity {
		return
	}
	cur.Quantity++
	c.flash(key, IncrementFlashTTL)
}

// Decrement removes the line once its quantity would drop to zero.
func (c *Cart) Decrement(key Key) {
	cur, ok := c.lines[key]
	if !ok {
		return
	}
	if cur.Quantity-1 <= 0 {
		c.Remove(key)
		return
	}
	cur.Quantity--
}

func (c *Cart) Remove(key Key) {
	if _, ok := c.lines[key]; !ok {
		return
	}
	delete(c.lines, key)
	delete(c.flashes, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.lines = make(map[Key]*Line)
	c.flashes = make(map[Key]time.Time)
	c.order = nil
}

func (c *Cart) Get(key Key) (Line, bool) {
	l, ok := c.lines[key]
	if !ok {
		return Line{}, false
	}
	return *l, true
}

func (c *Cart) Quantity(key Key) int {
	if l, ok := c.lines[key]; ok {
		return l.Quantity
	}
	return 0
}

func (c *Cart) Len() int { return len(c.order) }

func (c *Cart) IsEmpty() bool { return len(c.order) == 0 }

// Lines returns copies in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, *c.lines[k])
	}
	return out
}

// JustAdded reports whether key was added or incremented within its flash window.
func (c *Cart) JustAdded(key Key) bool {
	until, ok := c.flashes[key]
	if !ok {
		return false
	}
	if !c.now().Before(until) {
		delete(c.flashes, key)
		return false
	}
	return true
}

func (c *Cart) flash(key Key, ttl time.Duration) {
	c.flashes[key] = c.now().Add(ttl)
}
