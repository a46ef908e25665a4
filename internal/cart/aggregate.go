package cart

import (
	"sort"

	"github.com/google/uuid"

	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
)

// Snapshot is the product data captured when a line is first added. The cart
// keeps rendering from it even if the catalog entry later changes or
// disappears.
type Snapshot struct {
	ProductID      uuid.UUID
	VendorID       uuid.UUID
	Title          string
	UnitPriceCents int
	ImageURL       *string
}

// Line is one cart entry: a product snapshot plus a quantity. Quantity is
// always >= 1; a line that would drop to zero is removed instead.
type Line struct {
	Snapshot
	Quantity int
}

// TotalCents is the line subtotal.
func (l Line) TotalCents() int {
	return l.UnitPriceCents * l.Quantity
}

// Cart is an immutable aggregate keyed by product ID. Every mutation returns
// a new Cart; callers exchange carts by value, so no locking is needed.
type Cart struct {
	lines []Line
}

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// FromLines builds a cart from persisted lines. Lines with non-positive
// quantity or duplicate product IDs are dropped rather than violating the
// aggregate's invariants.
func FromLines(lines []Line) Cart {
	out := make([]Line, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if _, dup := seen[l.ProductID]; dup {
			continue
		}
		seen[l.ProductID] = struct{}{}
		out = append(out, l)
	}
	return Cart{lines: out}
}

func (c Cart) clone() Cart {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return Cart{lines: out}
}

func (c Cart) indexOf(productID uuid.UUID) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Lines returns the cart's lines in insertion order.
func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Contains reports whether the cart holds a line for the product.
func (c Cart) Contains(productID uuid.UUID) bool {
	return c.indexOf(productID) >= 0
}

// Get returns the line for the product, if present.
func (c Cart) Get(productID uuid.UUID) (Line, bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i], true
}

// Len returns the number of distinct lines.
func (c Cart) Len() int {
	return len(c.lines)
}

// Add inserts a new line with quantity 1. Adding a product already in the
// cart is a caller contract violation; callers must use Increase instead.
func (c Cart) Add(snap Snapshot) (Cart, error) {
	if snap.ProductID == uuid.Nil {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if c.Contains(snap.ProductID) {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "product already in cart; increase the existing line")
	}
	next := c.clone()
	next.lines = append(next.lines, Line{Snapshot: snap, Quantity: 1})
	return next, nil
}

// Increase bumps the quantity of an existing line by one. There is no upper
// bound on quantity.
func (c Cart) Increase(productID uuid.UUID) (Cart, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, ErrMissingLine(productID)
	}
	next := c.clone()
	next.lines[i].Quantity++
	return next, nil
}

// Decrease lowers the quantity of an existing line by one. A line at
// quantity 1 is removed entirely so no line ever holds quantity zero.
func (c Cart) Decrease(productID uuid.UUID) (Cart, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, ErrMissingLine(productID)
	}
	next := c.clone()
	if next.lines[i].Quantity > 1 {
		next.lines[i].Quantity--
		return next, nil
	}
	next.lines = append(next.lines[:i], next.lines[i+1:]...)
	return next, nil
}

// Remove deletes the line unconditionally. Removing an absent product is a
// no-op, which makes Remove idempotent.
func (c Cart) Remove(productID uuid.UUID) Cart {
	i := c.indexOf(productID)
	if i < 0 {
		return c
	}
	next := c.clone()
	next.lines = append(next.lines[:i], next.lines[i+1:]...)
	return next
}

// SetQuantity sets the line's quantity directly. Non-positive input is a
// recoverable entry mistake and is coerced to 1 rather than propagated.
func (c Cart) SetQuantity(productID uuid.UUID, quantity int) (Cart, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, ErrMissingLine(productID)
	}
	if quantity < 1 {
		quantity = 1
	}
	next := c.clone()
	next.lines[i].Quantity = quantity
	return next, nil
}

// SubtotalCents recomputes the cart subtotal on every read.
func (c Cart) SubtotalCents() int {
	total := 0
	for _, l := range c.lines {
		total += l.TotalCents()
	}
	return total
}

// ItemCount is the total unit count across lines, not the line count.
func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.Quantity
	}
	return count
}

// VendorGroup is one vendor's slice of the cart.
type VendorGroup struct {
	VendorID uuid.UUID
	Lines    []Line
}

// GroupByVendor partitions the lines by vendor, ordered by vendor ID for
// deterministic output. Checkout uses the group count to detect
// multi-vendor pickup orders.
func (c Cart) GroupByVendor() []VendorGroup {
	byVendor := make(map[uuid.UUID][]Line)
	for _, l := range c.lines {
		byVendor[l.VendorID] = append(byVendor[l.VendorID], l)
	}

	groups := make([]VendorGroup, 0, len(byVendor))
	for vendorID, lines := range byVendor {
		groups = append(groups, VendorGroup{VendorID: vendorID, Lines: lines})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].VendorID.String() < groups[j].VendorID.String()
	})
	return groups
}

// ErrMissingLine reports an Increase/Decrease/SetQuantity against a product
// the cart does not hold.
func ErrMissingLine(productID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "product not in cart").
		WithDetails(map[string]string{"product_id": productID.String()})
}
