package cart

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
)

func snap(vendorID uuid.UUID, priceCents int) Snapshot {
	return Snapshot{
		ProductID:      uuid.New(),
		VendorID:       vendorID,
		Title:          "item",
		UnitPriceCents: priceCents,
	}
}

func mustAdd(t *testing.T, c Cart, s Snapshot) Cart {
	t.Helper()
	next, err := c.Add(s)
	if err != nil {
		t.Fatalf("add %s: %v", s.ProductID, err)
	}
	return next
}

func TestAddInsertsLineWithQuantityOne(t *testing.T) {
	t.Parallel()

	s := snap(uuid.New(), 1000)
	c := mustAdd(t, New(), s)

	line, ok := c.Get(s.ProductID)
	if !ok {
		t.Fatalf("line for %s missing", s.ProductID)
	}
	if line.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", line.Quantity)
	}
	if got := c.ItemCount(); got != 1 {
		t.Fatalf("expected item count 1, got %d", got)
	}
}

func TestAddExistingProductRejected(t *testing.T) {
	t.Parallel()

	s := snap(uuid.New(), 1000)
	c := mustAdd(t, New(), s)

	next, err := c.Add(s)
	if err == nil {
		t.Fatal("expected error adding duplicate product")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	if line, _ := next.Get(s.ProductID); line.Quantity != 1 {
		t.Fatalf("duplicate add must not mutate quantity, got %d", line.Quantity)
	}
}

func TestIncreaseAndDecrease(t *testing.T) {
	t.Parallel()

	s := snap(uuid.New(), 500)
	c := mustAdd(t, New(), s)

	c, err := c.Increase(s.ProductID)
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	if line, _ := c.Get(s.ProductID); line.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", line.Quantity)
	}

	c, err = c.Decrease(s.ProductID)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if line, _ := c.Get(s.ProductID); line.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", line.Quantity)
	}
}

func TestDecreaseAtOneRemovesLine(t *testing.T) {
	t.Parallel()

	s := snap(uuid.New(), 500)
	c := mustAdd(t, New(), s)

	c, err := c.Decrease(s.ProductID)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if c.Contains(s.ProductID) {
		t.Fatal("line should be removed when quantity drops from 1")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", c.Len())
	}
}

func TestIncreaseDecreaseMissingLine(t *testing.T) {
	t.Parallel()

	c := New()
	missing := uuid.New()

	if _, err := c.Increase(missing); pkgerrors.As(err) == nil {
		t.Fatalf("expected coded error for increase on missing line, got %v", err)
	}
	if _, err := c.Decrease(missing); pkgerrors.As(err) == nil {
		t.Fatalf("expected coded error for decrease on missing line, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	s := snap(uuid.New(), 500)
	c := mustAdd(t, New(), s)

	once := c.Remove(s.ProductID)
	twice := once.Remove(s.ProductID)

	if once.Contains(s.ProductID) || twice.Contains(s.ProductID) {
		t.Fatal("remove should delete the line")
	}
	if once.Len() != twice.Len() {
		t.Fatal("second remove must be a no-op")
	}
}

func TestSetQuantityCoercesNonPositive(t *testing.T) {
	t.Parallel()

	s := snap(uuid.New(), 500)
	c := mustAdd(t, New(), s)

	for _, q := range []int{0, -3} {
		next, err := c.SetQuantity(s.ProductID, q)
		if err != nil {
			t.Fatalf("set quantity %d: %v", q, err)
		}
		if line, _ := next.Get(s.ProductID); line.Quantity != 1 {
			t.Fatalf("quantity %d should coerce to 1, got %d", q, line.Quantity)
		}
	}

	next, err := c.SetQuantity(s.ProductID, 7)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if line, _ := next.Get(s.ProductID); line.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", line.Quantity)
	}
}

func TestSubtotalScenario(t *testing.T) {
	t.Parallel()

	// cart = {A: qty 2 @ 10, B: qty 1 @ 5} in cents
	a := snap(uuid.New(), 1000)
	b := snap(uuid.New(), 500)

	c := mustAdd(t, New(), a)
	c, err := c.Increase(a.ProductID)
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	c = mustAdd(t, c, b)

	if got := c.SubtotalCents(); got != 2500 {
		t.Fatalf("expected subtotal 2500, got %d", got)
	}
	if got := c.ItemCount(); got != 3 {
		t.Fatalf("expected item count 3, got %d", got)
	}

	c, err = c.Decrease(a.ProductID)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if got := c.SubtotalCents(); got != 1500 {
		t.Fatalf("expected subtotal 1500 after decrease, got %d", got)
	}

	c, err = c.Decrease(a.ProductID)
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if c.Contains(a.ProductID) {
		t.Fatal("line A should be gone")
	}
	if got := c.SubtotalCents(); got != 500 {
		t.Fatalf("expected subtotal 500, got %d", got)
	}
}

func TestSubtotalLinearUnderRandomOps(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	c := New()
	var snaps []Snapshot

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(snaps) == 0:
			s := snap(uuid.New(), (rng.Intn(50)+1)*100)
			c = mustAdd(t, c, s)
			snaps = append(snaps, s)
		case op == 1:
			s := snaps[rng.Intn(len(snaps))]
			if c.Contains(s.ProductID) {
				var err error
				if c, err = c.Increase(s.ProductID); err != nil {
					t.Fatalf("increase: %v", err)
				}
			}
		case op == 2:
			s := snaps[rng.Intn(len(snaps))]
			if c.Contains(s.ProductID) {
				var err error
				if c, err = c.Decrease(s.ProductID); err != nil {
					t.Fatalf("decrease: %v", err)
				}
			}
		default:
			s := snaps[rng.Intn(len(snaps))]
			c = c.Remove(s.ProductID)
			for j, kept := range snaps {
				if kept.ProductID == s.ProductID {
					snaps = append(snaps[:j], snaps[j+1:]...)
					break
				}
			}
		}

		want := 0
		for _, l := range c.Lines() {
			if l.Quantity <= 0 {
				t.Fatalf("invariant broken: line %s has quantity %d", l.ProductID, l.Quantity)
			}
			want += l.UnitPriceCents * l.Quantity
		}
		if got := c.SubtotalCents(); got != want {
			t.Fatalf("subtotal mismatch at op %d: got %d want %d", i, got, want)
		}
	}
}

func TestGroupByVendorPartition(t *testing.T) {
	t.Parallel()

	v1 := uuid.New()
	v2 := uuid.New()

	// 3 items from 2 vendors
	c := mustAdd(t, New(), snap(v1, 1000))
	c = mustAdd(t, c, snap(v1, 2000))
	c = mustAdd(t, c, snap(v2, 500))

	groups := c.GroupByVendor()
	if len(groups) != 2 {
		t.Fatalf("expected 2 vendor groups, got %d", len(groups))
	}

	counts := map[uuid.UUID]int{}
	for _, g := range groups {
		for _, l := range g.Lines {
			if l.VendorID != g.VendorID {
				t.Fatalf("line %s assigned to wrong vendor group", l.ProductID)
			}
		}
		counts[g.VendorID] = len(g.Lines)
	}
	if counts[v1] != 2 || counts[v2] != 1 {
		t.Fatalf("unexpected partition: %v", counts)
	}
}

func TestFromLinesDropsInvalid(t *testing.T) {
	t.Parallel()

	dup := uuid.New()
	lines := []Line{
		{Snapshot: Snapshot{ProductID: dup, VendorID: uuid.New(), UnitPriceCents: 100}, Quantity: 2},
		{Snapshot: Snapshot{ProductID: dup, VendorID: uuid.New(), UnitPriceCents: 100}, Quantity: 1},
		{Snapshot: Snapshot{ProductID: uuid.New(), VendorID: uuid.New(), UnitPriceCents: 100}, Quantity: 0},
	}

	c := FromLines(lines)
	if c.Len() != 1 {
		t.Fatalf("expected 1 surviving line, got %d", c.Len())
	}
	if line, _ := c.Get(dup); line.Quantity != 2 {
		t.Fatalf("first duplicate should win, got quantity %d", line.Quantity)
	}
}

func TestMutationsDoNotAliasOriginal(t *testing.T) {
	t.Parallel()

	s := snap(uuid.New(), 100)
	base := mustAdd(t, New(), s)

	bumped, err := base.Increase(s.ProductID)
	if err != nil {
		t.Fatalf("increase: %v", err)
	}

	if line, _ := base.Get(s.ProductID); line.Quantity != 1 {
		t.Fatalf("original cart mutated: quantity %d", line.Quantity)
	}
	if line, _ := bumped.Get(s.ProductID); line.Quantity != 2 {
		t.Fatalf("expected new cart quantity 2, got %d", line.Quantity)
	}
}
