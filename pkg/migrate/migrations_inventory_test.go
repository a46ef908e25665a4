package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kobby-jnrr/kstore-backend/pkg/migrate"
)

func TestDialectForAcceptsPostgresOnly(t *testing.T) {
	dialect, err := migrate.DialectFor("postgres")
	if err != nil {
		t.Fatalf("postgres driver: %v", err)
	}
	if dialect != migrate.Dialect {
		t.Fatalf("unexpected dialect %q", dialect)
	}

	if _, err := migrate.DialectFor("sqlite"); err == nil {
		t.Fatal("sqlite driver must be rejected, the migration SQL is postgres-only")
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CHECK (total_cents = subtotal_cents + delivery_fee_cents)",
		"CREATE TABLE IF NOT EXISTS order_items",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE SET NULL",
		"CHECK (status IN ('pending', 'accepted', 'preparing', 'ready', 'delivered', 'rejected'))",
		"DROP TABLE IF EXISTS order_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCartMigrationEnforcesQuantityFloor(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_carts.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no carts migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CHECK (quantity >= 1)",
		"idx_cart_items_cart_product ON cart_items (cart_id, product_id)",
		"idx_cart_records_customer_id ON cart_records (customer_id)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
