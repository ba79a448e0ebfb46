package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContainsAll(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrderMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_order_tables")
	assertContainsAll(t, content, []string{
		"CREATE TABLE IF NOT EXISTS order_lines",
		"PRIMARY KEY (order_id, menu_id)",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"FOREIGN KEY (menu_id) REFERENCES menus(id) ON DELETE RESTRICT",
		"CHECK (subtotal = quantity * unit_price)",
		"CONSTRAINT deliveries_order_id_key UNIQUE (order_id)",
		"arrival_at >= departure_at",
		"DROP TABLE IF EXISTS order_lines",
	})
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_inventory_tables")
	assertContainsAll(t, content, []string{
		"CREATE TABLE IF NOT EXISTS supply_receipt_lines",
		"PRIMARY KEY (supply_receipt_id, ingredient_id)",
		"FOREIGN KEY (supply_receipt_id) REFERENCES supply_receipts(id) ON DELETE CASCADE",
		"CHECK (current_qty >= 0)",
		"CHECK (quantity > 0)",
		"DROP TABLE IF EXISTS ingredients",
	})
}

func TestPartyMigrationCascadesContacts(t *testing.T) {
	content := readMigration(t, "create_party_tables")
	assertContainsAll(t, content, []string{
		"FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE",
		"FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE CASCADE",
		"CHECK (civil_status IN ('single', 'married', 'widowed', 'separated', 'divorced'))",
	})
}

func TestLocationMigrationRestrictsOrphans(t *testing.T) {
	content := readMigration(t, "create_location_tables")
	assertContainsAll(t, content, []string{
		"FOREIGN KEY (barangay_id) REFERENCES barangays(id) ON DELETE RESTRICT",
		"FOREIGN KEY (street_id) REFERENCES streets(id) ON DELETE RESTRICT",
	})
}
