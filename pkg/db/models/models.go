package models

// All lists every persisted model in dependency order, for AutoMigrate in
// tests and sqlite dev mode.
func All() []any {
	return []any{
		&Barangay{},
		&Street{},
		&Address{},
		&Customer{},
		&CustomerContact{},
		&Employee{},
		&EmployeeContact{},
		&Supplier{},
		&Menu{},
		&MenuPricing{},
		&Order{},
		&OrderLine{},
		&Delivery{},
		&Packaging{},
		&Ingredient{},
		&SupplyReceipt{},
		&SupplyReceiptLine{},
		&IngredientMovement{},
		&OutboxEvent{},
	}
}
