package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dulcismaison/dulcis-backend/internal/inventory"
	"github.com/dulcismaison/dulcis-backend/internal/location"
	"github.com/dulcismaison/dulcis-backend/internal/orders"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

// Money is rendered with its two fixed decimals so 75 reads as "75.00".
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func quantity(d decimal.Decimal) string {
	return d.String()
}

type barangayView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newBarangayView(b models.Barangay) barangayView {
	return barangayView{ID: b.ID, Name: b.Name}
}

type streetView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	BarangayID uint   `json:"barangay_id"`
}

func newStreetView(s models.Street) streetView {
	return streetView{ID: s.ID, Name: s.Name, BarangayID: s.BarangayID}
}

type addressView struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
	StreetID    uint   `json:"street_id"`
}

func newAddressView(a models.Address) addressView {
	return addressView{ID: a.ID, Description: a.Description, StreetID: a.StreetID}
}

type resolvedAddressView struct {
	Address  addressView  `json:"address"`
	Street   streetView   `json:"street"`
	Barangay barangayView `json:"barangay"`
	Display  string       `json:"display"`
}

func newResolvedAddressView(r location.ResolvedAddress) resolvedAddressView {
	return resolvedAddressView{
		Address:  newAddressView(r.Address),
		Street:   newStreetView(r.Street),
		Barangay: newBarangayView(r.Barangay),
		Display:  r.Display(),
	}
}

type customerView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AddressID *uint  `json:"address_id"`
}

func newCustomerView(c models.Customer) customerView {
	return customerView{ID: c.ID, Name: c.Name, AddressID: c.AddressID}
}

type employeeView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Age         int     `json:"age"`
	CivilStatus *string `json:"civil_status"`
	AddressID   *uint   `json:"address_id"`
}

func newEmployeeView(e models.Employee) employeeView {
	view := employeeView{ID: e.ID, Name: e.Name, Age: e.Age, AddressID: e.AddressID}
	if e.CivilStatus != nil {
		status := e.CivilStatus.String()
		view.CivilStatus = &status
	}
	return view
}

type supplierView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Contact   string `json:"contact,omitempty"`
	AddressID *uint  `json:"address_id"`
}

func newSupplierView(s models.Supplier) supplierView {
	return supplierView{ID: s.ID, Name: s.Name, Contact: s.Contact, AddressID: s.AddressID}
}

type contactView struct {
	ID    uint   `json:"id"`
	Phone string `json:"phone"`
}

func newCustomerContactViews(contacts []models.CustomerContact) []contactView {
	views := make([]contactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, contactView{ID: c.ID, Phone: c.Phone})
	}
	return views
}

func newEmployeeContactViews(contacts []models.EmployeeContact) []contactView {
	views := make([]contactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, contactView{ID: c.ID, Phone: c.Phone})
	}
	return views
}

type menuView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func newMenuView(m models.Menu) menuView {
	return menuView{ID: m.ID, Name: m.Name, Category: m.Category}
}

type pricingView struct {
	ID          uint      `json:"id"`
	MenuID      uint      `json:"menu_id"`
	Servings    int       `json:"servings"`
	Price       string    `json:"price"`
	EffectiveAt time.Time `json:"effective_at"`
}

func newPricingView(p models.MenuPricing) pricingView {
	return pricingView{
		ID:          p.ID,
		MenuID:      p.MenuID,
		Servings:    p.Servings,
		Price:       money(p.Price),
		EffectiveAt: p.EffectiveAt.UTC(),
	}
}

type ingredientView struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	Current       string `json:"current"`
	CriticalLevel string `json:"critical_level"`
	Critical      bool   `json:"critical"`
}

func newIngredientView(s inventory.IngredientStatus) ingredientView {
	return ingredientView{
		ID:            s.Ingredient.ID,
		Name:          s.Ingredient.Name,
		Unit:          s.Ingredient.Unit,
		Current:       quantity(s.Ingredient.Current),
		CriticalLevel: quantity(s.Ingredient.CriticalLevel),
		Critical:      s.Critical,
	}
}

type movementView struct {
	ID              uint      `json:"id"`
	Type            string    `json:"type"`
	Quantity        string    `json:"quantity"`
	PreviousQty     string    `json:"previous_qty"`
	NewQty          string    `json:"new_qty"`
	SupplyReceiptID *uint     `json:"supply_receipt_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func newMovementViews(movements []models.IngredientMovement) []movementView {
	views := make([]movementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, movementView{
			ID:              m.ID,
			Type:            m.Type.String(),
			Quantity:        quantity(m.Quantity),
			PreviousQty:     quantity(m.PreviousQty),
			NewQty:          quantity(m.NewQty),
			SupplyReceiptID: m.SupplyReceiptID,
			OccurredAt:      m.OccurredAt.UTC(),
		})
	}
	return views
}

type receiptLineView struct {
	IngredientID uint      `json:"ingredient_id"`
	Quantity     string    `json:"quantity"`
	Price        string    `json:"price"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type receiptView struct {
	ID         uint              `json:"id"`
	EmployeeID uint              `json:"employee_id"`
	SupplierID uint              `json:"supplier_id"`
	ReceivedAt time.Time         `json:"received_at"`
	Lines      []receiptLineView `json:"lines"`
}

func newReceiptView(d inventory.ReceiptDetail) receiptView {
	view := receiptView{
		ID:         d.Receipt.ID,
		EmployeeID: d.Receipt.EmployeeID,
		SupplierID: d.Receipt.SupplierID,
		ReceivedAt: d.Receipt.ReceivedAt.UTC(),
		Lines:      make([]receiptLineView, 0, len(d.Lines)),
	}
	for _, line := range d.Lines {
		view.Lines = append(view.Lines, receiptLineView{
			IngredientID: line.IngredientID,
			Quantity:     quantity(line.Quantity),
			Price:        money(line.Price),
			ExpiresAt:    line.ExpiresAt.UTC(),
		})
	}
	return view
}

type orderLineView struct {
	MenuID    uint   `json:"menu_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type deliveryView struct {
	ID          uint       `json:"id"`
	OrderID     uint       `json:"order_id"`
	EmployeeID  uint       `json:"employee_id"`
	DepartureAt *time.Time `json:"departure_at"`
	ArrivalAt   *time.Time `json:"arrival_at"`
	Fee         string     `json:"fee"`
}

func newDeliveryView(d models.Delivery) deliveryView {
	return deliveryView{
		ID:          d.ID,
		OrderID:     d.OrderID,
		EmployeeID:  d.EmployeeID,
		DepartureAt: utc(d.DepartureAt),
		ArrivalAt:   utc(d.ArrivalAt),
		Fee:         money(d.Fee),
	}
}

type packagingView struct {
	ID       uint   `json:"id"`
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
	Size     string `json:"size,omitempty"`
	Price    string `json:"price"`
}

func newPackagingView(p models.Packaging) packagingView {
	return packagingView{ID: p.ID, Quantity: p.Quantity, Type: p.Type, Size: p.Size, Price: money(p.Price)}
}

type orderSummaryView struct {
	ID         uint      `json:"id"`
	OrderedAt  time.Time `json:"ordered_at"`
	CustomerID uint      `json:"customer_id"`
	EmployeeID uint      `json:"employee_id"`
	Total      string    `json:"total"`
}

func newOrderSummaryView(o models.Order) orderSummaryView {
	return orderSummaryView{
		ID:         o.ID,
		OrderedAt:  o.OrderedAt.UTC(),
		CustomerID: o.CustomerID,
		EmployeeID: o.EmployeeID,
		Total:      money(o.Total),
	}
}

type orderView struct {
	orderSummaryView
	Lines     []orderLineView `json:"lines"`
	Delivery  *deliveryView   `json:"delivery"`
	Packaging []packagingView `json:"packaging"`
}

func newOrderView(d orders.OrderDetail) orderView {
	view := orderView{
		orderSummaryView: newOrderSummaryView(d.Order),
		Lines:            make([]orderLineView, 0, len(d.Lines)),
		Packaging:        make([]packagingView, 0, len(d.Packaging)),
	}
	for _, line := range d.Lines {
		view.Lines = append(view.Lines, orderLineView{
			MenuID:    line.MenuID,
			Quantity:  line.Quantity,
			UnitPrice: money(line.UnitPrice),
			Subtotal:  money(line.Subtotal),
		})
	}
	if d.Delivery != nil {
		delivery := newDeliveryView(*d.Delivery)
		view.Delivery = &delivery
	}
	for _, p := range d.Packaging {
		view.Packaging = append(view.Packaging, newPackagingView(p))
	}
	return view
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
