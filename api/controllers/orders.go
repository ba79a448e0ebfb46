package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dulcismaison/dulcis-backend/api/responses"
	"github.com/dulcismaison/dulcis-backend/api/validators"
	"github.com/dulcismaison/dulcis-backend/internal/orders"
	"github.com/dulcismaison/dulcis-backend/pkg/logger"
)

type orderLineRequest struct {
	MenuID   uint `json:"menu_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"gt=0"`
}

type orderRequest struct {
	CustomerID uint               `json:"customer_id" validate:"required"`
	EmployeeID uint               `json:"employee_id" validate:"required"`
	Lines      []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r orderRequest) toInput() orders.CreateOrderInput {
	input := orders.CreateOrderInput{
		CustomerID: r.CustomerID,
		EmployeeID: r.EmployeeID,
		Lines:      make([]orders.LineInput, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		input.Lines = append(input.Lines, orders.LineInput{MenuID: line.MenuID, Quantity: line.Quantity})
	}
	return input
}

type lineQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

type deliveryRequest struct {
	EmployeeID uint            `json:"employee_id" validate:"required"`
	Departure  *time.Time      `json:"departure_at,omitempty"`
	Arrival    *time.Time      `json:"arrival_at,omitempty"`
	Fee        decimal.Decimal `json:"fee"`
}

type arrivalRequest struct {
	ArrivalAt time.Time `json:"arrival_at" validate:"required"`
}

type packagingRequest struct {
	Quantity int             `json:"quantity" validate:"gt=0"`
	Type     string          `json:"type" validate:"required,max=50"`
	Size     string          `json:"size,omitempty" validate:"max=20"`
	Price    decimal.Decimal `json:"price"`
}

// CreateOrder prices every line from the catalog; clients never send prices.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body orderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.CreateOrder(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderView(*detail))
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(*detail))
	}
}

func OrderTotal(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		total, err := svc.OrderTotal(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order_id": id, "total": money(total)})
	}
}

func CancelOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.CancelOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func UpdateOrderLine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		menuID, err := validators.ParseIDParam(r, "menuID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body lineQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.UpdateLineQuantity(r.Context(), id, menuID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(*detail))
	}
}

func RemoveOrderLine(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		menuID, err := validators.ParseIDParam(r, "menuID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.RemoveLine(r.Context(), id, menuID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderView(*detail))
	}
}

func AddDelivery(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body deliveryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		delivery, err := svc.AddDelivery(r.Context(), orders.AddDeliveryInput{
			OrderID:    id,
			EmployeeID: body.EmployeeID,
			Departure:  body.Departure,
			Arrival:    body.Arrival,
			Fee:        body.Fee,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newDeliveryView(*delivery))
	}
}

func RecordArrival(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body arrivalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		delivery, err := svc.RecordArrival(r.Context(), id, body.ArrivalAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newDeliveryView(*delivery))
	}
}

func AddPackaging(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body packagingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		packaging, err := svc.AddPackaging(r.Context(), orders.AddPackagingInput{
			OrderID:  id,
			Quantity: body.Quantity,
			Type:     body.Type,
			Size:     body.Size,
			Price:    body.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newPackagingView(*packaging))
	}
}

func ListCustomerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListOrdersByCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]orderSummaryView, 0, len(list))
		for _, o := range list {
			views = append(views, newOrderSummaryView(o))
		}
		responses.WriteSuccess(w, views)
	}
}
