package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dulcismaison/dulcis-backend/api/responses"
	"github.com/dulcismaison/dulcis-backend/api/validators"
	"github.com/dulcismaison/dulcis-backend/internal/inventory"
	"github.com/dulcismaison/dulcis-backend/pkg/logger"
)

type ingredientRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Unit          string          `json:"unit" validate:"required,max=20"`
	CriticalLevel decimal.Decimal `json:"critical_level"`
}

type consumeRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type receiptLineRequest struct {
	IngredientID uint            `json:"ingredient_id" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ExpiresAt    time.Time       `json:"expires_at" validate:"required"`
}

type receiptRequest struct {
	EmployeeID uint                 `json:"employee_id" validate:"required"`
	SupplierID uint                 `json:"supplier_id" validate:"required"`
	ReceivedAt *time.Time           `json:"received_at,omitempty"`
	Lines      []receiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r receiptRequest) toInput() inventory.RecordReceiptInput {
	input := inventory.RecordReceiptInput{
		EmployeeID: r.EmployeeID,
		SupplierID: r.SupplierID,
		Lines:      make([]inventory.ReceiptLineInput, 0, len(r.Lines)),
	}
	if r.ReceivedAt != nil {
		input.ReceivedAt = *r.ReceivedAt
	}
	for _, line := range r.Lines {
		input.Lines = append(input.Lines, inventory.ReceiptLineInput{
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Price:        line.Price,
			ExpiresAt:    line.ExpiresAt,
		})
	}
	return input
}

func CreateIngredient(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body ingredientRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ingredient, err := svc.CreateIngredient(r.Context(), inventory.CreateIngredientInput{
			Name:          body.Name,
			Unit:          body.Unit,
			CriticalLevel: body.CriticalLevel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newIngredientView(inventory.IngredientStatus{
			Ingredient: *ingredient,
			Critical:   ingredient.IsCritical(),
		}))
	}
}

func ListIngredients(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := svc.ListIngredients(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredientViews(statuses))
	}
}

func ListCriticalIngredients(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := svc.ListCritical(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ingredientViews(statuses))
	}
}

func GetIngredient(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := svc.GetIngredient(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newIngredientView(*status))
	}
}

func ConsumeIngredient(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body consumeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := svc.Consume(r.Context(), id, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newIngredientView(*status))
	}
}

func ListMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		movements, err := svc.ListMovements(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMovementViews(movements))
	}
}

func RecordSupplyReceipt(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body receiptRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.RecordSupplyReceipt(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newReceiptView(*detail))
	}
}

func GetSupplyReceipt(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.GetSupplyReceipt(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newReceiptView(*detail))
	}
}

// VoidSupplyReceipt reverses the receipt's stock and removes it.
func VoidSupplyReceipt(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.VoidSupplyReceipt(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func ingredientViews(statuses []inventory.IngredientStatus) []ingredientView {
	views := make([]ingredientView, 0, len(statuses))
	for _, s := range statuses {
		views = append(views, newIngredientView(s))
	}
	return views
}
