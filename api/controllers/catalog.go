package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dulcismaison/dulcis-backend/api/responses"
	"github.com/dulcismaison/dulcis-backend/api/validators"
	"github.com/dulcismaison/dulcis-backend/internal/catalog"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
	"github.com/dulcismaison/dulcis-backend/pkg/logger"
)

type menuRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"required,max=50"`
}

type priceRequest struct {
	Servings    int             `json:"servings" validate:"gt=0"`
	Price       decimal.Decimal `json:"price"`
	EffectiveAt time.Time       `json:"effective_at" validate:"required"`
}

func CreateMenu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body menuRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		menu, err := svc.CreateMenu(r.Context(), body.Name, body.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newMenuView(*menu))
	}
}

// ListMenus optionally filters by ?category=.
func ListMenus(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menus, err := svc.ListMenus(r.Context(), validators.QueryString(r, "category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]menuView, 0, len(menus))
		for _, m := range menus {
			views = append(views, newMenuView(m))
		}
		responses.WriteSuccess(w, views)
	}
}

func GetMenu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		menu, err := svc.GetMenu(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMenuView(*menu))
	}
}

func DeleteMenu(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteMenu(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func SetPrice(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body priceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pricing, err := svc.SetPrice(r.Context(), id, catalog.SetPriceInput{
			Servings:    body.Servings,
			Price:       body.Price,
			EffectiveAt: body.EffectiveAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newPricingView(*pricing))
	}
}

func PriceHistory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		history, err := svc.PriceHistory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views := make([]pricingView, 0, len(history))
		for _, p := range history {
			views = append(views, newPricingView(p))
		}
		responses.WriteSuccess(w, views)
	}
}

// CurrentPrice returns the latest price row, or the one in force at ?at= (RFC 3339).
func CurrentPrice(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var pricing *models.MenuPricing
		if raw := validators.QueryString(r, "at"); raw != "" {
			at, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidArgument, parseErr, "invalid at parameter").
					WithDetails(map[string]any{"field": "at"}))
				return
			}
			pricing, err = svc.PriceAt(r.Context(), id, at)
		} else {
			pricing, err = svc.CurrentPrice(r.Context(), id)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPricingView(*pricing))
	}
}
