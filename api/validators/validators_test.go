package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

type lineBody struct {
	MenuID   uint `json:"menu_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"gt=0"`
}

type orderBody struct {
	CustomerID uint       `json:"customer_id" validate:"required"`
	Lines      []lineBody `json:"lines" validate:"required,min=1,dive"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_id":1,"lines":[{"menu_id":2,"quantity":3}]}`))
	var body orderBody
	require.NoError(t, DecodeJSONBody(req, &body))
	require.Equal(t, uint(2), body.Lines[0].MenuID)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_id":1,"total":"5.00"}`))
	var body orderBody
	err := DecodeJSONBody(req, &body)
	require.Equal(t, pkgerrors.CodeInvalidArgument, pkgerrors.CodeOf(err))
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_id":1,"lines":[{"menu_id":2,"quantity":0}]}`))
	var body orderBody
	err := DecodeJSONBody(req, &body)
	require.Equal(t, pkgerrors.CodeInvalidArgument, pkgerrors.CodeOf(err))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "must be greater than 0", details["orderBody.lines[0].quantity"])
}

func TestParseIDParam(t *testing.T) {
	withParam := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rc := chi.NewRouteContext()
		rc.URLParams.Add("id", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}

	id, err := ParseIDParam(withParam("42"), "id")
	require.NoError(t, err)
	require.Equal(t, uint(42), id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := ParseIDParam(withParam(bad), "id")
		require.Equal(t, pkgerrors.CodeInvalidArgument, pkgerrors.CodeOf(err), bad)
	}
}
