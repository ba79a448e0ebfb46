package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeInvalidArgument, status: http.StatusBadRequest, publicMsg: "invalid argument", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeInsufficientStock, status: http.StatusUnprocessableEntity, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeUnavailable, status: http.StatusServiceUnavailable, publicMsg: "backing store unavailable", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeInvalidArgument, "quantity must be positive")
	if base.Code() != CodeInvalidArgument {
		t.Fatalf("expected invalid argument code, got %s", base.Code())
	}
	if base.Message() != "quantity must be positive" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "quantity"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeUnavailable, cause, "load order")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeUnavailable {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsAndIsFollowWrappedChains(t *testing.T) {
	err := New(CodeInsufficientStock, "not enough flour")
	outer := fmt.Errorf("consume: %w", err)

	if got := As(outer); got == nil || got.Code() != CodeInsufficientStock {
		t.Fatalf("As failed to return typed error")
	}
	if !Is(outer, CodeInsufficientStock) {
		t.Fatalf("expected Is to match wrapped code")
	}
	if Is(outer, CodeConflict) {
		t.Fatalf("expected Is to reject other codes")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("untyped errors should report internal")
	}
}

func TestDumpCapturesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "deliveries_order_id_key", TableName: "deliveries", Message: "duplicate key value"}
	err := Wrap(CodeConflict, pgErr, "insert delivery")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGConstraint != "deliveries_order_id_key" || d.PGTable != "deliveries" {
		t.Fatalf("unexpected pg fields: %+v", d)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(d.Chain))
	}
	if d.Retryable {
		t.Fatalf("conflicts are not retryable")
	}
}

func TestDumpFieldsOmitEmptyDriverDetail(t *testing.T) {
	fields := Dump(New(CodeNotFound, "menu 3 not found")).Fields()
	if fields["error_code"] != CodeNotFound {
		t.Fatalf("expected not found code, got %v", fields["error_code"])
	}
	for _, key := range []string{"pg_code", "pg_table", "error_chain"} {
		if _, ok := fields[key]; ok {
			t.Fatalf("unexpected field %s in %+v", key, fields)
		}
	}

	pgErr := &pgconn.PgError{Code: "23503", TableName: "order_lines"}
	fields = Dump(Wrap(CodeConflict, pgErr, "delete menu")).Fields()
	if fields["pg_code"] != "23503" || fields["pg_table"] != "order_lines" {
		t.Fatalf("expected pg detail in %+v", fields)
	}
}
