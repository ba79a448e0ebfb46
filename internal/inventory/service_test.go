package inventory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dulcismaison/dulcis-backend/internal/parties"
	"github.com/dulcismaison/dulcis-backend/pkg/db"
	"github.com/dulcismaison/dulcis-backend/pkg/db/dbtest"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
	"github.com/dulcismaison/dulcis-backend/pkg/enums"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
	"github.com/dulcismaison/dulcis-backend/pkg/outbox"
)

var fixedNow = time.Date(2024, time.March, 4, 8, 30, 0, 0, time.UTC)

type harness struct {
	svc        Service
	client     *db.Client
	outboxRepo *outbox.Repository
	employeeID uint
	supplierID uint
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	client := dbtest.Open(t)
	outboxRepo := outbox.NewRepository(client.DB())
	svc, err := NewService(
		client,
		NewRepository(client.DB()),
		parties.NewRepository(client.DB()),
		outbox.NewService(outboxRepo),
		func() time.Time { return fixedNow },
	)
	require.NoError(t, err)

	employee := models.Employee{Name: "Dodong", Age: 35}
	require.NoError(t, client.DB().Create(&employee).Error)
	supplier := models.Supplier{Name: "Golden Mills"}
	require.NoError(t, client.DB().Create(&supplier).Error)

	return &harness{
		svc:        svc,
		client:     client,
		outboxRepo: outboxRepo,
		employeeID: employee.ID,
		supplierID: supplier.ID,
	}
}

func (h *harness) ingredient(t *testing.T, name string, critical string) *models.Ingredient {
	t.Helper()
	ingredient, err := h.svc.CreateIngredient(context.Background(), CreateIngredientInput{
		Name:          name,
		Unit:          "kg",
		CriticalLevel: decimal.RequireFromString(critical),
	})
	require.NoError(t, err)
	return ingredient
}

func (h *harness) receive(t *testing.T, lines ...ReceiptLineInput) *ReceiptDetail {
	t.Helper()
	detail, err := h.svc.RecordSupplyReceipt(context.Background(), RecordReceiptInput{
		EmployeeID: h.employeeID,
		SupplierID: h.supplierID,
		Lines:      lines,
	})
	require.NoError(t, err)
	return detail
}

func (h *harness) current(t *testing.T, id uint) decimal.Decimal {
	t.Helper()
	status, err := h.svc.GetIngredient(context.Background(), id)
	require.NoError(t, err)
	return status.Ingredient.Current
}

func (h *harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.client.DB().Model(model).Count(&n).Error)
	return n
}

func line(id uint, qty string) ReceiptLineInput {
	return ReceiptLineInput{
		IngredientID: id,
		Quantity:     decimal.RequireFromString(qty),
		Price:        decimal.RequireFromString("2.00"),
		ExpiresAt:    fixedNow.AddDate(0, 6, 0),
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, pkgerrors.CodeOf(err), "got %v", err)
}

func TestFlourScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flour := h.ingredient(t, "Flour", "10")
	require.True(t, h.current(t, flour.ID).IsZero())

	h.receive(t, line(flour.ID, "50"))
	require.True(t, decimal.NewFromInt(50).Equal(h.current(t, flour.ID)))
	critical, err := h.svc.IsCritical(ctx, flour.ID)
	require.NoError(t, err)
	require.False(t, critical)

	status, err := h.svc.Consume(ctx, flour.ID, decimal.NewFromInt(45))
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(5).Equal(status.Ingredient.Current))
	require.True(t, status.Critical)

	critical, err = h.svc.IsCritical(ctx, flour.ID)
	require.NoError(t, err)
	require.True(t, critical)

	listed, err := h.svc.ListCritical(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, flour.ID, listed[0].Ingredient.ID)

	movements, err := h.svc.ListMovements(ctx, flour.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	require.Equal(t, enums.StockMovementReceipt, movements[0].Type)
	require.Equal(t, enums.StockMovementConsumption, movements[1].Type)
	require.True(t, decimal.NewFromInt(50).Equal(movements[1].PreviousQty))
	require.True(t, decimal.NewFromInt(5).Equal(movements[1].NewQty))
}

func TestReceiptWithInvalidLineIsRejectedWhole(t *testing.T) {
	h := newHarness(t)
	flour := h.ingredient(t, "Flour", "10")
	sugar := h.ingredient(t, "Sugar", "5")

	_, err := h.svc.RecordSupplyReceipt(context.Background(), RecordReceiptInput{
		EmployeeID: h.employeeID,
		SupplierID: h.supplierID,
		Lines:      []ReceiptLineInput{line(flour.ID, "20"), line(sugar.ID, "0")},
	})
	requireCode(t, err, pkgerrors.CodeInvalidArgument)

	require.Zero(t, h.count(t, &models.SupplyReceipt{}))
	require.Zero(t, h.count(t, &models.SupplyReceiptLine{}))
	require.Zero(t, h.count(t, &models.IngredientMovement{}))
	require.True(t, h.current(t, flour.ID).IsZero())
	require.True(t, h.current(t, sugar.ID).IsZero())
}

func TestReceiptRollsBackOnUnknownIngredient(t *testing.T) {
	h := newHarness(t)
	flour := h.ingredient(t, "Flour", "10")

	_, err := h.svc.RecordSupplyReceipt(context.Background(), RecordReceiptInput{
		EmployeeID: h.employeeID,
		SupplierID: h.supplierID,
		Lines:      []ReceiptLineInput{line(flour.ID, "20"), line(flour.ID+100, "3")},
	})
	requireCode(t, err, pkgerrors.CodeNotFound)

	require.Zero(t, h.count(t, &models.SupplyReceipt{}))
	require.Zero(t, h.count(t, &models.OutboxEvent{}))
	require.True(t, h.current(t, flour.ID).IsZero())
}

func TestReceiptValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	flour := h.ingredient(t, "Flour", "10")

	_, err := h.svc.RecordSupplyReceipt(ctx, RecordReceiptInput{
		EmployeeID: h.employeeID,
		SupplierID: h.supplierID,
		Lines:      []ReceiptLineInput{line(flour.ID, "1"), line(flour.ID, "2")},
	})
	requireCode(t, err, pkgerrors.CodeInvalidArgument)

	_, err = h.svc.RecordSupplyReceipt(ctx, RecordReceiptInput{EmployeeID: h.employeeID, SupplierID: h.supplierID})
	requireCode(t, err, pkgerrors.CodeInvalidArgument)

	_, err = h.svc.RecordSupplyReceipt(ctx, RecordReceiptInput{
		EmployeeID: h.employeeID + 50,
		SupplierID: h.supplierID,
		Lines:      []ReceiptLineInput{line(flour.ID, "1")},
	})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = h.svc.RecordSupplyReceipt(ctx, RecordReceiptInput{
		EmployeeID: h.employeeID,
		SupplierID: h.supplierID + 50,
		Lines:      []ReceiptLineInput{line(flour.ID, "1")},
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestReceiptEmitsEventAndReadsBack(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	flour := h.ingredient(t, "Flour", "10")
	butter := h.ingredient(t, "Butter", "2")

	detail := h.receive(t, line(butter.ID, "4.5"), line(flour.ID, "25"))
	require.Equal(t, fixedNow, detail.Receipt.ReceivedAt)

	fetched, err := h.svc.GetSupplyReceipt(ctx, detail.Receipt.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Lines, 2)
	require.Equal(t, flour.ID, fetched.Lines[0].IngredientID)
	require.True(t, decimal.RequireFromString("4.5").Equal(h.current(t, butter.ID)))

	events, err := h.outboxRepo.ListByAggregate(ctx, enums.AggregateSupplyReceipt, fmt.Sprint(detail.Receipt.ID))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, enums.EventSupplyReceiptRecorded, events[0].EventType)

	_, err = h.svc.GetSupplyReceipt(ctx, detail.Receipt.ID+1)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestConsumeRejectsOverdraw(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sugar := h.ingredient(t, "Sugar", "1")
	h.receive(t, line(sugar.ID, "8"))

	_, err := h.svc.Consume(ctx, sugar.ID, decimal.NewFromInt(9))
	requireCode(t, err, pkgerrors.CodeInsufficientStock)
	require.True(t, decimal.NewFromInt(8).Equal(h.current(t, sugar.ID)))

	_, err = h.svc.Consume(ctx, sugar.ID, decimal.Zero)
	requireCode(t, err, pkgerrors.CodeInvalidArgument)
	_, err = h.svc.Consume(ctx, sugar.ID+10, decimal.NewFromInt(1))
	requireCode(t, err, pkgerrors.CodeNotFound)

	movements, err := h.svc.ListMovements(ctx, sugar.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)

	status, err := h.svc.Consume(ctx, sugar.ID, decimal.NewFromInt(8))
	require.NoError(t, err)
	require.True(t, status.Ingredient.Current.IsZero())
}

func TestConcurrentConsumeSerializes(t *testing.T) {
	h := newHarness(t)
	eggs := h.ingredient(t, "Eggs", "0")
	h.receive(t, line(eggs.ID, "8"))

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.Consume(context.Background(), eggs.ID, decimal.NewFromInt(5))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case pkgerrors.Is(err, pkgerrors.CodeInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, insufficient)
	require.True(t, decimal.NewFromInt(3).Equal(h.current(t, eggs.ID)))
}

func TestCriticalEventOnlyOnCrossing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	milk := h.ingredient(t, "Milk", "10")
	h.receive(t, line(milk.ID, "20"))

	_, err := h.svc.Consume(ctx, milk.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = h.svc.Consume(ctx, milk.ID, decimal.NewFromInt(6))
	require.NoError(t, err)
	_, err = h.svc.Consume(ctx, milk.ID, decimal.NewFromInt(1))
	require.NoError(t, err)

	events, err := h.outboxRepo.ListByAggregate(ctx, enums.AggregateIngredient, fmt.Sprint(milk.ID))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, enums.EventIngredientStockCritical, events[0].EventType)
}

func TestVoidSupplyReceipt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	flour := h.ingredient(t, "Flour", "10")
	yeast := h.ingredient(t, "Yeast", "0")

	first := h.receive(t, line(flour.ID, "30"), line(yeast.ID, "2"))
	second := h.receive(t, line(flour.ID, "5"))

	require.NoError(t, h.svc.VoidSupplyReceipt(ctx, second.Receipt.ID))
	require.True(t, decimal.NewFromInt(30).Equal(h.current(t, flour.ID)))
	_, err := h.svc.GetSupplyReceipt(ctx, second.Receipt.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = h.svc.Consume(ctx, yeast.ID, decimal.NewFromInt(1))
	require.NoError(t, err)

	err = h.svc.VoidSupplyReceipt(ctx, first.Receipt.ID)
	requireCode(t, err, pkgerrors.CodeInsufficientStock)
	require.True(t, decimal.NewFromInt(30).Equal(h.current(t, flour.ID)))
	require.True(t, decimal.NewFromInt(1).Equal(h.current(t, yeast.ID)))

	fetched, err := h.svc.GetSupplyReceipt(ctx, first.Receipt.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Lines, 2)

	requireCode(t, h.svc.VoidSupplyReceipt(ctx, 999), pkgerrors.CodeNotFound)
}

func TestCreateIngredientValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.CreateIngredient(ctx, CreateIngredientInput{Name: "", Unit: "kg"})
	requireCode(t, err, pkgerrors.CodeInvalidArgument)
	_, err = h.svc.CreateIngredient(ctx, CreateIngredientInput{Name: "Salt", Unit: "kg", CriticalLevel: decimal.NewFromInt(-1)})
	requireCode(t, err, pkgerrors.CodeInvalidArgument)

	_, err = h.svc.GetIngredient(ctx, 12345)
	requireCode(t, err, pkgerrors.CodeNotFound)

	h.ingredient(t, "Salt", "0")
	all, err := h.svc.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.False(t, all[0].Critical)
}
