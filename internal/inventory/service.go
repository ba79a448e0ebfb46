package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/parties"
	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/amounts"
	"github.com/dulcismaison/dulcis-backend/pkg/db"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
	"github.com/dulcismaison/dulcis-backend/pkg/enums"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
	"github.com/dulcismaison/dulcis-backend/pkg/outbox"
	"github.com/dulcismaison/dulcis-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service keeps ingredient stock consistent with receipts and consumption.
// Every stock change runs under the ingredient's row lock and leaves a
// movement row behind; stock never drops below zero.
type Service interface {
	CreateIngredient(ctx context.Context, input CreateIngredientInput) (*models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*IngredientStatus, error)
	ListIngredients(ctx context.Context) ([]IngredientStatus, error)
	RecordSupplyReceipt(ctx context.Context, input RecordReceiptInput) (*ReceiptDetail, error)
	GetSupplyReceipt(ctx context.Context, id uint) (*ReceiptDetail, error)
	VoidSupplyReceipt(ctx context.Context, id uint) error
	Consume(ctx context.Context, ingredientID uint, quantity decimal.Decimal) (*IngredientStatus, error)
	IsCritical(ctx context.Context, ingredientID uint) (bool, error)
	ListCritical(ctx context.Context) ([]IngredientStatus, error)
	ListMovements(ctx context.Context, ingredientID uint) ([]models.IngredientMovement, error)
}

type service struct {
	tx      txRunner
	repo    Repository
	parties parties.Repository
	outbox  outboxPublisher
	now     func() time.Time
}

// NewService builds the inventory ledger. A nil clock defaults to time.Now.
func NewService(tx txRunner, repository Repository, partyRepo parties.Repository, outbox outboxPublisher, now func() time.Time) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repository == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if partyRepo == nil {
		return nil, fmt.Errorf("party repository required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		tx:      tx,
		repo:    repository,
		parties: partyRepo,
		outbox:  outbox,
		now:     now,
	}, nil
}

func (s *service) CreateIngredient(ctx context.Context, input CreateIngredientInput) (*models.Ingredient, error) {
	name, unit, err := input.validate()
	if err != nil {
		return nil, err
	}
	ingredient := &models.Ingredient{
		Name:          name,
		Unit:          unit,
		Current:       decimal.Zero,
		CriticalLevel: input.CriticalLevel,
	}
	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		return nil, db.Classify(err, "create ingredient")
	}
	return ingredient, nil
}

func (s *service) GetIngredient(ctx context.Context, id uint) (*IngredientStatus, error) {
	ingredient, err := s.repo.FindIngredient(ctx, id, repo.NoLock)
	if err != nil {
		return nil, db.ClassifyLookup(err, "ingredient")
	}
	status := statusOf(*ingredient)
	return &status, nil
}

func (s *service) ListIngredients(ctx context.Context) ([]IngredientStatus, error) {
	rows, err := s.repo.ListIngredients(ctx)
	if err != nil {
		return nil, db.Classify(err, "list ingredients")
	}
	return statuses(rows), nil
}

func (s *service) IsCritical(ctx context.Context, ingredientID uint) (bool, error) {
	status, err := s.GetIngredient(ctx, ingredientID)
	if err != nil {
		return false, err
	}
	return status.Critical, nil
}

func (s *service) ListCritical(ctx context.Context) ([]IngredientStatus, error) {
	rows, err := s.repo.ListCritical(ctx)
	if err != nil {
		return nil, db.Classify(err, "list critical ingredients")
	}
	return statuses(rows), nil
}

func (s *service) ListMovements(ctx context.Context, ingredientID uint) ([]models.IngredientMovement, error) {
	if _, err := s.repo.FindIngredient(ctx, ingredientID, repo.NoLock); err != nil {
		return nil, db.ClassifyLookup(err, "ingredient")
	}
	rows, err := s.repo.ListMovements(ctx, ingredientID)
	if err != nil {
		return nil, db.Classify(err, "list ingredient movements")
	}
	return rows, nil
}

// Consume decrements stock. A request that would drive stock negative is
// rejected with INSUFFICIENT_STOCK and leaves the level untouched.
func (s *service) Consume(ctx context.Context, ingredientID uint, quantity decimal.Decimal) (*IngredientStatus, error) {
	if v := amounts.PositiveQuantity("quantity", quantity); v != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "quantity "+v.Reason)
	}
	at := s.now().UTC()
	var status IngredientStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		change, err := s.adjust(ctx, s.repo.WithTx(tx), ingredientID, enums.StockMovementConsumption, quantity, nil, at)
		if err != nil {
			return err
		}
		status = statusOf(change.ingredient)
		return s.emitIfCritical(ctx, tx, change, at)
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// RecordSupplyReceipt persists the receipt, its lines and the stock
// increments they cause as one unit.
func (s *service) RecordSupplyReceipt(ctx context.Context, input RecordReceiptInput) (*ReceiptDetail, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	at := s.now().UTC()
	receivedAt := at
	if !input.ReceivedAt.IsZero() {
		receivedAt = input.ReceivedAt.UTC()
	}

	var detail ReceiptDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txParties := s.parties.WithTx(tx)
		if _, err := txParties.FindEmployee(ctx, input.EmployeeID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "employee")
		}
		if _, err := txParties.FindSupplier(ctx, input.SupplierID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "supplier")
		}

		receipt := models.SupplyReceipt{
			ReceivedAt: receivedAt,
			EmployeeID: input.EmployeeID,
			SupplierID: input.SupplierID,
		}
		if err := txRepo.CreateReceipt(ctx, &receipt); err != nil {
			return db.Classify(err, "create supply receipt")
		}

		lines := make([]models.SupplyReceiptLine, 0, len(input.Lines))
		for _, line := range input.Lines {
			lines = append(lines, models.SupplyReceiptLine{
				SupplyReceiptID: receipt.ID,
				IngredientID:    line.IngredientID,
				Quantity:        line.Quantity,
				Price:           line.Price,
				ExpiresAt:       line.ExpiresAt.UTC(),
			})
		}
		for _, line := range lockOrder(lines) {
			if _, err := s.adjust(ctx, txRepo, line.IngredientID, enums.StockMovementReceipt, line.Quantity, &receipt.ID, at); err != nil {
				return err
			}
		}
		if err := txRepo.CreateReceiptLines(ctx, lines); err != nil {
			return db.Classify(err, "create supply receipt lines")
		}

		detail = ReceiptDetail{Receipt: receipt, Lines: lines}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSupplyReceiptRecorded,
			AggregateType: enums.AggregateSupplyReceipt,
			AggregateID:   receipt.ID,
			OccurredAt:    at,
			Data: payloads.SupplyReceiptRecordedEvent{
				SupplyReceiptID: receipt.ID,
				SupplierID:      receipt.SupplierID,
				EmployeeID:      receipt.EmployeeID,
				ReceivedAt:      receipt.ReceivedAt,
				Lines:           snapshots(lines),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *service) GetSupplyReceipt(ctx context.Context, id uint) (*ReceiptDetail, error) {
	receipt, err := s.repo.FindReceipt(ctx, id, repo.NoLock)
	if err != nil {
		return nil, db.ClassifyLookup(err, "supply receipt")
	}
	lines, err := s.repo.ReceiptLines(ctx, id)
	if err != nil {
		return nil, db.Classify(err, "list supply receipt lines")
	}
	return &ReceiptDetail{Receipt: *receipt, Lines: lines}, nil
}

// VoidSupplyReceipt deletes a receipt with its lines and takes back the stock
// it added. The take-back is an explicit consumption of each line quantity,
// recorded as a receipt_void movement under the same row lock and
// non-negative check as Consume. Stock already consumed below the received
// amount blocks the void.
func (s *service) VoidSupplyReceipt(ctx context.Context, id uint) error {
	at := s.now().UTC()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		receipt, err := txRepo.FindReceipt(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "supply receipt")
		}
		lines, err := txRepo.ReceiptLines(ctx, id)
		if err != nil {
			return db.Classify(err, "list supply receipt lines")
		}
		for _, line := range lockOrder(lines) {
			change, err := s.adjust(ctx, txRepo, line.IngredientID, enums.StockMovementVoid, line.Quantity, &receipt.ID, at)
			if err != nil {
				return err
			}
			if err := s.emitIfCritical(ctx, tx, change, at); err != nil {
				return err
			}
		}
		if err := txRepo.DeleteReceipt(ctx, receipt); err != nil {
			return db.Classify(err, "delete supply receipt")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventSupplyReceiptVoided,
			AggregateType: enums.AggregateSupplyReceipt,
			AggregateID:   receipt.ID,
			OccurredAt:    at,
			Data: payloads.SupplyReceiptVoidedEvent{
				SupplyReceiptID: receipt.ID,
				SupplierID:      receipt.SupplierID,
				VoidedAt:        at,
				Lines:           snapshots(lines),
			},
		})
	})
}

type stockChange struct {
	ingredient models.Ingredient
	previous   decimal.Decimal
}

// crossedBelowCritical is true only for the change that took stock from at or
// above the critical level to below it.
func (c stockChange) crossedBelowCritical() bool {
	return !c.previous.LessThan(c.ingredient.CriticalLevel) && c.ingredient.IsCritical()
}

// adjust applies one movement to an ingredient under its row lock.
func (s *service) adjust(ctx context.Context, txRepo Repository, ingredientID uint, kind enums.StockMovementType, quantity decimal.Decimal, receiptID *uint, at time.Time) (*stockChange, error) {
	ingredient, err := txRepo.FindIngredient(ctx, ingredientID, repo.UpdateLock)
	if err != nil {
		return nil, db.ClassifyLookup(err, "ingredient")
	}
	previous := ingredient.Current
	next := previous.Sub(quantity)
	if kind.IsIncrement() {
		next = previous.Add(quantity)
	}
	if next.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for %s", ingredient.Name)).
			WithDetails(map[string]any{
				"ingredientId": ingredient.ID,
				"current":      previous.String(),
				"requested":    quantity.String(),
			})
	}
	if v := amounts.Quantity("current", next); v != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, fmt.Sprintf("stock for %s would be %s", ingredient.Name, v.Reason))
	}
	if err := txRepo.UpdateStock(ctx, ingredient.ID, next, at); err != nil {
		return nil, db.Classify(err, "update ingredient stock")
	}
	movement := &models.IngredientMovement{
		IngredientID:    ingredient.ID,
		Type:            kind,
		Quantity:        quantity,
		PreviousQty:     previous,
		NewQty:          next,
		SupplyReceiptID: receiptID,
		OccurredAt:      at,
	}
	if err := txRepo.CreateMovement(ctx, movement); err != nil {
		return nil, db.Classify(err, "record ingredient movement")
	}
	ingredient.Current = next
	ingredient.UpdatedAt = at
	return &stockChange{ingredient: *ingredient, previous: previous}, nil
}

func (s *service) emitIfCritical(ctx context.Context, tx *gorm.DB, change *stockChange, at time.Time) error {
	if !change.crossedBelowCritical() {
		return nil
	}
	ingredient := change.ingredient
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventIngredientStockCritical,
		AggregateType: enums.AggregateIngredient,
		AggregateID:   ingredient.ID,
		OccurredAt:    at,
		Data: payloads.IngredientStockCriticalEvent{
			IngredientID:  ingredient.ID,
			Name:          ingredient.Name,
			Unit:          ingredient.Unit,
			Current:       ingredient.Current,
			CriticalLevel: ingredient.CriticalLevel,
			DetectedAt:    at,
		},
	})
}

// lockOrder returns the lines sorted by ingredient so concurrent receipts
// take row locks in the same order.
func lockOrder(lines []models.SupplyReceiptLine) []models.SupplyReceiptLine {
	sorted := append([]models.SupplyReceiptLine(nil), lines...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].IngredientID < sorted[j].IngredientID })
	return sorted
}

func snapshots(lines []models.SupplyReceiptLine) []payloads.ReceiptLineSnapshot {
	out := make([]payloads.ReceiptLineSnapshot, 0, len(lines))
	for _, line := range lines {
		out = append(out, payloads.ReceiptLineSnapshot{
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Price:        line.Price,
			ExpiresAt:    line.ExpiresAt,
		})
	}
	return out
}

func statuses(rows []models.Ingredient) []IngredientStatus {
	out := make([]IngredientStatus, 0, len(rows))
	for _, row := range rows {
		out = append(out, statusOf(row))
	}
	return out
}
