package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/catalog"
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

// Service owns the order aggregate. Totals are always derived from line
// subtotals and recomputed in the transaction that changes a line.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDetail, error)
	GetOrder(ctx context.Context, id uint) (*OrderDetail, error)
	OrderTotal(ctx context.Context, id uint) (decimal.Decimal, error)
	UpdateLineQuantity(ctx context.Context, orderID, menuID uint, quantity int) (*OrderDetail, error)
	RemoveLine(ctx context.Context, orderID, menuID uint) (*OrderDetail, error)
	CancelOrder(ctx context.Context, id uint) error
	AddDelivery(ctx context.Context, input AddDeliveryInput) (*models.Delivery, error)
	RecordArrival(ctx context.Context, orderID uint, arrival time.Time) (*models.Delivery, error)
	AddPackaging(ctx context.Context, input AddPackagingInput) (*models.Packaging, error)
	ListOrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	catalog catalog.Repository
	parties parties.Repository
	outbox  outboxPublisher
	now     func() time.Time
}

// NewService builds the order engine. A nil clock defaults to time.Now.
func NewService(repo Repository, tx txRunner, catalogRepo catalog.Repository, partyRepo parties.Repository, outbox outboxPublisher, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
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
		repo:    repo,
		tx:      tx,
		catalog: catalogRepo,
		parties: partyRepo,
		outbox:  outbox,
		now:     now,
	}, nil
}

// CreateOrder prices every line from the menu price effective at the order
// timestamp and writes header, lines and the order_created event in one
// transaction. Menu rows stay share-locked until commit so a concurrent
// SetPrice cannot slip in between the price read and the snapshot write.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDetail, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	orderedAt := s.now().UTC()

	var detail OrderDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)
		txParties := s.parties.WithTx(tx)

		if _, err := txParties.FindCustomer(ctx, input.CustomerID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "customer")
		}
		if _, err := txParties.FindEmployee(ctx, input.EmployeeID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "employee")
		}

		requested := append([]LineInput(nil), input.Lines...)
		sort.Slice(requested, func(i, j int) bool { return requested[i].MenuID < requested[j].MenuID })

		lines := make([]models.OrderLine, 0, len(requested))
		for _, in := range requested {
			if _, err := txCatalog.FindMenu(ctx, in.MenuID, repo.ShareLock); err != nil {
				return db.ClassifyLookup(err, "menu")
			}
			pricing, err := txCatalog.LatestPricing(ctx, in.MenuID, &orderedAt)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "menu has no price").
					WithDetails(map[string]any{"menuId": in.MenuID})
			}
			if err != nil {
				return db.Classify(err, "load menu price")
			}
			lines = append(lines, models.OrderLine{
				MenuID:    in.MenuID,
				Quantity:  in.Quantity,
				UnitPrice: pricing.Price,
				Subtotal:  subtotal(pricing.Price, in.Quantity),
			})
		}

		total := sumSubtotals(lines)
		if v := amounts.Money("total", total); v != nil {
			return pkgerrors.New(pkgerrors.CodeInvalidArgument, "order total "+v.Reason)
		}
		order := models.Order{
			OrderedAt:  orderedAt,
			CustomerID: input.CustomerID,
			EmployeeID: input.EmployeeID,
			Total:      total,
		}
		if err := txRepo.CreateOrder(ctx, &order); err != nil {
			return db.Classify(err, "create order")
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := txRepo.CreateLines(ctx, lines); err != nil {
			return db.Classify(err, "create order lines")
		}

		detail = OrderDetail{Order: order, Lines: lines, Packaging: []models.Packaging{}}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			OccurredAt:    orderedAt,
			Data: payloads.OrderCreatedEvent{
				OrderID:    order.ID,
				CustomerID: order.CustomerID,
				EmployeeID: order.EmployeeID,
				OrderedAt:  order.OrderedAt,
				Total:      order.Total,
				Lines:      lineSnapshots(lines),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *service) GetOrder(ctx context.Context, id uint) (*OrderDetail, error) {
	var detail *OrderDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		loaded, err := s.load(ctx, s.repo.WithTx(tx), id, repo.NoLock)
		detail = loaded
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// OrderTotal recomputes the total from the lines and checks it against the
// stored value. A mismatch is reported, never repaired on read.
func (s *service) OrderTotal(ctx context.Context, id uint) (decimal.Decimal, error) {
	order, err := s.repo.FindOrder(ctx, id, repo.NoLock)
	if err != nil {
		return decimal.Zero, db.ClassifyLookup(err, "order")
	}
	lines, err := s.repo.Lines(ctx, id)
	if err != nil {
		return decimal.Zero, db.Classify(err, "list order lines")
	}
	for _, line := range lines {
		if expected := subtotal(line.UnitPrice, line.Quantity); !expected.Equal(line.Subtotal) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeInternal, "order line subtotal out of sync").
				WithDetails(map[string]any{"orderId": id, "menuId": line.MenuID, "stored": line.Subtotal.String(), "expected": expected.String()})
		}
	}
	total := sumSubtotals(lines)
	if !total.Equal(order.Total) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeInternal, "order total out of sync").
			WithDetails(map[string]any{"orderId": id, "stored": order.Total.String(), "expected": total.String()})
	}
	return total, nil
}

// UpdateLineQuantity corrects a line's quantity. The snapshot price is kept.
func (s *service) UpdateLineQuantity(ctx context.Context, orderID, menuID uint, quantity int) (*OrderDetail, error) {
	if v := amounts.PositiveCount("quantity", quantity); v != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "quantity "+v.Reason)
	}
	return s.mutateLines(ctx, orderID, func(txRepo Repository, lines []models.OrderLine) ([]models.OrderLine, error) {
		idx := indexOf(lines, menuID)
		if idx < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
		}
		lines[idx].Quantity = quantity
		lines[idx].Subtotal = subtotal(lines[idx].UnitPrice, quantity)
		if err := txRepo.UpdateLine(ctx, &lines[idx]); err != nil {
			return nil, db.Classify(err, "update order line")
		}
		return lines, nil
	})
}

// RemoveLine deletes one line. The last line cannot be removed; cancel the
// order instead.
func (s *service) RemoveLine(ctx context.Context, orderID, menuID uint) (*OrderDetail, error) {
	return s.mutateLines(ctx, orderID, func(txRepo Repository, lines []models.OrderLine) ([]models.OrderLine, error) {
		idx := indexOf(lines, menuID)
		if idx < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order line not found")
		}
		if len(lines) == 1 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "an order must keep at least one line")
		}
		if err := txRepo.DeleteLine(ctx, orderID, menuID); err != nil {
			return nil, db.Classify(err, "delete order line")
		}
		return append(lines[:idx], lines[idx+1:]...), nil
	})
}

// mutateLines runs fn under the order's exclusive lock and persists the
// recomputed total of the lines it returns.
func (s *service) mutateLines(ctx context.Context, orderID uint, fn func(txRepo Repository, lines []models.OrderLine) ([]models.OrderLine, error)) (*OrderDetail, error) {
	at := s.now().UTC()
	var detail *OrderDetail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindOrder(ctx, orderID, repo.UpdateLock); err != nil {
			return db.ClassifyLookup(err, "order")
		}
		lines, err := txRepo.Lines(ctx, orderID)
		if err != nil {
			return db.Classify(err, "list order lines")
		}
		lines, err = fn(txRepo, lines)
		if err != nil {
			return err
		}
		total := sumSubtotals(lines)
		if v := amounts.Money("total", total); v != nil {
			return pkgerrors.New(pkgerrors.CodeInvalidArgument, "order total "+v.Reason)
		}
		if err := txRepo.UpdateTotal(ctx, orderID, total, at); err != nil {
			return db.Classify(err, "update order total")
		}
		loaded, err := s.load(ctx, txRepo, orderID, repo.NoLock)
		detail = loaded
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// CancelOrder deletes the order with its lines, delivery and packaging.
// Consumed stock is not given back.
func (s *service) CancelOrder(ctx context.Context, id uint) error {
	at := s.now().UTC()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindOrder(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "order")
		}
		if err := txRepo.DeleteOrder(ctx, order); err != nil {
			return db.Classify(err, "delete order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			OccurredAt:    at,
			Data: payloads.OrderCanceledEvent{
				OrderID:    order.ID,
				CustomerID: order.CustomerID,
				Total:      order.Total,
				CanceledAt: at,
			},
		})
	})
}

func (s *service) AddDelivery(ctx context.Context, input AddDeliveryInput) (*models.Delivery, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	delivery := &models.Delivery{
		OrderID:     input.OrderID,
		EmployeeID:  input.EmployeeID,
		DepartureAt: utcPtr(input.Departure),
		ArrivalAt:   utcPtr(input.Arrival),
		Fee:         input.Fee,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindOrder(ctx, input.OrderID, repo.UpdateLock); err != nil {
			return db.ClassifyLookup(err, "order")
		}
		if _, err := s.parties.WithTx(tx).FindEmployee(ctx, input.EmployeeID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "employee")
		}
		_, err := txRepo.FindDelivery(ctx, input.OrderID, repo.NoLock)
		switch {
		case err == nil:
			return pkgerrors.New(pkgerrors.CodeConflict, "order already has a delivery")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return db.Classify(err, "load delivery")
		}
		return db.Classify(txRepo.CreateDelivery(ctx, delivery), "create delivery")
	})
	if err != nil {
		return nil, err
	}
	return delivery, nil
}

func (s *service) RecordArrival(ctx context.Context, orderID uint, arrival time.Time) (*models.Delivery, error) {
	if arrival.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "arrival is required")
	}
	arrival = arrival.UTC()
	var delivery *models.Delivery
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		found, err := txRepo.FindDelivery(ctx, orderID, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "delivery")
		}
		if v := arrivalViolation(found.DepartureAt, &arrival); v != nil {
			return pkgerrors.New(pkgerrors.CodeInvalidArgument, "arrival "+v.Reason)
		}
		found.ArrivalAt = &arrival
		delivery = found
		return db.Classify(txRepo.SaveDelivery(ctx, found), "update delivery")
	})
	if err != nil {
		return nil, err
	}
	return delivery, nil
}

func (s *service) AddPackaging(ctx context.Context, input AddPackagingInput) (*models.Packaging, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}
	packaging := &models.Packaging{
		OrderID:  input.OrderID,
		Quantity: input.Quantity,
		Type:     input.Type,
		Size:     input.Size,
		Price:    input.Price,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindOrder(ctx, input.OrderID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "order")
		}
		return db.Classify(txRepo.CreatePackaging(ctx, packaging), "create packaging")
	})
	if err != nil {
		return nil, err
	}
	return packaging, nil
}

func (s *service) ListOrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	if _, err := s.parties.FindCustomer(ctx, customerID, repo.NoLock); err != nil {
		return nil, db.ClassifyLookup(err, "customer")
	}
	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, db.Classify(err, "list customer orders")
	}
	return orders, nil
}

func (s *service) load(ctx context.Context, txRepo Repository, id uint, lock repo.LockMode) (*OrderDetail, error) {
	order, err := txRepo.FindOrder(ctx, id, lock)
	if err != nil {
		return nil, db.ClassifyLookup(err, "order")
	}
	lines, err := txRepo.Lines(ctx, id)
	if err != nil {
		return nil, db.Classify(err, "list order lines")
	}
	packaging, err := txRepo.Packagings(ctx, id)
	if err != nil {
		return nil, db.Classify(err, "list packaging")
	}
	detail := &OrderDetail{Order: *order, Lines: lines, Packaging: packaging}
	delivery, err := txRepo.FindDelivery(ctx, id, repo.NoLock)
	switch {
	case err == nil:
		detail.Delivery = delivery
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, db.Classify(err, "load delivery")
	}
	return detail, nil
}

func indexOf(lines []models.OrderLine, menuID uint) int {
	for i, line := range lines {
		if line.MenuID == menuID {
			return i
		}
	}
	return -1
}

func lineSnapshots(lines []models.OrderLine) []payloads.OrderLineSnapshot {
	out := make([]payloads.OrderLineSnapshot, 0, len(lines))
	for _, line := range lines {
		out = append(out, payloads.OrderLineSnapshot{
			MenuID:    line.MenuID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	return out
}
