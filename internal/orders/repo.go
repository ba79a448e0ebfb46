package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&lines).Error
}

func (r *repository) FindOrder(ctx context.Context, id uint, lock repo.LockMode) (*models.Order, error) {
	var order models.Order
	if err := r.Query(ctx, lock).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB(ctx).
		Where("customer_id = ?", customerID).
		Order("ordered_at DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Lines(ctx context.Context, orderID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := r.DB(ctx).
		Where("order_id = ?", orderID).
		Order("menu_id ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) UpdateLine(ctx context.Context, line *models.OrderLine) error {
	res := r.DB(ctx).
		Model(&models.OrderLine{}).
		Where("order_id = ? AND menu_id = ?", line.OrderID, line.MenuID).
		Updates(map[string]any{"quantity": line.Quantity, "subtotal": line.Subtotal})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteLine(ctx context.Context, orderID, menuID uint) error {
	res := r.DB(ctx).
		Where("order_id = ? AND menu_id = ?", orderID, menuID).
		Delete(&models.OrderLine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateTotal(ctx context.Context, orderID uint, total decimal.Decimal, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"total": total, "updated_at": at}).Error
}

// DeleteOrder removes the order and every row that hangs off it.
func (r *repository) DeleteOrder(ctx context.Context, order *models.Order) error {
	for _, child := range []any{&models.OrderLine{}, &models.Delivery{}, &models.Packaging{}} {
		if err := r.DB(ctx).Where("order_id = ?", order.ID).Delete(child).Error; err != nil {
			return err
		}
	}
	return r.DB(ctx).Delete(order).Error
}

func (r *repository) FindDelivery(ctx context.Context, orderID uint, lock repo.LockMode) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := r.Query(ctx, lock).Where("order_id = ?", orderID).Take(&delivery).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *repository) CreateDelivery(ctx context.Context, delivery *models.Delivery) error {
	return r.DB(ctx).Create(delivery).Error
}

func (r *repository) SaveDelivery(ctx context.Context, delivery *models.Delivery) error {
	return r.DB(ctx).Save(delivery).Error
}

func (r *repository) Packagings(ctx context.Context, orderID uint) ([]models.Packaging, error) {
	var rows []models.Packaging
	if err := r.DB(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreatePackaging(ctx context.Context, packaging *models.Packaging) error {
	return r.DB(ctx).Create(packaging).Error
}
