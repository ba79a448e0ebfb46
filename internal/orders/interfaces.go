package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

// Repository defines the persistence surface of the order aggregate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	FindOrder(ctx context.Context, id uint, lock repo.LockMode) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
	Lines(ctx context.Context, orderID uint) ([]models.OrderLine, error)
	UpdateLine(ctx context.Context, line *models.OrderLine) error
	DeleteLine(ctx context.Context, orderID, menuID uint) error
	UpdateTotal(ctx context.Context, orderID uint, total decimal.Decimal, at time.Time) error
	DeleteOrder(ctx context.Context, order *models.Order) error
	FindDelivery(ctx context.Context, orderID uint, lock repo.LockMode) (*models.Delivery, error)
	CreateDelivery(ctx context.Context, delivery *models.Delivery) error
	SaveDelivery(ctx context.Context, delivery *models.Delivery) error
	Packagings(ctx context.Context, orderID uint) ([]models.Packaging, error)
	CreatePackaging(ctx context.Context, packaging *models.Packaging) error
}
