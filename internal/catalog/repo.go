package catalog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

// Repository persists menus and their append-only pricing history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMenu(ctx context.Context, menu *models.Menu) error
	FindMenu(ctx context.Context, id uint, lock repo.LockMode) (*models.Menu, error)
	ListMenus(ctx context.Context, category string) ([]models.Menu, error)
	DeleteMenu(ctx context.Context, menu *models.Menu) error
	CreatePricing(ctx context.Context, pricing *models.MenuPricing) error
	LatestPricing(ctx context.Context, menuID uint, asOf *time.Time) (*models.MenuPricing, error)
	PricingHistory(ctx context.Context, menuID uint) ([]models.MenuPricing, error)
	DeletePricings(ctx context.Context, menuID uint) error
	MenuHasOrderLines(ctx context.Context, menuID uint) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateMenu(ctx context.Context, menu *models.Menu) error {
	return r.DB(ctx).Create(menu).Error
}

func (r *repository) FindMenu(ctx context.Context, id uint, lock repo.LockMode) (*models.Menu, error) {
	var menu models.Menu
	if err := r.Query(ctx, lock).First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *repository) ListMenus(ctx context.Context, category string) ([]models.Menu, error) {
	var menus []models.Menu
	query := r.DB(ctx)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("category ASC").Order("name ASC").Order("id ASC").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *repository) DeleteMenu(ctx context.Context, menu *models.Menu) error {
	return r.DB(ctx).Delete(menu).Error
}

func (r *repository) CreatePricing(ctx context.Context, pricing *models.MenuPricing) error {
	return r.DB(ctx).Create(pricing).Error
}

// LatestPricing returns the newest pricing row by (effective_at, id). A non-nil
// asOf excludes rows that take effect after it.
func (r *repository) LatestPricing(ctx context.Context, menuID uint, asOf *time.Time) (*models.MenuPricing, error) {
	var pricing models.MenuPricing
	query := r.DB(ctx).Where("menu_id = ?", menuID)
	if asOf != nil {
		query = query.Where("effective_at <= ?", *asOf)
	}
	if err := query.
		Order("effective_at DESC").
		Order("id DESC").
		Take(&pricing).Error; err != nil {
		return nil, err
	}
	return &pricing, nil
}

func (r *repository) PricingHistory(ctx context.Context, menuID uint) ([]models.MenuPricing, error) {
	var rows []models.MenuPricing
	if err := r.DB(ctx).
		Where("menu_id = ?", menuID).
		Order("effective_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DeletePricings(ctx context.Context, menuID uint) error {
	return r.DB(ctx).Where("menu_id = ?", menuID).Delete(&models.MenuPricing{}).Error
}

func (r *repository) MenuHasOrderLines(ctx context.Context, menuID uint) (bool, error) {
	return r.Exists(ctx, &models.OrderLine{}, "menu_id = ?", menuID)
}
