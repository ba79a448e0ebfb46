package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

// Repository persists ingredients, supply receipts and stock movements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	FindIngredient(ctx context.Context, id uint, lock repo.LockMode) (*models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	ListCritical(ctx context.Context) ([]models.Ingredient, error)
	UpdateStock(ctx context.Context, id uint, current decimal.Decimal, at time.Time) error
	CreateMovement(ctx context.Context, movement *models.IngredientMovement) error
	ListMovements(ctx context.Context, ingredientID uint) ([]models.IngredientMovement, error)
	CreateReceipt(ctx context.Context, receipt *models.SupplyReceipt) error
	CreateReceiptLines(ctx context.Context, lines []models.SupplyReceiptLine) error
	FindReceipt(ctx context.Context, id uint, lock repo.LockMode) (*models.SupplyReceipt, error)
	ReceiptLines(ctx context.Context, receiptID uint) ([]models.SupplyReceiptLine, error)
	DeleteReceipt(ctx context.Context, receipt *models.SupplyReceipt) error
}

type repository struct {
	repo.Base
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	return r.DB(ctx).Create(ingredient).Error
}

func (r *repository) FindIngredient(ctx context.Context, id uint, lock repo.LockMode) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.Query(ctx, lock).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *repository) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var rows []models.Ingredient
	if err := r.DB(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListCritical(ctx context.Context) ([]models.Ingredient, error) {
	var rows []models.Ingredient
	if err := r.DB(ctx).
		Where("current_qty < critical_level").
		Order("name ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStock writes the new level of a row the caller already holds locked.
func (r *repository) UpdateStock(ctx context.Context, id uint, current decimal.Decimal, at time.Time) error {
	res := r.DB(ctx).
		Model(&models.Ingredient{}).
		Where("id = ?", id).
		Updates(map[string]any{"current_qty": current, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.IngredientMovement) error {
	return r.DB(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, ingredientID uint) ([]models.IngredientMovement, error) {
	var rows []models.IngredientMovement
	if err := r.DB(ctx).
		Where("ingredient_id = ?", ingredientID).
		Order("occurred_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateReceipt(ctx context.Context, receipt *models.SupplyReceipt) error {
	return r.DB(ctx).Create(receipt).Error
}

func (r *repository) CreateReceiptLines(ctx context.Context, lines []models.SupplyReceiptLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&lines).Error
}

func (r *repository) FindReceipt(ctx context.Context, id uint, lock repo.LockMode) (*models.SupplyReceipt, error) {
	var receipt models.SupplyReceipt
	if err := r.Query(ctx, lock).First(&receipt, id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *repository) ReceiptLines(ctx context.Context, receiptID uint) ([]models.SupplyReceiptLine, error) {
	var rows []models.SupplyReceiptLine
	if err := r.DB(ctx).
		Where("supply_receipt_id = ?", receiptID).
		Order("ingredient_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteReceipt removes the receipt header together with its lines.
func (r *repository) DeleteReceipt(ctx context.Context, receipt *models.SupplyReceipt) error {
	if err := r.DB(ctx).
		Where("supply_receipt_id = ?", receipt.ID).
		Delete(&models.SupplyReceiptLine{}).Error; err != nil {
		return err
	}
	return r.DB(ctx).Delete(receipt).Error
}
