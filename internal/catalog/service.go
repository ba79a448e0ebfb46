package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/db"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes menus and their price history. Pricing is append-only; the
// current price is always derived from the latest row.
type Service interface {
	CreateMenu(ctx context.Context, name, category string) (*models.Menu, error)
	GetMenu(ctx context.Context, id uint) (*models.Menu, error)
	ListMenus(ctx context.Context, category string) ([]models.Menu, error)
	DeleteMenu(ctx context.Context, id uint) error
	SetPrice(ctx context.Context, menuID uint, input SetPriceInput) (*models.MenuPricing, error)
	CurrentPrice(ctx context.Context, menuID uint) (*models.MenuPricing, error)
	PriceAt(ctx context.Context, menuID uint, at time.Time) (*models.MenuPricing, error)
	PriceHistory(ctx context.Context, menuID uint) ([]models.MenuPricing, error)
}

type service struct {
	tx   txRunner
	repo Repository
}

// NewService builds a catalog service.
func NewService(tx txRunner, repository Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repository == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{tx: tx, repo: repository}, nil
}

func (s *service) CreateMenu(ctx context.Context, name, category string) (*models.Menu, error) {
	name, err := cleanText("name", name, maxNameLen)
	if err != nil {
		return nil, err
	}
	category, err = cleanText("category", category, maxCategoryLen)
	if err != nil {
		return nil, err
	}
	menu := &models.Menu{Name: name, Category: category}
	if err := s.repo.CreateMenu(ctx, menu); err != nil {
		return nil, db.Classify(err, "create menu")
	}
	return menu, nil
}

func (s *service) GetMenu(ctx context.Context, id uint) (*models.Menu, error) {
	menu, err := s.repo.FindMenu(ctx, id, repo.NoLock)
	if err != nil {
		return nil, db.ClassifyLookup(err, "menu")
	}
	return menu, nil
}

func (s *service) ListMenus(ctx context.Context, category string) ([]models.Menu, error) {
	menus, err := s.repo.ListMenus(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, db.Classify(err, "list menus")
	}
	return menus, nil
}

// DeleteMenu removes a menu that no order line references, together with its
// pricing history.
func (s *service) DeleteMenu(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		menu, err := txRepo.FindMenu(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "menu")
		}
		referenced, err := txRepo.MenuHasOrderLines(ctx, id)
		if err != nil {
			return db.Classify(err, "check menu order lines")
		}
		if referenced {
			return pkgerrors.New(pkgerrors.CodeConflict, "menu is referenced by order lines")
		}
		if err := txRepo.DeletePricings(ctx, id); err != nil {
			return db.Classify(err, "delete menu pricing")
		}
		return db.Classify(txRepo.DeleteMenu(ctx, menu), "delete menu")
	})
}

// SetPrice appends a pricing row under the menu's exclusive lock, so it
// serializes against orders that are reading the price.
func (s *service) SetPrice(ctx context.Context, menuID uint, input SetPriceInput) (*models.MenuPricing, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	pricing := &models.MenuPricing{
		MenuID:      menuID,
		Servings:    input.Servings,
		Price:       input.Price,
		EffectiveAt: input.EffectiveAt.UTC(),
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindMenu(ctx, menuID, repo.UpdateLock); err != nil {
			return db.ClassifyLookup(err, "menu")
		}
		return db.Classify(txRepo.CreatePricing(ctx, pricing), "create menu pricing")
	})
	if err != nil {
		return nil, err
	}
	return pricing, nil
}

func (s *service) CurrentPrice(ctx context.Context, menuID uint) (*models.MenuPricing, error) {
	return s.latest(ctx, menuID, nil)
}

func (s *service) PriceAt(ctx context.Context, menuID uint, at time.Time) (*models.MenuPricing, error) {
	at = at.UTC()
	return s.latest(ctx, menuID, &at)
}

func (s *service) latest(ctx context.Context, menuID uint, asOf *time.Time) (*models.MenuPricing, error) {
	if _, err := s.repo.FindMenu(ctx, menuID, repo.NoLock); err != nil {
		return nil, db.ClassifyLookup(err, "menu")
	}
	pricing, err := s.repo.LatestPricing(ctx, menuID, asOf)
	if err != nil {
		return nil, db.ClassifyLookup(err, "menu price")
	}
	return pricing, nil
}

func (s *service) PriceHistory(ctx context.Context, menuID uint) ([]models.MenuPricing, error) {
	if _, err := s.repo.FindMenu(ctx, menuID, repo.NoLock); err != nil {
		return nil, db.ClassifyLookup(err, "menu")
	}
	rows, err := s.repo.PricingHistory(ctx, menuID)
	if err != nil {
		return nil, db.Classify(err, "list menu pricing")
	}
	return rows, nil
}
