package location

import (
	"context"

	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

// Repository persists the barangay/street/address hierarchy.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBarangay(ctx context.Context, barangay *models.Barangay) error
	CreateStreet(ctx context.Context, street *models.Street) error
	CreateAddress(ctx context.Context, address *models.Address) error
	FindBarangay(ctx context.Context, id uint, lock repo.LockMode) (*models.Barangay, error)
	FindStreet(ctx context.Context, id uint, lock repo.LockMode) (*models.Street, error)
	FindAddress(ctx context.Context, id uint, lock repo.LockMode) (*models.Address, error)
	ListBarangays(ctx context.Context) ([]models.Barangay, error)
	ListStreets(ctx context.Context, barangayID uint) ([]models.Street, error)
	ListAddresses(ctx context.Context, streetID uint) ([]models.Address, error)
	Save(ctx context.Context, row any) error
	Delete(ctx context.Context, row any) error
	BarangayHasStreets(ctx context.Context, barangayID uint) (bool, error)
	StreetHasAddresses(ctx context.Context, streetID uint) (bool, error)
	AddressInUse(ctx context.Context, addressID uint) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a location repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateBarangay(ctx context.Context, barangay *models.Barangay) error {
	return r.DB(ctx).Create(barangay).Error
}

func (r *repository) CreateStreet(ctx context.Context, street *models.Street) error {
	return r.DB(ctx).Create(street).Error
}

func (r *repository) CreateAddress(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Create(address).Error
}

func (r *repository) FindBarangay(ctx context.Context, id uint, lock repo.LockMode) (*models.Barangay, error) {
	var barangay models.Barangay
	if err := r.Query(ctx, lock).First(&barangay, id).Error; err != nil {
		return nil, err
	}
	return &barangay, nil
}

func (r *repository) FindStreet(ctx context.Context, id uint, lock repo.LockMode) (*models.Street, error) {
	var street models.Street
	if err := r.Query(ctx, lock).First(&street, id).Error; err != nil {
		return nil, err
	}
	return &street, nil
}

func (r *repository) FindAddress(ctx context.Context, id uint, lock repo.LockMode) (*models.Address, error) {
	var address models.Address
	if err := r.Query(ctx, lock).First(&address, id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) ListBarangays(ctx context.Context) ([]models.Barangay, error) {
	var rows []models.Barangay
	if err := r.DB(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListStreets(ctx context.Context, barangayID uint) ([]models.Street, error) {
	var rows []models.Street
	if err := r.DB(ctx).
		Where("barangay_id = ?", barangayID).
		Order("name ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListAddresses(ctx context.Context, streetID uint) ([]models.Address, error) {
	var rows []models.Address
	if err := r.DB(ctx).
		Where("street_id = ?", streetID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Save(ctx context.Context, row any) error {
	return r.DB(ctx).Save(row).Error
}

func (r *repository) Delete(ctx context.Context, row any) error {
	return r.DB(ctx).Delete(row).Error
}

func (r *repository) BarangayHasStreets(ctx context.Context, barangayID uint) (bool, error) {
	return r.Exists(ctx, &models.Street{}, "barangay_id = ?", barangayID)
}

func (r *repository) StreetHasAddresses(ctx context.Context, streetID uint) (bool, error) {
	return r.Exists(ctx, &models.Address{}, "street_id = ?", streetID)
}

// AddressInUse reports whether any party still points at the address.
func (r *repository) AddressInUse(ctx context.Context, addressID uint) (bool, error) {
	for _, model := range []any{&models.Customer{}, &models.Employee{}, &models.Supplier{}} {
		found, err := r.Exists(ctx, model, "address_id = ?", addressID)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}
