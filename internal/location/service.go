package location

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/db"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the barangay → street → address hierarchy. A child can only
// be created under an existing parent and a parent with children cannot be removed.
type Service interface {
	CreateBarangay(ctx context.Context, name string) (*models.Barangay, error)
	CreateStreet(ctx context.Context, name string, barangayID uint) (*models.Street, error)
	CreateAddress(ctx context.Context, description string, streetID uint) (*models.Address, error)
	RenameBarangay(ctx context.Context, id uint, name string) (*models.Barangay, error)
	RenameStreet(ctx context.Context, id uint, name string) (*models.Street, error)
	UpdateAddressDescription(ctx context.Context, id uint, description string) (*models.Address, error)
	DeleteBarangay(ctx context.Context, id uint) error
	DeleteStreet(ctx context.Context, id uint) error
	DeleteAddress(ctx context.Context, id uint) error
	ResolveAddress(ctx context.Context, addressID uint) (*ResolvedAddress, error)
	ListBarangays(ctx context.Context) ([]models.Barangay, error)
	ListStreets(ctx context.Context, barangayID uint) ([]models.Street, error)
	ListAddresses(ctx context.Context, streetID uint) ([]models.Address, error)
}

type service struct {
	tx   txRunner
	repo Repository
}

// NewService builds a location service.
func NewService(tx txRunner, repository Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repository == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{tx: tx, repo: repository}, nil
}

func (s *service) CreateBarangay(ctx context.Context, name string) (*models.Barangay, error) {
	name, err := normalizeText("name", name, maxNameLen)
	if err != nil {
		return nil, err
	}
	barangay := &models.Barangay{Name: name}
	if err := s.repo.CreateBarangay(ctx, barangay); err != nil {
		return nil, db.Classify(err, "create barangay")
	}
	return barangay, nil
}

func (s *service) CreateStreet(ctx context.Context, name string, barangayID uint) (*models.Street, error) {
	name, err := normalizeText("name", name, maxNameLen)
	if err != nil {
		return nil, err
	}
	street := &models.Street{Name: name, BarangayID: barangayID}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindBarangay(ctx, barangayID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "barangay")
		}
		return db.Classify(txRepo.CreateStreet(ctx, street), "create street")
	})
	if err != nil {
		return nil, err
	}
	return street, nil
}

func (s *service) CreateAddress(ctx context.Context, description string, streetID uint) (*models.Address, error) {
	description, err := normalizeText("description", description, maxDescriptionLen)
	if err != nil {
		return nil, err
	}
	address := &models.Address{Description: description, StreetID: streetID}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindStreet(ctx, streetID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "street")
		}
		return db.Classify(txRepo.CreateAddress(ctx, address), "create address")
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) RenameBarangay(ctx context.Context, id uint, name string) (*models.Barangay, error) {
	name, err := normalizeText("name", name, maxNameLen)
	if err != nil {
		return nil, err
	}
	var barangay *models.Barangay
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		found, err := txRepo.FindBarangay(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "barangay")
		}
		found.Name = name
		barangay = found
		return db.Classify(txRepo.Save(ctx, found), "rename barangay")
	})
	if err != nil {
		return nil, err
	}
	return barangay, nil
}

func (s *service) RenameStreet(ctx context.Context, id uint, name string) (*models.Street, error) {
	name, err := normalizeText("name", name, maxNameLen)
	if err != nil {
		return nil, err
	}
	var street *models.Street
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		found, err := txRepo.FindStreet(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "street")
		}
		found.Name = name
		street = found
		return db.Classify(txRepo.Save(ctx, found), "rename street")
	})
	if err != nil {
		return nil, err
	}
	return street, nil
}

func (s *service) UpdateAddressDescription(ctx context.Context, id uint, description string) (*models.Address, error) {
	description, err := normalizeText("description", description, maxDescriptionLen)
	if err != nil {
		return nil, err
	}
	var address *models.Address
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		found, err := txRepo.FindAddress(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "address")
		}
		found.Description = description
		address = found
		return db.Classify(txRepo.Save(ctx, found), "update address")
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *service) DeleteBarangay(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		barangay, err := txRepo.FindBarangay(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "barangay")
		}
		hasStreets, err := txRepo.BarangayHasStreets(ctx, id)
		if err != nil {
			return db.Classify(err, "check barangay streets")
		}
		if hasStreets {
			return pkgerrors.New(pkgerrors.CodeConflict, "barangay still has streets")
		}
		return db.Classify(txRepo.Delete(ctx, barangay), "delete barangay")
	})
}

func (s *service) DeleteStreet(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		street, err := txRepo.FindStreet(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "street")
		}
		hasAddresses, err := txRepo.StreetHasAddresses(ctx, id)
		if err != nil {
			return db.Classify(err, "check street addresses")
		}
		if hasAddresses {
			return pkgerrors.New(pkgerrors.CodeConflict, "street still has addresses")
		}
		return db.Classify(txRepo.Delete(ctx, street), "delete street")
	})
}

func (s *service) DeleteAddress(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		address, err := txRepo.FindAddress(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "address")
		}
		inUse, err := txRepo.AddressInUse(ctx, id)
		if err != nil {
			return db.Classify(err, "check address references")
		}
		if inUse {
			return pkgerrors.New(pkgerrors.CodeConflict, "address is still referenced by a party")
		}
		return db.Classify(txRepo.Delete(ctx, address), "delete address")
	})
}

// ResolveAddress reads the whole chain in one transaction so a concurrent
// delete cannot leave a half-resolved result.
func (s *service) ResolveAddress(ctx context.Context, addressID uint) (*ResolvedAddress, error) {
	var resolved ResolvedAddress
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		address, err := txRepo.FindAddress(ctx, addressID, repo.NoLock)
		if err != nil {
			return db.ClassifyLookup(err, "address")
		}
		street, err := txRepo.FindStreet(ctx, address.StreetID, repo.NoLock)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "address references a missing street")
		}
		barangay, err := txRepo.FindBarangay(ctx, street.BarangayID, repo.NoLock)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "street references a missing barangay")
		}
		resolved = ResolvedAddress{Address: *address, Street: *street, Barangay: *barangay}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}

func (s *service) ListBarangays(ctx context.Context) ([]models.Barangay, error) {
	rows, err := s.repo.ListBarangays(ctx)
	if err != nil {
		return nil, db.Classify(err, "list barangays")
	}
	return rows, nil
}

func (s *service) ListStreets(ctx context.Context, barangayID uint) ([]models.Street, error) {
	if _, err := s.repo.FindBarangay(ctx, barangayID, repo.NoLock); err != nil {
		return nil, db.ClassifyLookup(err, "barangay")
	}
	rows, err := s.repo.ListStreets(ctx, barangayID)
	if err != nil {
		return nil, db.Classify(err, "list streets")
	}
	return rows, nil
}

func (s *service) ListAddresses(ctx context.Context, streetID uint) ([]models.Address, error) {
	if _, err := s.repo.FindStreet(ctx, streetID, repo.NoLock); err != nil {
		return nil, db.ClassifyLookup(err, "street")
	}
	rows, err := s.repo.ListAddresses(ctx, streetID)
	if err != nil {
		return nil, db.Classify(err, "list addresses")
	}
	return rows, nil
}
