package parties

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

// Service manages customers, employees and suppliers. A party that other
// records still reference cannot be deleted; contacts go with their owner.
type Service interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, input CustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
	AddCustomerContact(ctx context.Context, customerID uint, phone string) (*models.CustomerContact, error)
	ListCustomerContacts(ctx context.Context, customerID uint) ([]models.CustomerContact, error)
	RemoveCustomerContact(ctx context.Context, customerID, contactID uint) error

	CreateEmployee(ctx context.Context, input EmployeeInput) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id uint, input EmployeeInput) (*models.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uint) error
	AddEmployeeContact(ctx context.Context, employeeID uint, phone string) (*models.EmployeeContact, error)
	ListEmployeeContacts(ctx context.Context, employeeID uint) ([]models.EmployeeContact, error)
	RemoveEmployeeContact(ctx context.Context, employeeID, contactID uint) error

	CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, input SupplierInput) (*models.Supplier, error)
	GetSupplier(ctx context.Context, id uint) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id uint) error
}

type service struct {
	tx   txRunner
	repo Repository
}

// NewService builds a party registry service.
func NewService(tx txRunner, repository Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repository == nil {
		return nil, fmt.Errorf("party repository required")
	}
	return &service{tx: tx, repo: repository}, nil
}

// checkAddress resolves a non-nil address reference inside the transaction.
func checkAddress(ctx context.Context, txRepo Repository, addressID *uint) error {
	if addressID == nil {
		return nil
	}
	if err := txRepo.LockAddress(ctx, *addressID); err != nil {
		return db.ClassifyLookup(err, "address")
	}
	return nil
}

func (s *service) CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	name, err := input.normalizedName()
	if err != nil {
		return nil, err
	}
	customer := &models.Customer{Name: name, AddressID: input.AddressID}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := checkAddress(ctx, txRepo, input.AddressID); err != nil {
			return err
		}
		return db.Classify(txRepo.Create(ctx, customer), "create customer")
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uint, input CustomerInput) (*models.Customer, error) {
	name, err := input.normalizedName()
	if err != nil {
		return nil, err
	}
	var customer *models.Customer
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		found, err := txRepo.FindCustomer(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "customer")
		}
		if err := checkAddress(ctx, txRepo, input.AddressID); err != nil {
			return err
		}
		found.Name = name
		found.AddressID = input.AddressID
		customer = found
		return db.Classify(txRepo.Save(ctx, found), "update customer")
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *service) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindCustomer(ctx, id, repo.NoLock)
	if err != nil {
		return nil, db.ClassifyLookup(err, "customer")
	}
	return customer, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		customer, err := txRepo.FindCustomer(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "customer")
		}
		hasOrders, err := txRepo.CustomerHasOrders(ctx, id)
		if err != nil {
			return db.Classify(err, "check customer orders")
		}
		if hasOrders {
			return pkgerrors.New(pkgerrors.CodeConflict, "customer has orders")
		}
		if err := txRepo.DeleteCustomerContacts(ctx, id); err != nil {
			return db.Classify(err, "delete customer contacts")
		}
		return db.Classify(txRepo.Delete(ctx, customer), "delete customer")
	})
}

func (s *service) AddCustomerContact(ctx context.Context, customerID uint, phone string) (*models.CustomerContact, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	contact := &models.CustomerContact{CustomerID: customerID, Phone: phone}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindCustomer(ctx, customerID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "customer")
		}
		return db.Classify(txRepo.Create(ctx, contact), "create customer contact")
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) ListCustomerContacts(ctx context.Context, customerID uint) ([]models.CustomerContact, error) {
	if _, err := s.repo.FindCustomer(ctx, customerID, repo.NoLock); err != nil {
		return nil, db.ClassifyLookup(err, "customer")
	}
	contacts, err := s.repo.ListCustomerContacts(ctx, customerID)
	if err != nil {
		return nil, db.Classify(err, "list customer contacts")
	}
	return contacts, nil
}

func (s *service) RemoveCustomerContact(ctx context.Context, customerID, contactID uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		contact, err := txRepo.FindCustomerContact(ctx, customerID, contactID)
		if err != nil {
			return db.ClassifyLookup(err, "customer contact")
		}
		return db.Classify(txRepo.Delete(ctx, contact), "delete customer contact")
	})
}

func (s *service) CreateEmployee(ctx context.Context, input EmployeeInput) (*models.Employee, error) {
	fields, err := input.normalize()
	if err != nil {
		return nil, err
	}
	employee := &models.Employee{
		Name:        fields.name,
		Age:         fields.age,
		CivilStatus: fields.civilStatus,
		AddressID:   input.AddressID,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := checkAddress(ctx, txRepo, input.AddressID); err != nil {
			return err
		}
		return db.Classify(txRepo.Create(ctx, employee), "create employee")
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *service) UpdateEmployee(ctx context.Context, id uint, input EmployeeInput) (*models.Employee, error) {
	fields, err := input.normalize()
	if err != nil {
		return nil, err
	}
	var employee *models.Employee
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		found, err := txRepo.FindEmployee(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "employee")
		}
		if err := checkAddress(ctx, txRepo, input.AddressID); err != nil {
			return err
		}
		found.Name = fields.name
		found.Age = fields.age
		found.CivilStatus = fields.civilStatus
		found.AddressID = input.AddressID
		employee = found
		return db.Classify(txRepo.Save(ctx, found), "update employee")
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *service) GetEmployee(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.repo.FindEmployee(ctx, id, repo.NoLock)
	if err != nil {
		return nil, db.ClassifyLookup(err, "employee")
	}
	return employee, nil
}

func (s *service) DeleteEmployee(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		employee, err := txRepo.FindEmployee(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "employee")
		}
		hasDependents, err := txRepo.EmployeeHasDependents(ctx, id)
		if err != nil {
			return db.Classify(err, "check employee dependents")
		}
		if hasDependents {
			return pkgerrors.New(pkgerrors.CodeConflict, "employee still has dependent records")
		}
		if err := txRepo.DeleteEmployeeContacts(ctx, id); err != nil {
			return db.Classify(err, "delete employee contacts")
		}
		return db.Classify(txRepo.Delete(ctx, employee), "delete employee")
	})
}

func (s *service) AddEmployeeContact(ctx context.Context, employeeID uint, phone string) (*models.EmployeeContact, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	contact := &models.EmployeeContact{EmployeeID: employeeID, Phone: phone}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.FindEmployee(ctx, employeeID, repo.ShareLock); err != nil {
			return db.ClassifyLookup(err, "employee")
		}
		return db.Classify(txRepo.Create(ctx, contact), "create employee contact")
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *service) ListEmployeeContacts(ctx context.Context, employeeID uint) ([]models.EmployeeContact, error) {
	if _, err := s.repo.FindEmployee(ctx, employeeID, repo.NoLock); err != nil {
		return nil, db.ClassifyLookup(err, "employee")
	}
	contacts, err := s.repo.ListEmployeeContacts(ctx, employeeID)
	if err != nil {
		return nil, db.Classify(err, "list employee contacts")
	}
	return contacts, nil
}

func (s *service) RemoveEmployeeContact(ctx context.Context, employeeID, contactID uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		contact, err := txRepo.FindEmployeeContact(ctx, employeeID, contactID)
		if err != nil {
			return db.ClassifyLookup(err, "employee contact")
		}
		return db.Classify(txRepo.Delete(ctx, contact), "delete employee contact")
	})
}

func (s *service) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	name, contact, err := input.normalize()
	if err != nil {
		return nil, err
	}
	supplier := &models.Supplier{Name: name, Contact: contact, AddressID: input.AddressID}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := checkAddress(ctx, txRepo, input.AddressID); err != nil {
			return err
		}
		return db.Classify(txRepo.Create(ctx, supplier), "create supplier")
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *service) UpdateSupplier(ctx context.Context, id uint, input SupplierInput) (*models.Supplier, error) {
	name, contact, err := input.normalize()
	if err != nil {
		return nil, err
	}
	var supplier *models.Supplier
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		found, err := txRepo.FindSupplier(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "supplier")
		}
		if err := checkAddress(ctx, txRepo, input.AddressID); err != nil {
			return err
		}
		found.Name = name
		found.Contact = contact
		found.AddressID = input.AddressID
		supplier = found
		return db.Classify(txRepo.Save(ctx, found), "update supplier")
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *service) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := s.repo.FindSupplier(ctx, id, repo.NoLock)
	if err != nil {
		return nil, db.ClassifyLookup(err, "supplier")
	}
	return supplier, nil
}

func (s *service) DeleteSupplier(ctx context.Context, id uint) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		supplier, err := txRepo.FindSupplier(ctx, id, repo.UpdateLock)
		if err != nil {
			return db.ClassifyLookup(err, "supplier")
		}
		hasReceipts, err := txRepo.SupplierHasReceipts(ctx, id)
		if err != nil {
			return db.Classify(err, "check supplier receipts")
		}
		if hasReceipts {
			return pkgerrors.New(pkgerrors.CodeConflict, "supplier has supply receipts")
		}
		return db.Classify(txRepo.Delete(ctx, supplier), "delete supplier")
	})
}
