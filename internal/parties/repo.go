package parties

import (
	"context"

	"gorm.io/gorm"

	"github.com/dulcismaison/dulcis-backend/internal/repo"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

// Repository persists customers, employees, suppliers and their contacts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row any) error
	Save(ctx context.Context, row any) error
	Delete(ctx context.Context, row any) error
	FindCustomer(ctx context.Context, id uint, lock repo.LockMode) (*models.Customer, error)
	FindEmployee(ctx context.Context, id uint, lock repo.LockMode) (*models.Employee, error)
	FindSupplier(ctx context.Context, id uint, lock repo.LockMode) (*models.Supplier, error)
	LockAddress(ctx context.Context, id uint) error
	ListCustomerContacts(ctx context.Context, customerID uint) ([]models.CustomerContact, error)
	ListEmployeeContacts(ctx context.Context, employeeID uint) ([]models.EmployeeContact, error)
	FindCustomerContact(ctx context.Context, customerID, contactID uint) (*models.CustomerContact, error)
	FindEmployeeContact(ctx context.Context, employeeID, contactID uint) (*models.EmployeeContact, error)
	DeleteCustomerContacts(ctx context.Context, customerID uint) error
	DeleteEmployeeContacts(ctx context.Context, employeeID uint) error
	CustomerHasOrders(ctx context.Context, customerID uint) (bool, error)
	EmployeeHasDependents(ctx context.Context, employeeID uint) (bool, error)
	SupplierHasReceipts(ctx context.Context, supplierID uint) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a party repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, row any) error {
	return r.DB(ctx).Create(row).Error
}

func (r *repository) Save(ctx context.Context, row any) error {
	return r.DB(ctx).Save(row).Error
}

func (r *repository) Delete(ctx context.Context, row any) error {
	return r.DB(ctx).Delete(row).Error
}

func (r *repository) FindCustomer(ctx context.Context, id uint, lock repo.LockMode) (*models.Customer, error) {
	var customer models.Customer
	if err := r.Query(ctx, lock).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindEmployee(ctx context.Context, id uint, lock repo.LockMode) (*models.Employee, error) {
	var employee models.Employee
	if err := r.Query(ctx, lock).First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repository) FindSupplier(ctx context.Context, id uint, lock repo.LockMode) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.Query(ctx, lock).First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// LockAddress share-locks the address row so it cannot be deleted while a
// party is being pointed at it.
func (r *repository) LockAddress(ctx context.Context, id uint) error {
	var address models.Address
	return r.ForShare(ctx).Select("id").First(&address, id).Error
}

func (r *repository) ListCustomerContacts(ctx context.Context, customerID uint) ([]models.CustomerContact, error) {
	var rows []models.CustomerContact
	if err := r.DB(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListEmployeeContacts(ctx context.Context, employeeID uint) ([]models.EmployeeContact, error) {
	var rows []models.EmployeeContact
	if err := r.DB(ctx).Where("employee_id = ?", employeeID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindCustomerContact(ctx context.Context, customerID, contactID uint) (*models.CustomerContact, error) {
	var contact models.CustomerContact
	if err := r.DB(ctx).
		Where("id = ? AND customer_id = ?", contactID, customerID).
		First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *repository) FindEmployeeContact(ctx context.Context, employeeID, contactID uint) (*models.EmployeeContact, error) {
	var contact models.EmployeeContact
	if err := r.DB(ctx).
		Where("id = ? AND employee_id = ?", contactID, employeeID).
		First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *repository) DeleteCustomerContacts(ctx context.Context, customerID uint) error {
	return r.DB(ctx).Where("customer_id = ?", customerID).Delete(&models.CustomerContact{}).Error
}

func (r *repository) DeleteEmployeeContacts(ctx context.Context, employeeID uint) error {
	return r.DB(ctx).Where("employee_id = ?", employeeID).Delete(&models.EmployeeContact{}).Error
}

func (r *repository) CustomerHasOrders(ctx context.Context, customerID uint) (bool, error) {
	return r.Exists(ctx, &models.Order{}, "customer_id = ?", customerID)
}

// EmployeeHasDependents reports whether the employee handled an order, a
// delivery or a supply receipt.
func (r *repository) EmployeeHasDependents(ctx context.Context, employeeID uint) (bool, error) {
	for _, model := range []any{&models.Order{}, &models.Delivery{}, &models.SupplyReceipt{}} {
		found, err := r.Exists(ctx, model, "employee_id = ?", employeeID)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

func (r *repository) SupplierHasReceipts(ctx context.Context, supplierID uint) (bool, error) {
	return r.Exists(ctx, &models.SupplyReceipt{}, "supplier_id = ?", supplierID)
}
