package models

import (
	"time"

	"github.com/dulcismaison/dulcis-backend/pkg/enums"
)

type Customer struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:100;not null"`
	AddressID *uint     `gorm:"column:address_id;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CustomerContact is one phone number of a customer; removed with its owner.
type CustomerContact struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	CustomerID uint      `gorm:"column:customer_id;not null;index"`
	Phone      string    `gorm:"column:phone;size:20;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Employee struct {
	ID          uint               `gorm:"column:id;primaryKey"`
	Name        string             `gorm:"column:name;size:100;not null"`
	Age         int                `gorm:"column:age;not null;default:0"`
	CivilStatus *enums.CivilStatus `gorm:"column:civil_status;size:20"`
	AddressID   *uint              `gorm:"column:address_id;index"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// EmployeeContact is one phone number of an employee; removed with its owner.
type EmployeeContact struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	EmployeeID uint      `gorm:"column:employee_id;not null;index"`
	Phone      string    `gorm:"column:phone;size:20;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

type Supplier struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:100;not null"`
	Contact   string    `gorm:"column:contact;size:20"`
	AddressID *uint     `gorm:"column:address_id;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
