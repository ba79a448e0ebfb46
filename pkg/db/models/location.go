package models

import "time"

// Barangay is the top of the location hierarchy.
type Barangay struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:100;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Street belongs to exactly one Barangay.
type Street struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name;size:100;not null"`
	BarangayID uint      `gorm:"column:barangay_id;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Address belongs to exactly one Street.
type Address struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	Description string    `gorm:"column:description;size:200;not null"`
	StreetID    uint      `gorm:"column:street_id;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
