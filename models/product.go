package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product model corresponds to the 'products' table in the database.
type Product struct {
	Id          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null" json:"stock"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CategoryID  uint            `json:"category_id"`
	Category    Category        `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Category struct {
	Id          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
