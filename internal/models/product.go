package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Title is unique case-insensitively among
// live rows. Deletion is soft: IsDeleted flips and listings skip it.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
