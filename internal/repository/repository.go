package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotActive is returned when a conditional close matched no ACTIVE row
var ErrNotActive = errors.New("staking position is not active")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// IsNotFound reports whether err is gorm's missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
