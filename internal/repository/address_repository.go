package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/food-ordering/internal/model"
)

type AddressRepository interface {
	GetByID(ctx context.Context, id string) (*model.Address, error)
}

type addressRepository struct{ db *gorm.DB }

func NewAddressRepository(db *gorm.DB) AddressRepository { return &addressRepository{db: db} }

func (r *addressRepository) GetByID(ctx context.Context, id string) (*model.Address, error) {
	var address model.Address
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}
