package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/utils"
)

// SupplyUnit is a reference-collection row backing the unit dropdown on the
// supply forms (piece, box, ream...).
type SupplyUnit struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:50;uniqueIndex;not null" json:"name" binding:"required"`
	Abbreviation string    `gorm:"size:10" json:"abbreviation"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplyUnit struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation"`
}

func (s *Store) CreateSupplyUnit(ctx context.Context, input *NewSupplyUnit) (*SupplyUnit, error) {

	if err := utils.ValidateUnique[SupplyUnit](ctx, s.db, "name", input.Name, 0); err != nil {
		return nil, err
	}

	unit := SupplyUnit{
		Name:         input.Name,
		Abbreviation: input.Abbreviation,
	}

	// db action
	err := s.db.WithContext(ctx).Create(&unit).Error
	if err != nil {
		return nil, err
	}

	s.notify(CollectionUnits)
	return &unit, nil
}

func (s *Store) ListSupplyUnits(ctx context.Context) ([]*SupplyUnit, error) {
	var results []*SupplyUnit
	err := s.db.WithContext(ctx).Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) DeleteSupplyUnit(ctx context.Context, id int) (*SupplyUnit, error) {

	unit, err := utils.FetchSingleModel[SupplyUnit](ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	// keep units referenced by catalog rows
	var count int64
	if err := s.db.WithContext(ctx).Model(&Supply{}).
		Where("unit = ?", unit.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: unit is in use", utils.ErrorValidation)
	}

	// db action
	err = s.db.WithContext(ctx).Delete(&unit).Error
	if err != nil {
		return nil, err
	}

	s.notify(CollectionUnits)
	return unit, nil
}
