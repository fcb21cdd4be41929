package models

import (
	"context"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/utils"
)

// Classification is a reference-collection row for the free-form tag on
// supplies and delivery snapshots.
type Classification struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClassification struct {
	Name string `json:"name" binding:"required"`
}

func (s *Store) CreateClassification(ctx context.Context, input *NewClassification) (*Classification, error) {

	if err := utils.ValidateUnique[Classification](ctx, s.db, "name", input.Name, 0); err != nil {
		return nil, err
	}

	classification := Classification{
		Name: input.Name,
	}

	// db action
	err := s.db.WithContext(ctx).Create(&classification).Error
	if err != nil {
		return nil, err
	}

	s.notify(CollectionClassifications)
	return &classification, nil
}

func (s *Store) ListClassifications(ctx context.Context) ([]*Classification, error) {
	var results []*Classification
	err := s.db.WithContext(ctx).Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) DeleteClassification(ctx context.Context, id int) (*Classification, error) {

	classification, err := utils.FetchSingleModel[Classification](ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	// db action
	err = s.db.WithContext(ctx).Delete(&classification).Error
	if err != nil {
		return nil, err
	}

	s.notify(CollectionClassifications)
	return classification, nil
}
