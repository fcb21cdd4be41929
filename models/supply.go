package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/utils"
	"gorm.io/gorm"
)

// ClassificationNone is the placeholder the delivery forms send when no
// classification applies; it never overwrites a supply's classification.
const ClassificationNone = "N/A"

type Supply struct {
	ID             int       `gorm:"primary_key" json:"id"`
	Code           string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name           string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Unit           string    `gorm:"size:50;not null" json:"unit" binding:"required"`
	Cluster        Cluster   `gorm:"size:10;index;not null" json:"cluster" binding:"required"`
	Classification string    `gorm:"size:100" json:"classification"`
	ImageUrl       string    `gorm:"size:512" json:"image_url"`
	Quantity       int       `gorm:"not null;default:0" json:"quantity"`
	Availability   int       `gorm:"not null;default:0" json:"availability"`
	DateAdded      time.Time `gorm:"autoCreateTime" json:"date_added"`
	DateUpdated    time.Time `gorm:"autoUpdateTime" json:"date_updated"`
}

type NewSupply struct {
	Name           string  `json:"name" binding:"required"`
	Unit           string  `json:"unit" binding:"required"`
	Cluster        Cluster `json:"cluster" binding:"required"`
	Classification string  `json:"classification"`
	ImageUrl       string  `json:"image_url"`
	Quantity       int     `json:"quantity" binding:"min=0"`
}

// validate input for both create & update. (id = 0 for create)

func (input *NewSupply) validate(ctx context.Context, db *gorm.DB, id int) error {
	if !input.Cluster.IsValid() {
		return fmt.Errorf("%w: unknown cluster %q", utils.ErrorValidation, input.Cluster)
	}
	if input.Quantity < 0 {
		return utils.ErrorInvalidQuantity
	}
	// same name within the cluster would confuse the catalog
	var count int64
	dbCtx := db.WithContext(ctx).Model(&Supply{}).
		Where("cluster = ? AND name = ?", input.Cluster, strings.TrimSpace(input.Name))
	if id != 0 {
		dbCtx = dbCtx.Where("NOT id = ?", id)
	}
	if err := dbCtx.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: duplicate name in cluster", utils.ErrorValidation)
	}
	return nil
}

func (s *Store) GetSupply(ctx context.Context, code string) (*Supply, error) {
	return utils.FetchModelWhere[Supply](ctx, s.db, "code = ?", code)
}

func (s *Store) ListSupplies(ctx context.Context, name *string, cluster *Cluster) ([]*Supply, error) {
	var results []*Supply

	dbCtx := s.db.WithContext(ctx)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if cluster != nil && len(*cluster) > 0 {
		dbCtx = dbCtx.Where("cluster = ?", *cluster)
	}
	// db query
	err := dbCtx.Order("code").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CreateSupply allocates the next free code in the cluster and inserts the
// record in one transaction. Availability starts equal to quantity.
func (s *Store) CreateSupply(ctx context.Context, input *NewSupply) (*Supply, error) {

	if err := input.validate(ctx, s.db, 0); err != nil {
		return nil, err
	}

	var supply *Supply
	err := s.commitWithRetry(ctx, func(tx *gorm.DB) error {
		code, err := nextSupplyCode(tx, input.Cluster)
		if err != nil {
			return err
		}
		supply = &Supply{
			Code:           code,
			Name:           strings.TrimSpace(input.Name),
			Unit:           input.Unit,
			Cluster:        input.Cluster,
			Classification: input.Classification,
			ImageUrl:       input.ImageUrl,
			Quantity:       input.Quantity,
			Availability:   input.Quantity,
		}
		// db action
		return tx.Create(supply).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(CollectionSupplies)
	return supply, nil
}

// UpdateSupply edits catalog fields in place. A direct quantity edit resets
// availability to the new quantity, decoupling both from the ledgers until
// the next recount. A cluster change is a move: a fresh code is minted in the
// target cluster, the record is copied over and the old row deleted, all
// inside one transaction.
func (s *Store) UpdateSupply(ctx context.Context, code string, input *NewSupply) (*Supply, error) {

	supply, err := s.GetSupply(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, s.db, supply.ID); err != nil {
		return nil, err
	}

	if input.Cluster != supply.Cluster {
		moved, err := s.moveSupply(ctx, supply, input)
		if err != nil {
			return nil, err
		}
		s.notify(CollectionSupplies)
		return moved, nil
	}

	updates := map[string]interface{}{
		"Name":           strings.TrimSpace(input.Name),
		"Unit":           input.Unit,
		"Classification": input.Classification,
		"ImageUrl":       input.ImageUrl,
	}
	if input.Quantity != supply.Quantity {
		updates["Quantity"] = input.Quantity
		updates["Availability"] = input.Quantity
	}

	// db action
	err = s.db.WithContext(ctx).Model(&supply).Updates(updates).Error
	if err != nil {
		return nil, err
	}

	s.notify(CollectionSupplies)
	return supply, nil
}

func (s *Store) moveSupply(ctx context.Context, supply *Supply, input *NewSupply) (*Supply, error) {
	var moved *Supply
	err := s.commitWithRetry(ctx, func(tx *gorm.DB) error {
		code, err := nextSupplyCode(tx, input.Cluster)
		if err != nil {
			return err
		}
		quantity := supply.Quantity
		availability := supply.Availability
		if input.Quantity != supply.Quantity {
			quantity = input.Quantity
			availability = input.Quantity
		}
		moved = &Supply{
			Code:           code,
			Name:           strings.TrimSpace(input.Name),
			Unit:           input.Unit,
			Cluster:        input.Cluster,
			Classification: input.Classification,
			ImageUrl:       input.ImageUrl,
			Quantity:       quantity,
			Availability:   availability,
			// keep the original catalog date; only the code is new
			DateAdded: supply.DateAdded,
		}
		if err := tx.Create(moved).Error; err != nil {
			return err
		}
		return tx.Delete(&Supply{}, supply.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// SetSupplyImage points the catalog record at a freshly uploaded image and
// returns the previous url so the caller can clean up the old object.
func (s *Store) SetSupplyImage(ctx context.Context, code string, imageUrl string) (string, error) {

	supply, err := s.GetSupply(ctx, code)
	if err != nil {
		return "", err
	}
	previous := supply.ImageUrl

	// db action
	err = s.db.WithContext(ctx).Model(&supply).Update("ImageUrl", imageUrl).Error
	if err != nil {
		return "", err
	}

	s.notify(CollectionSupplies)
	return previous, nil
}

// DeleteSupply removes the catalog record only. Ledger entries keep their
// snapshot fields and a now-dangling supply code; history stays intact.
func (s *Store) DeleteSupply(ctx context.Context, code string) (*Supply, error) {

	supply, err := s.GetSupply(ctx, code)
	if err != nil {
		return nil, err
	}

	// db action
	err = s.db.WithContext(ctx).Delete(&supply).Error
	if err != nil {
		return nil, err
	}

	s.notify(CollectionSupplies)
	return supply, nil
}
