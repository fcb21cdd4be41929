package models

import (
	"context"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/utils"
	"gorm.io/gorm"
)

// Delivery is an incoming-stock ledger entry. SupplyName and Classification
// are audit snapshots taken at commit time; they never change when the supply
// is later renamed or reclassified.
type Delivery struct {
	ID             int       `gorm:"primary_key" json:"id"`
	Number         string    `gorm:"size:20;uniqueIndex;not null" json:"number"`
	SupplyCode     string    `gorm:"size:20;index;not null" json:"supply_code"`
	SupplyName     string    `gorm:"size:255;not null" json:"supply_name"`
	Classification string    `gorm:"size:100" json:"classification"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	DeliveredBy    string    `gorm:"size:100" json:"delivered_by"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDelivery struct {
	SupplyCode     string `json:"supply_code" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,gt=0"`
	DeliveredBy    string `json:"delivered_by" binding:"required"`
	Notes          string `json:"notes"`
	Classification string `json:"classification"`
}

// UpdateDeliveryInput carries the editable fields. The supply binding is
// immutable once the entry exists; move mistakes are fixed by delete + new
// delivery.
type UpdateDeliveryInput struct {
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	DeliveredBy string `json:"delivered_by" binding:"required"`
	Notes       string `json:"notes"`
}

func (s *Store) GetDelivery(ctx context.Context, number string) (*Delivery, error) {
	return utils.FetchModelWhere[Delivery](ctx, s.db, "number = ?", number)
}

func (s *Store) ListDeliveries(ctx context.Context, from *time.Time, to *time.Time) ([]*Delivery, error) {
	var results []*Delivery

	dbCtx := s.db.WithContext(ctx)
	if from != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *from)
	}
	if to != nil {
		dbCtx = dbCtx.Where("created_at < ?", *to)
	}
	// db query
	err := dbCtx.Order("created_at DESC, id DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CreateDelivery commits the ledger entry and the stock increment as one
// transaction: both supply fields grow by the delivered quantity, and a
// non-placeholder classification on the delivery is adopted onto the supply.
func (s *Store) CreateDelivery(ctx context.Context, input *NewDelivery) (*Delivery, error) {

	if input.Quantity <= 0 {
		return nil, utils.ErrorInvalidQuantity
	}

	// supply must exist before we touch the ledger
	supply, err := s.GetSupply(ctx, input.SupplyCode)
	if err != nil {
		return nil, err
	}

	release, err := utils.StockLock(s.locker, supply.Code)
	if err != nil {
		return nil, err
	}
	defer release()

	var delivery *Delivery
	err = s.commitWithRetry(ctx, func(tx *gorm.DB) error {
		supply, err := utils.FetchModelWhere[Supply](ctx, tx, "code = ?", input.SupplyCode)
		if err != nil {
			return err
		}

		number, err := nextDeliveryNumber(tx)
		if err != nil {
			return err
		}

		if err := applySupplyDelta(tx, supply.ID, input.Quantity, input.Quantity); err != nil {
			return err
		}

		classification := supply.Classification
		if input.Classification != "" && input.Classification != ClassificationNone {
			classification = input.Classification
			if classification != supply.Classification {
				if err := tx.Model(&Supply{}).Where("id = ?", supply.ID).
					Update("Classification", classification).Error; err != nil {
					return err
				}
			}
		}

		delivery = &Delivery{
			Number:         number,
			SupplyCode:     supply.Code,
			SupplyName:     supply.Name,
			Classification: classification,
			Quantity:       input.Quantity,
			DeliveredBy:    input.DeliveredBy,
			Notes:          input.Notes,
		}
		// db action
		return tx.Create(delivery).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(CollectionDeliveries, CollectionSupplies)
	return delivery, nil
}

// UpdateDelivery applies the quantity delta (new - old) to BOTH the supply's
// quantity and availability, keeping edits consistent with create and delete.
func (s *Store) UpdateDelivery(ctx context.Context, number string, input *UpdateDeliveryInput) (*Delivery, error) {

	if input.Quantity <= 0 {
		return nil, utils.ErrorInvalidQuantity
	}

	delivery, err := s.GetDelivery(ctx, number)
	if err != nil {
		return nil, err
	}

	release, err := utils.StockLock(s.locker, delivery.SupplyCode)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.commitWithRetry(ctx, func(tx *gorm.DB) error {
		delivery, err = utils.FetchModelWhere[Delivery](ctx, tx, "number = ?", number)
		if err != nil {
			return err
		}
		supply, err := utils.FetchModelWhere[Supply](ctx, tx, "code = ?", delivery.SupplyCode)
		if err != nil {
			return err
		}

		delta := input.Quantity - delivery.Quantity
		if delta != 0 {
			if err := applySupplyDelta(tx, supply.ID, delta, delta); err != nil {
				return err
			}
		}

		// db action
		return tx.Model(&delivery).Updates(map[string]interface{}{
			"Quantity":    input.Quantity,
			"DeliveredBy": input.DeliveredBy,
			"Notes":       input.Notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(CollectionDeliveries, CollectionSupplies)
	return delivery, nil
}

// DeleteDelivery backs the delivered quantity out of both supply fields and
// removes the ledger entry. Fails with ErrorNegativeStock when the stock has
// already been released; conflicting releases must be resolved first.
func (s *Store) DeleteDelivery(ctx context.Context, number string) (*Delivery, error) {

	delivery, err := s.GetDelivery(ctx, number)
	if err != nil {
		return nil, err
	}

	release, err := utils.StockLock(s.locker, delivery.SupplyCode)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.commitWithRetry(ctx, func(tx *gorm.DB) error {
		delivery, err = utils.FetchModelWhere[Delivery](ctx, tx, "number = ?", number)
		if err != nil {
			return err
		}
		supply, err := utils.FetchModelWhere[Supply](ctx, tx, "code = ?", delivery.SupplyCode)
		if err != nil {
			return err
		}

		if err := applySupplyDelta(tx, supply.ID, -delivery.Quantity, -delivery.Quantity); err != nil {
			return err
		}

		// db action
		return tx.Delete(&Delivery{}, delivery.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(CollectionDeliveries, CollectionSupplies)
	return delivery, nil
}
