package models

import (
	"context"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/utils"
	"gorm.io/gorm"
)

// Release is an outgoing-stock ledger entry. PreviousAvailability and
// RemainingAvailability record the supply's availability immediately before
// and after the commit, so audits can replay the balance without summing the
// whole ledger.
type Release struct {
	ID                    int           `gorm:"primary_key" json:"id"`
	Number                string        `gorm:"size:20;uniqueIndex;not null" json:"number"`
	SupplyCode            string        `gorm:"size:20;index;not null" json:"supply_code"`
	SupplyName            string        `gorm:"size:255;not null" json:"supply_name"`
	Quantity              int           `gorm:"not null" json:"quantity"`
	ReceivedBy            string        `gorm:"size:100" json:"received_by"`
	Department            string        `gorm:"size:100" json:"department"`
	Purpose               string        `gorm:"type:text" json:"purpose"`
	Status                ReleaseStatus `gorm:"size:20;not null;default:released" json:"status"`
	PreviousAvailability  int           `gorm:"not null" json:"previous_availability"`
	RemainingAvailability int           `gorm:"not null" json:"remaining_availability"`
	CreatedAt             time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRelease struct {
	SupplyCode string `json:"supply_code" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	ReceivedBy string `json:"received_by" binding:"required"`
	Department string `json:"department" binding:"required"`
	Purpose    string `json:"purpose"`
}

// UpdateReleaseInput: quantity and supply binding are immutable once the
// release exists; only the recipient fields can be corrected.
type UpdateReleaseInput struct {
	ReceivedBy string `json:"received_by" binding:"required"`
	Department string `json:"department" binding:"required"`
	Purpose    string `json:"purpose"`
}

func (s *Store) GetRelease(ctx context.Context, number string) (*Release, error) {
	return utils.FetchModelWhere[Release](ctx, s.db, "number = ?", number)
}

func (s *Store) ListReleases(ctx context.Context, from *time.Time, to *time.Time) ([]*Release, error) {
	var results []*Release

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

// CreateRelease decrements the supply's availability by the released quantity
// in one transaction, leaving quantity untouched. The decrement is a
// compare-and-set against the availability we snapshotted, so the recorded
// previous/remaining pair is exact even under concurrent writers; a CAS miss
// retries the whole operation.
func (s *Store) CreateRelease(ctx context.Context, input *NewRelease) (*Release, error) {

	if input.Quantity <= 0 {
		return nil, utils.ErrorInvalidQuantity
	}

	supply, err := s.GetSupply(ctx, input.SupplyCode)
	if err != nil {
		return nil, err
	}

	releaseLock, err := utils.StockLock(s.locker, supply.Code)
	if err != nil {
		return nil, err
	}
	defer releaseLock()

	var release *Release
	err = s.commitWithRetry(ctx, func(tx *gorm.DB) error {
		supply, err := utils.FetchModelWhere[Supply](ctx, tx, "code = ?", input.SupplyCode)
		if err != nil {
			return err
		}

		previous := supply.Availability
		if input.Quantity > previous {
			return utils.ErrorInsufficientAvailability
		}
		remaining := previous - input.Quantity

		number, err := nextReleaseNumber(tx)
		if err != nil {
			return err
		}

		res := tx.Model(&Supply{}).
			Where("id = ? AND availability = ?", supply.ID, previous).
			Update("Availability", remaining)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// someone else moved the availability under us
			return utils.ErrorConcurrentModification
		}

		release = &Release{
			Number:                number,
			SupplyCode:            supply.Code,
			SupplyName:            supply.Name,
			Quantity:              input.Quantity,
			ReceivedBy:            input.ReceivedBy,
			Department:            input.Department,
			Purpose:               input.Purpose,
			Status:                ReleaseStatusReleased,
			PreviousAvailability:  previous,
			RemainingAvailability: remaining,
		}
		// db action
		return tx.Create(release).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(CollectionReleases, CollectionSupplies)
	return release, nil
}

// UpdateRelease edits recipient fields only; no stock recomputation.
func (s *Store) UpdateRelease(ctx context.Context, number string, input *UpdateReleaseInput) (*Release, error) {

	release, err := s.GetRelease(ctx, number)
	if err != nil {
		return nil, err
	}

	// db action
	err = s.db.WithContext(ctx).Model(&release).Updates(map[string]interface{}{
		"ReceivedBy": input.ReceivedBy,
		"Department": input.Department,
		"Purpose":    input.Purpose,
	}).Error
	if err != nil {
		return nil, err
	}

	s.notify(CollectionReleases)
	return release, nil
}

// DeleteRelease undoes a release, mirroring delivery deletion: availability
// is restored by the released quantity, but never past the supply's owned
// quantity.
func (s *Store) DeleteRelease(ctx context.Context, number string) (*Release, error) {

	release, err := s.GetRelease(ctx, number)
	if err != nil {
		return nil, err
	}

	releaseLock, err := utils.StockLock(s.locker, release.SupplyCode)
	if err != nil {
		return nil, err
	}
	defer releaseLock()

	err = s.commitWithRetry(ctx, func(tx *gorm.DB) error {
		release, err = utils.FetchModelWhere[Release](ctx, tx, "number = ?", number)
		if err != nil {
			return err
		}
		supply, err := utils.FetchModelWhere[Supply](ctx, tx, "code = ?", release.SupplyCode)
		if err != nil {
			return err
		}

		res := tx.Model(&Supply{}).
			Where("id = ? AND availability + ? <= quantity", supply.ID, release.Quantity).
			Update("Availability", gorm.Expr("availability + ?", release.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrorExceedsQuantity
		}

		// db action
		return tx.Delete(&Release{}, release.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(CollectionReleases, CollectionSupplies)
	return release, nil
}
