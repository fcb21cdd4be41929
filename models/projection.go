package models

import (
	"context"
	"time"
)

// Read-only tabular projections for the reporting layer. Rows are plain
// records; date filtering and file rendering are the consumer's business.

type SupplyRow struct {
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Unit           string    `json:"unit"`
	Cluster        Cluster   `json:"cluster"`
	Classification string    `json:"classification"`
	Quantity       int       `json:"quantity"`
	Availability   int       `json:"availability"`
	DateAdded      time.Time `json:"date_added"`
	DateUpdated    time.Time `json:"date_updated"`
}

type DeliveryRow struct {
	Number         string    `json:"number"`
	SupplyCode     string    `json:"supply_code"`
	SupplyName     string    `json:"supply_name"`
	Classification string    `json:"classification"`
	Quantity       int       `json:"quantity"`
	DeliveredBy    string    `json:"delivered_by"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReleaseRow struct {
	Number                string    `json:"number"`
	SupplyCode            string    `json:"supply_code"`
	SupplyName            string    `json:"supply_name"`
	Quantity              int       `json:"quantity"`
	ReceivedBy            string    `json:"received_by"`
	Department            string    `json:"department"`
	Purpose               string    `json:"purpose"`
	Status                ReleaseStatus `json:"status"`
	PreviousAvailability  int       `json:"previous_availability"`
	RemainingAvailability int       `json:"remaining_availability"`
	CreatedAt             time.Time `json:"created_at"`
}

func (s *Store) SupplyRows(ctx context.Context) ([]*SupplyRow, error) {
	var rows []*SupplyRow
	err := s.db.WithContext(ctx).Model(&Supply{}).
		Order("code").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) DeliveryRows(ctx context.Context, from *time.Time, to *time.Time) ([]*DeliveryRow, error) {
	dbCtx := s.db.WithContext(ctx).Model(&Delivery{})
	if from != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *from)
	}
	if to != nil {
		dbCtx = dbCtx.Where("created_at < ?", *to)
	}
	var rows []*DeliveryRow
	err := dbCtx.Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ReleaseRows(ctx context.Context, from *time.Time, to *time.Time) ([]*ReleaseRow, error) {
	dbCtx := s.db.WithContext(ctx).Model(&Release{})
	if from != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *from)
	}
	if to != nil {
		dbCtx = dbCtx.Where("created_at < ?", *to)
	}
	var rows []*ReleaseRow
	err := dbCtx.Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
