package models

import (
	"bitbucket.org/gsosupply/inventory_backend/utils"
	"gorm.io/gorm"
)

const (
	supplyCodeWidth     = 4
	deliveryNumberWidth = 4
	releaseNumberWidth  = 5

	deliveryNumberPrefix = "DLV"
	releaseNumberPrefix  = "RLS"
)

// nextSupplyCode allocates the next supply code within a cluster using the
// gap-filling strategy: catalog numbering stays dense even after deletes.
// Must run inside the same transaction as the insert it backs; the unique
// index on supplies.code forces the loser of a race to retry.
func nextSupplyCode(tx *gorm.DB, cluster Cluster) (string, error) {
	var codes []string
	if err := tx.Model(&Supply{}).
		Where("cluster = ?", cluster).
		Pluck("code", &codes).Error; err != nil {
		return "", err
	}

	used := make(map[int]bool, len(codes))
	for _, code := range codes {
		if n, err := utils.ParseSequenceSuffix(code); err == nil {
			used[n] = true
		}
	}
	next := 1
	for used[next] {
		next++
	}
	return string(cluster) + "-" + utils.ZeroPad(next, supplyCodeWidth), nil
}

// nextLedgerNumber allocates the next globally-sequential transaction number
// using the last-plus-one strategy: gaps left by deleted deliveries are
// acceptable audit artifacts and numbers never repeat out of order.
// The LENGTH ordering keeps the scan correct once a sequence outgrows its
// zero padding.
func nextLedgerNumber(tx *gorm.DB, model interface{}, prefix string, width int) (string, error) {
	var numbers []string
	if err := tx.Model(model).
		Where("number LIKE ?", prefix+"-%").
		Order("LENGTH(number) DESC, number DESC").
		Limit(1).
		Pluck("number", &numbers).Error; err != nil {
		return "", err
	}

	last := 0
	if len(numbers) > 0 {
		n, err := utils.ParseSequenceSuffix(numbers[0])
		if err != nil {
			return "", err
		}
		last = n
	}
	return prefix + "-" + utils.ZeroPad(last+1, width), nil
}

func nextDeliveryNumber(tx *gorm.DB) (string, error) {
	return nextLedgerNumber(tx, &Delivery{}, deliveryNumberPrefix, deliveryNumberWidth)
}

func nextReleaseNumber(tx *gorm.DB) (string, error) {
	return nextLedgerNumber(tx, &Release{}, releaseNumberPrefix, releaseNumberWidth)
}
