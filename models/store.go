package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/gsosupply/inventory_backend/utils"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxCommitRetries bounds the optimistic-concurrency retry loop. Conditional
// commits that keep losing (availability CAS misses, id allocation races)
// surface as ErrorConcurrentModification after this many attempts.
const maxCommitRetries = 3

// Store owns all reads and writes against the supply catalog and both
// ledgers. It is constructed once in main() and passed to every consumer;
// there is no package-level database handle.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
	locker *redislock.Client
	feed   *ChangeFeed
}

func NewStore(db *gorm.DB, logger *logrus.Logger, locker *redislock.Client, feed *ChangeFeed) *Store {
	return &Store{db: db, logger: logger, locker: locker, feed: feed}
}

// DB exposes the handle for read-only consumers (reports).
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Feed() *ChangeFeed {
	return s.feed
}

func (s *Store) Logger() *logrus.Logger {
	return s.logger
}

func (s *Store) notify(collections ...Collection) {
	if s.feed != nil {
		s.feed.Notify(collections...)
	}
}

// commitWithRetry runs fn in a transaction, retrying the WHOLE operation on
// optimistic-concurrency conflicts: a compare-and-set miss inside fn or a
// duplicate human-readable number at insert (two writers allocated the same
// next id; the unique index rejects the loser).
func (s *Store) commitWithRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, utils.ErrorConcurrentModification) || errors.Is(err, gorm.ErrDuplicatedKey) {
			time.Sleep(time.Duration(attempt+1) * 25 * time.Millisecond)
			continue
		}
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrorConcurrentModification
	}
	return err
}

// applySupplyDelta commits both stock fields together, guarded so neither
// can go below zero. The WHERE clause makes the floor check and the update a
// single atomic statement, so no concurrent writer can slip between them.
func applySupplyDelta(tx *gorm.DB, supplyId int, quantityDelta int, availabilityDelta int) error {
	res := tx.Model(&Supply{}).
		Where("id = ? AND quantity + ? >= 0 AND availability + ? >= 0",
			supplyId, quantityDelta, availabilityDelta).
		Updates(map[string]interface{}{
			"Quantity":     gorm.Expr("quantity + ?", quantityDelta),
			"Availability": gorm.Expr("availability + ?", availabilityDelta),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the supply is gone or a floor would be crossed.
		var count int64
		if err := tx.Model(&Supply{}).Where("id = ?", supplyId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return utils.ErrorRecordNotFound
		}
		return utils.ErrorNegativeStock
	}
	return nil
}
