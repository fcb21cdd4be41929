package models

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/gsosupply/inventory_backend/utils"
	"gorm.io/gorm"
)

func TestCommitWithRetryConvergesAfterLostAttempts(t *testing.T) {
	store := newTestStore(t)

	// Lose once to a duplicate key and once to a CAS miss, then win.
	attempts := 0
	err := store.commitWithRetry(context.Background(), func(tx *gorm.DB) error {
		attempts++
		switch attempts {
		case 1:
			return gorm.ErrDuplicatedKey
		case 2:
			return utils.ErrorConcurrentModification
		default:
			return nil
		}
	})
	if err != nil {
		t.Fatalf("commitWithRetry: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestCommitWithRetryExhaustionMapsDuplicateKeys(t *testing.T) {
	store := newTestStore(t)

	attempts := 0
	err := store.commitWithRetry(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return gorm.ErrDuplicatedKey
	})
	if !errors.Is(err, utils.ErrorConcurrentModification) {
		t.Fatalf("expected ErrorConcurrentModification after exhausted retries, got %v", err)
	}
	if attempts != maxCommitRetries {
		t.Fatalf("expected %d attempts, got %d", maxCommitRetries, attempts)
	}
}

func TestCommitWithRetryExhaustionKeepsConflictError(t *testing.T) {
	store := newTestStore(t)

	err := store.commitWithRetry(context.Background(), func(tx *gorm.DB) error {
		return utils.ErrorConcurrentModification
	})
	if !errors.Is(err, utils.ErrorConcurrentModification) {
		t.Fatalf("expected ErrorConcurrentModification, got %v", err)
	}
}

func TestCommitWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	store := newTestStore(t)

	attempts := 0
	err := store.commitWithRetry(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return utils.ErrorInvalidQuantity
	})
	if !errors.Is(err, utils.ErrorInvalidQuantity) {
		t.Fatalf("expected ErrorInvalidQuantity, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}
