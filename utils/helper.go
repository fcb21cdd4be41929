package utils

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
)

// ZeroPad formats n with at least width digits, e.g. ZeroPad(7, 4) = "0007".
// Numbers wider than width are kept as-is, so a sequence can outgrow its pad.
func ZeroPad(n int, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// ParseSequenceSuffix extracts the numeric suffix of a human-readable id such
// as "OFC-0007" or "RLS-00031". Returns 0 and an error for malformed ids so
// callers can skip legacy rows instead of failing the whole allocation.
func ParseSequenceSuffix(id string) (int, error) {
	idx := strings.LastIndex(id, "-")
	if idx < 0 || idx == len(id)-1 {
		return 0, errors.New("id has no numeric suffix: " + id)
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0, errors.New("id has no numeric suffix: " + id)
	}
	return n, nil
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			errorResponse[field] = field + " is required"
		case "gt":
			errorResponse[field] = field + " must be greater than " + fieldError.Param()
		case "oneof":
			errorResponse[field] = field + " must be one of: " + fieldError.Param()
		default:
			errorResponse[field] = field + " is invalid"
		}
	}
	return errorResponse
}

// StockLock serializes stock-affecting commits across processes when a redis
// lock client is configured. With a nil locker (single-node deploys, tests)
// the database's conditional commits are the only guard.
func StockLock(locker *redislock.Client, supplyCode string) (func(), error) {
	if locker == nil {
		return func() {}, nil
	}
	lockKey := fmt.Sprintf("stockLock:%s", supplyCode)
	ctx := context.Background()
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		return nil, ErrorConcurrentModification
	} else if err != nil {
		return nil, err
	}
	return func() {
		_ = lock.Release(ctx)
	}, nil
}
