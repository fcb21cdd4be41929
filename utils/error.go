package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorValidation marks input errors so the HTTP layer can map them to a
	// 400 without matching message strings. Wrap with fmt.Errorf("%w: ...").
	ErrorValidation = errors.New("invalid input")

	// ErrorInvalidQuantity is returned before any transaction starts when a
	// delivery or release quantity is zero or negative.
	ErrorInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrorInsufficientAvailability is returned when a release asks for more
	// units than the supply currently has available.
	ErrorInsufficientAvailability = errors.New("release quantity exceeds available stock")

	// ErrorNegativeStock is returned when editing or deleting a ledger entry
	// would drive a supply's quantity or availability below zero.
	ErrorNegativeStock = errors.New("stock cannot go below zero")

	// ErrorExceedsQuantity is returned when undoing a release would push
	// availability above the supply's owned quantity.
	ErrorExceedsQuantity = errors.New("availability cannot exceed quantity")

	// ErrorConcurrentModification is returned after bounded retries when a
	// concurrent writer keeps winning the conditional commit.
	ErrorConcurrentModification = errors.New("record was modified concurrently, please retry")
)
