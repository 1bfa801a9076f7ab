package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInsufficientFunds covers both a bid short of settlement currency and
	// an ask short of the asset.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientQuantity rejects a cancel that asks for more than rests.
	ErrInsufficientQuantity = errors.New("insufficient resting quantity")
	ErrOrderNotFound        = errors.New("order not found")
)
