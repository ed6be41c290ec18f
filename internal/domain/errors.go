package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInactiveProduct indicates the product is blacklisted or soft-deleted.
	ErrInactiveProduct = errors.New("product inactive")
	// ErrInsufficientStock indicates a sale asked for more units than are on hand.
	ErrInsufficientStock = errors.New("not enough stock")
	// ErrAlreadyReversed indicates a sale group was reversed twice.
	ErrAlreadyReversed = errors.New("sale already reversed")
)
