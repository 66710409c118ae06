package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidProductID  = errors.New("invalid product id")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrCountryRequired   = errors.New("country is required")
	ErrUnknownRole       = errors.New("unknown role")
	ErrReconcileRunning  = errors.New("profit reconcile already running")
	ErrInvalidPagination = errors.New("invalid pagination")
)
