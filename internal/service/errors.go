package service

import "errors"

var (
	ErrValidation  = errors.New("validation")       // 400
	ErrEmptyCart   = errors.New("empty cart")       // 400
	ErrNotFound    = errors.New("not found")        // 404
	ErrOutOfStock  = errors.New("out of stock")     // 409
	ErrPayment     = errors.New("payment declined") // 402
	ErrPersistence = errors.New("persistence")      // 500
)
