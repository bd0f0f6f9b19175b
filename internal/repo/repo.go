package repo

import (
	"context"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

// Transact runs fn inside one database transaction. fn receives a repo
// bound to the transaction handle; returning an error rolls everything
// back.
func (r *GormRepo) Transact(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}
