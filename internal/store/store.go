// Package store is the typed facade over the relational store. It composes
// the read-side joins and the default ordering; business rules live in the
// workflow package, never here.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
)

// Deterministic list order: newest first, ties broken by id.
const defaultOrder = "created_at DESC, id ASC"

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Transact runs fn atomically. Write methods take the tx handle so the
// workflow engine can span several writes with one lock scope.
func (s *Store) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.DB.WithContext(ctx).Transaction(fn)
}

func wrapErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return apperr.Wrap(err, apperr.KindStoreUnavailable, entity+" query failed")
}
