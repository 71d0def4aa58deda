// Package repository provides a small generic gorm store shared by the
// feature services.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Scope narrows a query before execution (ordering, limits, extra clauses).
type Scope func(*gorm.DB) *gorm.DB

// Repository is the persistence surface services depend on. Filters are
// struct-valued: zero fields are ignored, matching gorm's query-by-example
// semantics.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	CreateAll(ctx context.Context, records []*T) error
	Find(ctx context.Context, filter *T, scopes ...Scope) ([]*T, error)
	FindOne(ctx context.Context, filter *T, scopes ...Scope) (*T, error)
	Updates(ctx context.Context, filter *T, values map[string]any) (int64, error)
	Delete(ctx context.Context, filter *T) error
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository bound to the given gorm handle.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) CreateAll(ctx context.Context, records []*T) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(records).Error
}

func (s *store[T]) Find(ctx context.Context, filter *T, scopes ...Scope) ([]*T, error) {
	query := s.db.WithContext(ctx)
	if filter != nil {
		query = query.Where(filter)
	}
	for _, scope := range scopes {
		query = scope(query)
	}
	var records []*T
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store[T]) FindOne(ctx context.Context, filter *T, scopes ...Scope) (*T, error) {
	query := s.db.WithContext(ctx)
	if filter != nil {
		query = query.Where(filter)
	}
	for _, scope := range scopes {
		query = scope(query)
	}
	var record T
	err := query.First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Updates(ctx context.Context, filter *T, values map[string]any) (int64, error) {
	var model T
	result := s.db.WithContext(ctx).Model(&model).Where(filter).Updates(values)
	return result.RowsAffected, result.Error
}

func (s *store[T]) Delete(ctx context.Context, filter *T) error {
	var model T
	return s.db.WithContext(ctx).Where(filter).Delete(&model).Error
}

// OrderBy returns a scope applying a fixed ORDER BY clause.
func OrderBy(clause string) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Order(clause) }
}

// Limit returns a scope capping the result set.
func Limit(n int) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Limit(n) }
}
