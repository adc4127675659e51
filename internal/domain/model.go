package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is the common base struct for all domain models.
// Identifiers are UUIDs assigned on creation; timestamps are managed by the
// storage layer.
type BaseModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
	Modified time.Time `gorm:"autoUpdateTime" json:"modified"`
}

// BeforeCreate assigns a new identifier when none was set.
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SoftDeletable is implemented by entities that are marked as deleted
// instead of being removed.
type SoftDeletable interface {
	MarkDeleted(at time.Time)
	IsDeleted() bool
}

// SoftDelete carries the nullable deleted_on column.
// It replaces gorm.DeletedAt to avoid implicit query scoping.
type SoftDelete struct {
	DeletedOn *time.Time `gorm:"index" json:"deleted_on,omitempty"`
}

// MarkDeleted stamps the deletion time. The stored value never moves backwards.
func (s *SoftDelete) MarkDeleted(at time.Time) {
	if s.DeletedOn != nil && at.Before(*s.DeletedOn) {
		at = *s.DeletedOn
	}
	s.DeletedOn = &at
}

// IsDeleted reports whether the row has been soft deleted.
func (s *SoftDelete) IsDeleted() bool {
	return s.DeletedOn != nil
}

// PageQuery holds the offset window, filters, and eager-loaded relations of a
// list query. Zero Offset or Limit means unbounded.
type PageQuery struct {
	Offset  int
	Limit   int
	Filters []Filter
	Joins   []string
}

// Repository is the generic data access contract shared by all entities.
// Lookups that match nothing fail with ErrNotFound, including GetPage.
type Repository[T any] interface {
	GetByID(ctx context.Context, id uuid.UUID, joins ...string) (*T, error)
	GetOneByField(ctx context.Context, field string, value any) (*T, error)
	GetOneByFilters(ctx context.Context, filters []Filter, joins ...string) (*T, error)
	GetPage(ctx context.Context, q PageQuery) ([]T, error)
	Count(ctx context.Context, filters []Filter) (int64, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, entity *T) (*T, error)
	DeleteRow(ctx context.Context, entity *T) (*T, error)
	SoftDeleteRow(ctx context.Context, entity *T) (*T, error)
}
