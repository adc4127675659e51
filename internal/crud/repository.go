package crud

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// Repository implements domain.Repository[T] on GORM using a Schema for
// filter resolution. It never caches rows.
type Repository[T any] struct {
	db     *gorm.DB
	schema *Schema
	now    func() time.Time
}

var _ domain.Repository[struct{}] = (*Repository[struct{}])(nil)

// Option configures a Repository.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for soft delete timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates a Repository for T backed by db.
// Panics if db or schema is nil.
func New[T any](db *gorm.DB, schema *Schema, opts ...Option) *Repository[T] {
	if db == nil {
		panic("crud.New: db must not be nil")
	}
	if schema == nil {
		panic("crud.New: schema must not be nil")
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T]{db: db, schema: schema, now: o.now}
}

// WithTx returns the same repository bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	clone := *r
	clone.db = tx
	return &clone
}

// GetByID retrieves a row by its identifier, eager loading joins.
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID, joins ...string) (*T, error) {
	tx, err := r.preload(r.db.WithContext(ctx), joins)
	if err != nil {
		return nil, err
	}

	var entity T
	if err := tx.Where(clause.Eq{Column: r.schema.idColumn(), Value: id}).Take(&entity).Error; err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

// GetOneByField retrieves the first row whose field equals value.
func (r *Repository[T]) GetOneByField(ctx context.Context, field string, value any) (*T, error) {
	return r.GetOneByFilters(ctx, []domain.Filter{domain.Eq(field, value)})
}

// GetOneByFilters retrieves the first row matching all filters.
func (r *Repository[T]) GetOneByFilters(ctx context.Context, filters []domain.Filter, joins ...string) (*T, error) {
	tx, joined, err := r.filtered(ctx, filters)
	if err != nil {
		return nil, err
	}
	if tx, err = r.preload(tx, joins); err != nil {
		return nil, err
	}
	if joined {
		tx = tx.Distinct(r.schema.Table + ".*")
	}

	var entity T
	if err := tx.Order(clause.OrderByColumn{Column: r.schema.idColumn()}).Take(&entity).Error; err != nil {
		return nil, mapError(err)
	}
	return &entity, nil
}

// GetPage returns the rows matching all filters ordered by identifier,
// skipping Offset rows and returning at most Limit rows. An empty page
// fails with domain.ErrNotFound.
func (r *Repository[T]) GetPage(ctx context.Context, q domain.PageQuery) ([]T, error) {
	tx, joined, err := r.filtered(ctx, q.Filters)
	if err != nil {
		return nil, err
	}
	if tx, err = r.preload(tx, q.Joins); err != nil {
		return nil, err
	}
	if joined {
		tx = tx.Distinct(r.schema.Table + ".*")
	}

	tx = tx.Order(clause.OrderByColumn{Column: r.schema.idColumn()})
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var items []T
	if err := tx.Find(&items).Error; err != nil {
		return nil, mapError(err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNotFound
	}
	return items, nil
}

// Count returns the number of distinct rows matching all filters.
// It applies exactly the predicates and joins of GetPage.
func (r *Repository[T]) Count(ctx context.Context, filters []domain.Filter) (int64, error) {
	tx, joined, err := r.filtered(ctx, filters)
	if err != nil {
		return 0, err
	}
	if joined {
		id := r.schema.idColumn()
		tx = tx.Distinct(id.Table + "." + id.Name)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// Create inserts entity. Associations are not written.
func (r *Repository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	err := Transaction(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return entity, nil
}

// Update writes the full state of entity and reloads it from storage.
// Associations are not written.
func (r *Repository[T]) Update(ctx context.Context, entity *T) (*T, error) {
	err := Transaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(entity).Error; err != nil {
			return err
		}
		return tx.Take(entity).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return entity, nil
}

// DeleteRow removes entity together with its owned associations and
// returns the detached value.
func (r *Repository[T]) DeleteRow(ctx context.Context, entity *T) (*T, error) {
	err := Transaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Select(clause.Associations).Delete(entity)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return entity, nil
}

// SoftDeleteRow stamps deleted_on and updates the row. The entity type must
// implement domain.SoftDeletable.
func (r *Repository[T]) SoftDeleteRow(ctx context.Context, entity *T) (*T, error) {
	target, ok := any(entity).(domain.SoftDeletable)
	if !ok {
		return nil, domain.NewAppError(domain.CodeUnsupported,
			fmt.Sprintf("soft delete is not supported by %s", r.schema.Table), domain.ErrUnsupported)
	}
	target.MarkDeleted(r.now())
	return r.Update(ctx, entity)
}

// filtered starts a query on T with the compiled filters applied.
// joined reports whether any relation was joined.
func (r *Repository[T]) filtered(ctx context.Context, filters []domain.Filter) (*gorm.DB, bool, error) {
	compiled, err := Compile(r.schema, filters)
	if err != nil {
		return nil, false, err
	}

	tx := r.db.WithContext(ctx).Model(new(T))
	for _, rel := range compiled.Joins {
		tx = tx.Joins(rel.joinSQL(r.schema))
	}
	if len(compiled.Exprs) > 0 {
		tx = tx.Where(clause.And(compiled.Exprs...))
	}
	return tx, len(compiled.Joins) > 0, nil
}

// preload validates relation names and eager loads them.
func (r *Repository[T]) preload(tx *gorm.DB, joins []string) (*gorm.DB, error) {
	for _, name := range joins {
		rel, ok := r.schema.relation(name)
		if !ok {
			return nil, invalidArgument(fmt.Errorf("%w %q on %s", ErrUnknownRelation, name, r.schema.Table))
		}
		tx = tx.Preload(rel.Association)
	}
	return tx, nil
}
