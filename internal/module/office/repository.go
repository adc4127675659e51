package office

import (
	"context"

	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/crud"
	"github.com/n0nuser/gin-archetype/internal/domain"
)

const relAddress = "address"

var (
	addressSchema = &crud.Schema{
		Table: "office_addresses",
		Fields: map[string]string{
			"id":              "id",
			"office_id":       "office_id",
			"line":            "line",
			"street_name":     "street_name",
			"building_number": "building_number",
			"stair":           "stair",
			"floor":           "floor",
			"door_number":     "door_number",
			"postal_code":     "postal_code",
			"province":        "province",
			"country":         "country",
			"deleted_on":      "deleted_on",
		},
	}
	officeSchema = &crud.Schema{
		Table: "offices",
		Fields: map[string]string{
			"id":         "id",
			"name":       "name",
			"deleted_on": "deleted_on",
			"created":    "created",
			"modified":   "modified",
		},
		Relations: map[string]*crud.Relation{
			relAddress: {Association: "Address", Target: addressSchema, ForeignKey: "office_id"},
		},
	}
)

// store implements domain.OfficeStore using GORM.
type store struct {
	db        *gorm.DB
	offices   *crud.Repository[domain.Office]
	addresses *crud.Repository[domain.OfficeAddress]
}

// NewOfficeStore creates an OfficeStore backed by the given GORM database.
func NewOfficeStore(db *gorm.DB, opts ...crud.Option) domain.OfficeStore {
	return &store{
		db:        db,
		offices:   crud.New[domain.Office](db, officeSchema, opts...),
		addresses: crud.New[domain.OfficeAddress](db, addressSchema, opts...),
	}
}

func (s *store) Offices() domain.Repository[domain.Office] { return s.offices }

func (s *store) Addresses() domain.Repository[domain.OfficeAddress] { return s.addresses }

func (s *store) Atomic(ctx context.Context, fn func(domain.OfficeStore) error) error {
	return crud.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		return fn(&store{
			db:        tx,
			offices:   s.offices.WithTx(tx),
			addresses: s.addresses.WithTx(tx),
		})
	})
}
