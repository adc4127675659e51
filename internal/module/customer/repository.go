package customer

import (
	"context"

	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/crud"
	"github.com/n0nuser/gin-archetype/internal/domain"
)

// Relation names accepted for filtering and eager loading.
const relAddresses = "addresses"

var (
	addressSchema = &crud.Schema{
		Table: "addresses",
		Fields: map[string]string{
			"id":          "id",
			"customer_id": "customer_id",
			"street":      "street",
			"city":        "city",
			"country":     "country",
			"postal_code": "postal_code",
			"created":     "created",
			"modified":    "modified",
		},
	}
	customerSchema = &crud.Schema{
		Table: "customers",
		Fields: map[string]string{
			"id":       "id",
			"name":     "name",
			"created":  "created",
			"modified": "modified",
		},
		Relations: map[string]*crud.Relation{
			relAddresses: {Association: "Addresses", Target: addressSchema, ForeignKey: "customer_id", Many: true},
		},
	}
)

// store implements domain.CustomerStore using GORM.
type store struct {
	db        *gorm.DB
	customers *crud.Repository[domain.Customer]
	addresses *crud.Repository[domain.Address]
}

// NewCustomerStore creates a CustomerStore backed by the given GORM database.
func NewCustomerStore(db *gorm.DB, opts ...crud.Option) domain.CustomerStore {
	return &store{
		db:        db,
		customers: crud.New[domain.Customer](db, customerSchema, opts...),
		addresses: crud.New[domain.Address](db, addressSchema, opts...),
	}
}

func (s *store) Customers() domain.Repository[domain.Customer] { return s.customers }

func (s *store) Addresses() domain.Repository[domain.Address] { return s.addresses }

// Atomic runs fn with repositories bound to one transaction.
func (s *store) Atomic(ctx context.Context, fn func(domain.CustomerStore) error) error {
	return crud.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		return fn(&store{
			db:        tx,
			customers: s.customers.WithTx(tx),
			addresses: s.addresses.WithTx(tx),
		})
	})
}
