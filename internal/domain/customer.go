package domain

import (
	"context"

	"github.com/google/uuid"
)

// Customer owns zero or more addresses. Deleting a customer removes them.
type Customer struct {
	BaseModel
	Name      string    `gorm:"size:255;not null" json:"name"`
	Addresses []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

// Address belongs to exactly one customer.
type Address struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Street     string    `gorm:"size:255;not null" json:"street"`
	City       string    `gorm:"size:255;not null" json:"city"`
	Country    string    `gorm:"size:255;not null" json:"country"`
	PostalCode string    `gorm:"size:32;not null" json:"postal_code"`
}

// AddressInput carries the writable fields of an address.
type AddressInput struct {
	Street     string
	City       string
	Country    string
	PostalCode string
}

// CustomerQuery holds the list window and the optional address filters.
type CustomerQuery struct {
	Offset     int
	Limit      int
	Street     string
	City       string
	Country    string
	PostalCode string
}

// CustomerPatch holds the fields of a partial customer update.
// Nil fields are left unchanged.
type CustomerPatch struct {
	Name *string
}

// CustomerStore groups the repositories of the customer aggregate.
// Atomic runs fn against a store bound to a single transaction.
type CustomerStore interface {
	Customers() Repository[Customer]
	Addresses() Repository[Address]
	Atomic(ctx context.Context, fn func(CustomerStore) error) error
}

// CustomerService defines the business logic interface for customers.
type CustomerService interface {
	ListCustomers(ctx context.Context, q CustomerQuery) ([]Customer, int64, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	CreateCustomer(ctx context.Context, name string, addresses []AddressInput) (uuid.UUID, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, patch CustomerPatch) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	CreateAddress(ctx context.Context, customerID uuid.UUID, in AddressInput) (uuid.UUID, error)
	UpdateAddress(ctx context.Context, customerID, addressID uuid.UUID, in AddressInput) error
	DeleteAddress(ctx context.Context, customerID, addressID uuid.UUID) error
}
