package domain

import (
	"context"

	"github.com/google/uuid"
)

// Office is soft deleted together with its address.
type Office struct {
	BaseModel
	SoftDelete
	Name    string         `gorm:"size:255;not null" json:"name"`
	Address *OfficeAddress `gorm:"foreignKey:OfficeID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
}

// OfficeAddress is the single postal address of an office.
type OfficeAddress struct {
	BaseModel
	SoftDelete
	OfficeID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"office_id"`
	Line           string    `gorm:"size:255" json:"line"`
	StreetName     string    `gorm:"size:255;not null" json:"street_name"`
	BuildingNumber string    `gorm:"size:32" json:"building_number"`
	Stair          string    `gorm:"size:32" json:"stair"`
	Floor          int       `json:"floor"`
	DoorNumber     string    `gorm:"size:32" json:"door_number"`
	PostalCode     string    `gorm:"size:32;not null" json:"postal_code"`
	Province       string    `gorm:"size:255;not null" json:"province"`
	Country        string    `gorm:"size:255;not null" json:"country"`
}

// OfficeInput carries the writable fields of an office and its address.
type OfficeInput struct {
	Name           string
	Line           string
	StreetName     string
	BuildingNumber string
	Stair          string
	Floor          int
	DoorNumber     string
	PostalCode     string
	Province       string
	Country        string
}

// OfficeQuery holds the list window and the optional province filter.
type OfficeQuery struct {
	Offset   int
	Limit    int
	Province string
}

// OfficeStore groups the repositories of the office aggregate.
type OfficeStore interface {
	Offices() Repository[Office]
	Addresses() Repository[OfficeAddress]
	Atomic(ctx context.Context, fn func(OfficeStore) error) error
}

// OfficeService defines the business logic interface for offices.
// Soft-deleted offices are reported as not found.
type OfficeService interface {
	ListOffices(ctx context.Context, q OfficeQuery) ([]Office, int64, error)
	GetOffice(ctx context.Context, id uuid.UUID) (*Office, error)
	CreateOffice(ctx context.Context, in OfficeInput) (uuid.UUID, error)
	UpdateOffice(ctx context.Context, id uuid.UUID, in OfficeInput) error
	DeleteOffice(ctx context.Context, id uuid.UUID) error
}
