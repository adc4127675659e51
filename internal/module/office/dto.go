package office

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// AddressRequest represents the address part of an office request.
type AddressRequest struct {
	Line           string `json:"line" binding:"max=255"`
	StreetName     string `json:"street_name" binding:"required,max=255"`
	BuildingNumber string `json:"building_number" binding:"max=32"`
	Stair          string `json:"stair" binding:"max=32"`
	Floor          int    `json:"floor"`
	DoorNumber     string `json:"door_number" binding:"max=32"`
	PostalCode     string `json:"postal_code" binding:"required,max=32"`
	Province       string `json:"province" binding:"required,max=255"`
	Country        string `json:"country" binding:"required,max=255"`
}

// OfficeRequest represents the input for creating or replacing an office.
type OfficeRequest struct {
	Name    string         `json:"name" binding:"required,max=255"`
	Address AddressRequest `json:"address"`
}

func (r OfficeRequest) input() domain.OfficeInput {
	return domain.OfficeInput{
		Name:           r.Name,
		Line:           r.Address.Line,
		StreetName:     r.Address.StreetName,
		BuildingNumber: r.Address.BuildingNumber,
		Stair:          r.Address.Stair,
		Floor:          r.Address.Floor,
		DoorNumber:     r.Address.DoorNumber,
		PostalCode:     r.Address.PostalCode,
		Province:       r.Address.Province,
		Country:        r.Address.Country,
	}
}

// ListOfficesQuery holds the optional list filters.
type ListOfficesQuery struct {
	Province string `form:"province"`
}

// OfficeSummary is one item of the office list.
type OfficeSummary struct {
	OfficeID uuid.UUID `json:"office_id"`
	Name     string    `json:"name"`
}

// AddressResponse is an office address as returned by the API.
type AddressResponse struct {
	AddressID      uuid.UUID `json:"address_id"`
	Line           string    `json:"line"`
	StreetName     string    `json:"street_name"`
	BuildingNumber string    `json:"building_number"`
	Stair          string    `json:"stair"`
	Floor          int       `json:"floor"`
	DoorNumber     string    `json:"door_number"`
	PostalCode     string    `json:"postal_code"`
	Province       string    `json:"province"`
	Country        string    `json:"country"`
}

// OfficeDetail is an office with its address.
type OfficeDetail struct {
	OfficeID uuid.UUID        `json:"office_id"`
	Name     string           `json:"name"`
	Address  *AddressResponse `json:"address"`
}

// OfficeCreated is the body of a successful office creation.
type OfficeCreated struct {
	OfficeID uuid.UUID `json:"office_id"`
}

func toSummaries(items []domain.Office) []OfficeSummary {
	return lo.Map(items, func(o domain.Office, _ int) OfficeSummary {
		return OfficeSummary{OfficeID: o.ID, Name: o.Name}
	})
}

func toDetail(o *domain.Office) OfficeDetail {
	d := OfficeDetail{OfficeID: o.ID, Name: o.Name}
	if a := o.Address; a != nil {
		d.Address = &AddressResponse{
			AddressID:      a.ID,
			Line:           a.Line,
			StreetName:     a.StreetName,
			BuildingNumber: a.BuildingNumber,
			Stair:          a.Stair,
			Floor:          a.Floor,
			DoorNumber:     a.DoorNumber,
			PostalCode:     a.PostalCode,
			Province:       a.Province,
			Country:        a.Country,
		}
	}
	return d
}
