package customer

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// AddressRequest represents the input for creating or replacing an address.
type AddressRequest struct {
	Street     string `json:"street" binding:"required,max=255"`
	City       string `json:"city" binding:"required,max=255"`
	Country    string `json:"country" binding:"required,max=255"`
	PostalCode string `json:"postal_code" binding:"required,max=32"`
}

func (r AddressRequest) input() domain.AddressInput {
	return domain.AddressInput{
		Street:     r.Street,
		City:       r.City,
		Country:    r.Country,
		PostalCode: r.PostalCode,
	}
}

// CreateCustomerRequest represents the input for creating a customer with
// its addresses.
type CreateCustomerRequest struct {
	Name      string           `json:"name" binding:"required,max=255"`
	Addresses []AddressRequest `json:"addresses" binding:"omitempty,dive"`
}

// UpdateCustomerRequest represents a partial customer update.
type UpdateCustomerRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=255"`
}

// ListCustomersQuery holds the optional list filters.
type ListCustomersQuery struct {
	Street     string `form:"street"`
	City       string `form:"city"`
	Country    string `form:"country"`
	PostalCode string `form:"postal_code"`
}

// CustomerSummary is one item of the customer list.
type CustomerSummary struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
}

// AddressResponse is an address as returned by the API.
type AddressResponse struct {
	AddressID  uuid.UUID `json:"address_id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	PostalCode string    `json:"postal_code"`
}

// CustomerDetail is a customer with its addresses.
type CustomerDetail struct {
	CustomerID uuid.UUID         `json:"customer_id"`
	Name       string            `json:"name"`
	Addresses  []AddressResponse `json:"addresses"`
}

// CustomerCreated is the body of a successful customer creation.
type CustomerCreated struct {
	CustomerID uuid.UUID `json:"customer_id"`
}

// AddressCreated is the body of a successful address creation.
type AddressCreated struct {
	AddressID uuid.UUID `json:"address_id"`
}

func toSummaries(items []domain.Customer) []CustomerSummary {
	return lo.Map(items, func(c domain.Customer, _ int) CustomerSummary {
		return CustomerSummary{CustomerID: c.ID, Name: c.Name}
	})
}

func toDetail(c *domain.Customer) CustomerDetail {
	return CustomerDetail{
		CustomerID: c.ID,
		Name:       c.Name,
		Addresses: lo.Map(c.Addresses, func(a domain.Address, _ int) AddressResponse {
			return AddressResponse{
				AddressID:  a.ID,
				Street:     a.Street,
				City:       a.City,
				Country:    a.Country,
				PostalCode: a.PostalCode,
			}
		}),
	}
}

func addressInputs(reqs []AddressRequest) []domain.AddressInput {
	return lo.Map(reqs, func(r AddressRequest, _ int) domain.AddressInput { return r.input() })
}
