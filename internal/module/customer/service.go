package customer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// customerService implements domain.CustomerService.
type customerService struct {
	store domain.CustomerStore
}

// NewCustomerService creates a new CustomerService with the given store.
func NewCustomerService(store domain.CustomerStore) domain.CustomerService {
	return &customerService{store: store}
}

// ListCustomers returns one page of customers and the total number of
// matches. No match is an empty page, not an error.
func (s *customerService) ListCustomers(ctx context.Context, q domain.CustomerQuery) ([]domain.Customer, int64, error) {
	filters := listFilters(q)

	items, err := s.store.Customers().GetPage(ctx, domain.PageQuery{
		Offset:  q.Offset,
		Limit:   q.Limit,
		Filters: filters,
	})
	if domain.IsNotFound(err) {
		return []domain.Customer{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.Customers().Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// listFilters maps the optional query fields onto address filters.
func listFilters(q domain.CustomerQuery) []domain.Filter {
	var filters []domain.Filter
	for _, f := range []struct {
		field string
		value string
	}{
		{"street", q.Street},
		{"city", q.City},
		{"country", q.Country},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			filters = append(filters, domain.Contains(relAddresses+"."+f.field, v))
		}
	}
	if v := strings.TrimSpace(q.PostalCode); v != "" {
		filters = append(filters, domain.Eq(relAddresses+".postal_code", v))
	}
	return filters
}

// GetCustomer retrieves a customer with its addresses.
func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.store.Customers().GetByID(ctx, id, relAddresses)
}

// CreateCustomer creates the customer and its addresses atomically.
func (s *customerService) CreateCustomer(ctx context.Context, name string, addresses []domain.AddressInput) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, domain.NewAppError(domain.CodeValidation, "name is required", nil)
	}

	var id uuid.UUID
	err := s.store.Atomic(ctx, func(tx domain.CustomerStore) error {
		c, err := tx.Customers().Create(ctx, &domain.Customer{Name: name})
		if err != nil {
			return err
		}
		for _, in := range addresses {
			if _, err := tx.Addresses().Create(ctx, newAddress(c.ID, in)); err != nil {
				return err
			}
		}
		id = c.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// UpdateCustomer applies the fields present in patch.
func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, patch domain.CustomerPatch) error {
	c, err := s.store.Customers().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.NewAppError(domain.CodeValidation, "name must not be empty", nil)
		}
		c.Name = name
	}

	_, err = s.store.Customers().Update(ctx, c)
	return err
}

// DeleteCustomer removes a customer and its addresses.
func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	c, err := s.store.Customers().GetByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.store.Customers().DeleteRow(ctx, c)
	return err
}

// CreateAddress adds an address to an existing customer.
func (s *customerService) CreateAddress(ctx context.Context, customerID uuid.UUID, in domain.AddressInput) (uuid.UUID, error) {
	if _, err := s.store.Customers().GetByID(ctx, customerID); err != nil {
		return uuid.Nil, err
	}

	a, err := s.store.Addresses().Create(ctx, newAddress(customerID, in))
	if err != nil {
		return uuid.Nil, err
	}
	return a.ID, nil
}

// UpdateAddress replaces the fields of an address owned by customerID.
func (s *customerService) UpdateAddress(ctx context.Context, customerID, addressID uuid.UUID, in domain.AddressInput) error {
	a, err := s.ownedAddress(ctx, customerID, addressID)
	if err != nil {
		return err
	}

	a.Street = in.Street
	a.City = in.City
	a.Country = in.Country
	a.PostalCode = in.PostalCode

	_, err = s.store.Addresses().Update(ctx, a)
	return err
}

// DeleteAddress removes an address owned by customerID.
func (s *customerService) DeleteAddress(ctx context.Context, customerID, addressID uuid.UUID) error {
	a, err := s.ownedAddress(ctx, customerID, addressID)
	if err != nil {
		return err
	}
	_, err = s.store.Addresses().DeleteRow(ctx, a)
	return err
}

// ownedAddress resolves an address through its owner so that an address of
// another customer is not found.
func (s *customerService) ownedAddress(ctx context.Context, customerID, addressID uuid.UUID) (*domain.Address, error) {
	return s.store.Addresses().GetOneByFilters(ctx, []domain.Filter{
		domain.Eq("customer_id", customerID),
		domain.Eq("id", addressID),
	})
}

func newAddress(customerID uuid.UUID, in domain.AddressInput) *domain.Address {
	return &domain.Address{
		CustomerID: customerID,
		Street:     in.Street,
		City:       in.City,
		Country:    in.Country,
		PostalCode: in.PostalCode,
	}
}
