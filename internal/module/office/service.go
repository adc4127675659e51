package office

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// officeService implements domain.OfficeService.
type officeService struct {
	store domain.OfficeStore
}

// NewOfficeService creates a new OfficeService with the given store.
func NewOfficeService(store domain.OfficeStore) domain.OfficeService {
	return &officeService{store: store}
}

// ListOffices returns one page of live offices and the total number of
// matches.
func (s *officeService) ListOffices(ctx context.Context, q domain.OfficeQuery) ([]domain.Office, int64, error) {
	filters := []domain.Filter{domain.Eq("deleted_on", nil)}
	if v := strings.TrimSpace(q.Province); v != "" {
		filters = append(filters, domain.Eq(relAddress+".province", v))
	}

	items, err := s.store.Offices().GetPage(ctx, domain.PageQuery{
		Offset:  q.Offset,
		Limit:   q.Limit,
		Filters: filters,
		Joins:   []string{relAddress},
	})
	if domain.IsNotFound(err) {
		return []domain.Office{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.Offices().Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetOffice retrieves a live office with its address.
func (s *officeService) GetOffice(ctx context.Context, id uuid.UUID) (*domain.Office, error) {
	return live(ctx, s.store, id)
}

// CreateOffice creates the office and its address in one transaction.
func (s *officeService) CreateOffice(ctx context.Context, in domain.OfficeInput) (uuid.UUID, error) {
	if err := validate(in); err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err := s.store.Atomic(ctx, func(tx domain.OfficeStore) error {
		o, err := tx.Offices().Create(ctx, &domain.Office{Name: strings.TrimSpace(in.Name)})
		if err != nil {
			return err
		}
		a := &domain.OfficeAddress{OfficeID: o.ID}
		applyAddress(a, in)
		if _, err := tx.Addresses().Create(ctx, a); err != nil {
			return err
		}
		id = o.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// UpdateOffice replaces the name and address of a live office.
func (s *officeService) UpdateOffice(ctx context.Context, id uuid.UUID, in domain.OfficeInput) error {
	if err := validate(in); err != nil {
		return err
	}

	return s.store.Atomic(ctx, func(tx domain.OfficeStore) error {
		o, err := live(ctx, tx, id)
		if err != nil {
			return err
		}

		o.Name = strings.TrimSpace(in.Name)
		addr := o.Address
		if _, err := tx.Offices().Update(ctx, o); err != nil {
			return err
		}

		if addr == nil {
			addr = &domain.OfficeAddress{OfficeID: o.ID}
			applyAddress(addr, in)
			_, err = tx.Addresses().Create(ctx, addr)
			return err
		}
		applyAddress(addr, in)
		_, err = tx.Addresses().Update(ctx, addr)
		return err
	})
}

// DeleteOffice soft deletes a live office and its address.
func (s *officeService) DeleteOffice(ctx context.Context, id uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx domain.OfficeStore) error {
		o, err := live(ctx, tx, id)
		if err != nil {
			return err
		}

		addr := o.Address
		if _, err := tx.Offices().SoftDeleteRow(ctx, o); err != nil {
			return err
		}
		if addr != nil {
			if _, err := tx.Addresses().SoftDeleteRow(ctx, addr); err != nil {
				return err
			}
		}
		return nil
	})
}

// live loads an office with its address and reports soft-deleted rows as
// not found.
func live(ctx context.Context, st domain.OfficeStore, id uuid.UUID) (*domain.Office, error) {
	o, err := st.Offices().GetByID(ctx, id, relAddress)
	if err != nil {
		return nil, err
	}
	if o.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func validate(in domain.OfficeInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.NewAppError(domain.CodeValidation, "name is required", nil)
	case strings.TrimSpace(in.StreetName) == "":
		return domain.NewAppError(domain.CodeValidation, "street_name is required", nil)
	}
	return nil
}

func applyAddress(a *domain.OfficeAddress, in domain.OfficeInput) {
	a.Line = in.Line
	a.StreetName = in.StreetName
	a.BuildingNumber = in.BuildingNumber
	a.Stair = in.Stair
	a.Floor = in.Floor
	a.DoorNumber = in.DoorNumber
	a.PostalCode = in.PostalCode
	a.Province = in.Province
	a.Country = in.Country
}
