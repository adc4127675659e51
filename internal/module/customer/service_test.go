package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the customer tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)&_pragma=case_sensitive_like(1)"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.Customer{}, &domain.Address{}))
	return db
}

func setupService(t *testing.T) (domain.CustomerService, domain.CustomerStore) {
	t.Helper()
	st := NewCustomerStore(setupTestDB(t))
	return NewCustomerService(st), st
}

func madrid() domain.AddressInput {
	return domain.AddressInput{Street: "Gran Via 1", City: "Madrid", Country: "Spain", PostalCode: "28013"}
}

func paris() domain.AddressInput {
	return domain.AddressInput{Street: "Rue de Rivoli 5", City: "Paris", Country: "France", PostalCode: "75001"}
}

// failingAddresses rejects every address creation.
type failingAddresses struct {
	domain.Repository[domain.Address]
}

func (failingAddresses) Create(context.Context, *domain.Address) (*domain.Address, error) {
	return nil, errors.New("insert failed")
}

// failingStore wraps a store so that address creation fails inside Atomic.
type failingStore struct {
	domain.CustomerStore
}

func (s failingStore) Addresses() domain.Repository[domain.Address] {
	return failingAddresses{s.CustomerStore.Addresses()}
}

func (s failingStore) Atomic(ctx context.Context, fn func(domain.CustomerStore) error) error {
	return s.CustomerStore.Atomic(ctx, func(tx domain.CustomerStore) error {
		return fn(failingStore{tx})
	})
}

func TestCustomerService_CreateAndGet(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	id, err := svc.CreateCustomer(ctx, "  Alice  ", []domain.AddressInput{madrid(), paris()})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	c, err := svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)
	require.Len(t, c.Addresses, 2)
	for _, a := range c.Addresses {
		assert.Equal(t, id, a.CustomerID)
	}
}

func TestCustomerService_CreateRejectsBlankName(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.CreateCustomer(context.Background(), "   ", nil)
	assert.True(t, domain.IsValidation(err))
}

func TestCustomerService_CreateIsAtomic(t *testing.T) {
	st := NewCustomerStore(setupTestDB(t))
	svc := NewCustomerService(failingStore{st})
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, "Alice", []domain.AddressInput{madrid()})
	require.Error(t, err)

	n, err := st.Customers().Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "customer row must be rolled back with its addresses")
}

func TestCustomerService_GetMissing(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.GetCustomer(context.Background(), uuid.New())
	assert.True(t, domain.IsNotFound(err))
}

func TestCustomerService_ListFilters(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	alice, err := svc.CreateCustomer(ctx, "Alice", []domain.AddressInput{madrid(), paris()})
	require.NoError(t, err)
	bob, err := svc.CreateCustomer(ctx, "Bob", []domain.AddressInput{paris()})
	require.NoError(t, err)
	_, err = svc.CreateCustomer(ctx, "Carol", nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		query domain.CustomerQuery
		want  []uuid.UUID
		total int64
	}{
		{"no filter", domain.CustomerQuery{Limit: 10}, nil, 3},
		{"city contains", domain.CustomerQuery{Limit: 10, City: "Madr"}, []uuid.UUID{alice}, 1},
		{"country shared", domain.CustomerQuery{Limit: 10, Country: "France"}, []uuid.UUID{alice, bob}, 2},
		{"postal code exact", domain.CustomerQuery{Limit: 10, PostalCode: "7500"}, nil, 0},
		{"postal code match", domain.CustomerQuery{Limit: 10, PostalCode: "75001"}, []uuid.UUID{alice, bob}, 2},
		{"case sensitive", domain.CustomerQuery{Limit: 10, City: "madrid"}, nil, 0},
		{"combined", domain.CustomerQuery{Limit: 10, Street: "Rivoli", City: "Paris"}, []uuid.UUID{alice, bob}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := svc.ListCustomers(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			assert.Len(t, items, int(tt.total))
			if tt.want != nil {
				got := make([]uuid.UUID, 0, len(items))
				for _, c := range items {
					got = append(got, c.ID)
				}
				assert.ElementsMatch(t, tt.want, got)
			}
		})
	}
}

func TestCustomerService_ListEmptyIsNotAnError(t *testing.T) {
	svc, _ := setupService(t)

	items, total, err := svc.ListCustomers(context.Background(), domain.CustomerQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Zero(t, total)
}

func TestCustomerService_ListWindow(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		_, err := svc.CreateCustomer(ctx, name, nil)
		require.NoError(t, err)
	}

	items, total, err := svc.ListCustomers(ctx, domain.CustomerQuery{Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(5), total)

	items, total, err = svc.ListCustomers(ctx, domain.CustomerQuery{Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestCustomerService_Update(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	id, err := svc.CreateCustomer(ctx, "Alice", nil)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateCustomer(ctx, id, domain.CustomerPatch{}))
	c, err := svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)

	name := "Alicia"
	require.NoError(t, svc.UpdateCustomer(ctx, id, domain.CustomerPatch{Name: &name}))
	c, err = svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", c.Name)

	blank := " "
	assert.True(t, domain.IsValidation(svc.UpdateCustomer(ctx, id, domain.CustomerPatch{Name: &blank})))
	assert.True(t, domain.IsNotFound(svc.UpdateCustomer(ctx, uuid.New(), domain.CustomerPatch{Name: &name})))
}

func TestCustomerService_DeleteCascades(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()
	id, err := svc.CreateCustomer(ctx, "Alice", []domain.AddressInput{madrid(), paris()})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(ctx, id))

	_, err = svc.GetCustomer(ctx, id)
	assert.True(t, domain.IsNotFound(err))
	n, err := st.Addresses().Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.True(t, domain.IsNotFound(svc.DeleteCustomer(ctx, id)))
}

func TestCustomerService_AddressLifecycle(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	id, err := svc.CreateCustomer(ctx, "Alice", nil)
	require.NoError(t, err)

	addrID, err := svc.CreateAddress(ctx, id, madrid())
	require.NoError(t, err)

	updated := paris()
	require.NoError(t, svc.UpdateAddress(ctx, id, addrID, updated))

	c, err := svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	require.Len(t, c.Addresses, 1)
	assert.Equal(t, addrID, c.Addresses[0].ID)
	assert.Equal(t, "Paris", c.Addresses[0].City)

	require.NoError(t, svc.DeleteAddress(ctx, id, addrID))
	c, err = svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, c.Addresses)
}

func TestCustomerService_AddressOwnership(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	alice, err := svc.CreateCustomer(ctx, "Alice", []domain.AddressInput{madrid()})
	require.NoError(t, err)
	bob, err := svc.CreateCustomer(ctx, "Bob", nil)
	require.NoError(t, err)

	c, err := svc.GetCustomer(ctx, alice)
	require.NoError(t, err)
	addrID := c.Addresses[0].ID

	assert.True(t, domain.IsNotFound(svc.UpdateAddress(ctx, bob, addrID, paris())))
	assert.True(t, domain.IsNotFound(svc.DeleteAddress(ctx, bob, addrID)))

	_, err = svc.CreateAddress(ctx, uuid.New(), madrid())
	assert.True(t, domain.IsNotFound(err))

	c, err = svc.GetCustomer(ctx, alice)
	require.NoError(t, err)
	require.Len(t, c.Addresses, 1)
	assert.Equal(t, "Madrid", c.Addresses[0].City)
}
