package office

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/crud"
	"github.com/n0nuser/gin-archetype/internal/domain"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)&_pragma=case_sensitive_like(1)"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.Office{}, &domain.OfficeAddress{}))
	return db
}

func setupService(t *testing.T) (domain.OfficeService, domain.OfficeStore) {
	t.Helper()
	st := NewOfficeStore(setupTestDB(t), crud.WithClock(func() time.Time { return fixedNow }))
	return NewOfficeService(st), st
}

func input(name, province string) domain.OfficeInput {
	return domain.OfficeInput{
		Name:           name,
		StreetName:     "Calle Mayor",
		BuildingNumber: "10",
		Floor:          3,
		DoorNumber:     "B",
		PostalCode:     "28013",
		Province:       province,
		Country:        "Spain",
	}
}

func TestOfficeService_CreateAndGet(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	id, err := svc.CreateOffice(ctx, input("HQ", "Madrid"))
	require.NoError(t, err)

	o, err := svc.GetOffice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "HQ", o.Name)
	require.NotNil(t, o.Address)
	assert.Equal(t, id, o.Address.OfficeID)
	assert.Equal(t, "Madrid", o.Address.Province)
	assert.Equal(t, 3, o.Address.Floor)
}

func TestOfficeService_CreateValidation(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.CreateOffice(context.Background(), domain.OfficeInput{Name: " "})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateOffice(context.Background(), domain.OfficeInput{Name: "HQ"})
	assert.True(t, domain.IsValidation(err))
}

func TestOfficeService_ListByProvince(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	madrid, err := svc.CreateOffice(ctx, input("HQ", "Madrid"))
	require.NoError(t, err)
	_, err = svc.CreateOffice(ctx, input("North", "Asturias"))
	require.NoError(t, err)

	items, total, err := svc.ListOffices(ctx, domain.OfficeQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = svc.ListOffices(ctx, domain.OfficeQuery{Limit: 10, Province: "Madrid"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, madrid, items[0].ID)

	items, total, err = svc.ListOffices(ctx, domain.OfficeQuery{Limit: 10, Province: "Mad"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestOfficeService_Update(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	id, err := svc.CreateOffice(ctx, input("HQ", "Madrid"))
	require.NoError(t, err)

	in := input("Head Office", "Barcelona")
	in.Stair = "A"
	require.NoError(t, svc.UpdateOffice(ctx, id, in))

	o, err := svc.GetOffice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Head Office", o.Name)
	require.NotNil(t, o.Address)
	assert.Equal(t, "Barcelona", o.Address.Province)
	assert.Equal(t, "A", o.Address.Stair)

	assert.True(t, domain.IsNotFound(svc.UpdateOffice(ctx, uuid.New(), in)))
}

func TestOfficeService_SoftDelete(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()
	id, err := svc.CreateOffice(ctx, input("HQ", "Madrid"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOffice(ctx, id))

	_, err = svc.GetOffice(ctx, id)
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, domain.IsNotFound(svc.DeleteOffice(ctx, id)))
	assert.True(t, domain.IsNotFound(svc.UpdateOffice(ctx, id, input("HQ", "Madrid"))))

	items, total, err := svc.ListOffices(ctx, domain.OfficeQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)

	// Rows are kept and stamped.
	o, err := st.Offices().GetByID(ctx, id, relAddress)
	require.NoError(t, err)
	require.NotNil(t, o.DeletedOn)
	assert.True(t, o.DeletedOn.Equal(fixedNow))
	require.NotNil(t, o.Address)
	require.NotNil(t, o.Address.DeletedOn)
	assert.True(t, o.Address.DeletedOn.Equal(fixedNow))
}
