package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/domain"
	"github.com/n0nuser/gin-archetype/internal/module/customer"
	"github.com/n0nuser/gin-archetype/internal/module/office"
)

// DropTables removes every table created by Migrate. Dependent tables are
// dropped first.
func DropTables(db *gorm.DB) error {
	if db == nil {
		return errors.New("database is nil")
	}
	if err := db.Migrator().DropTable(lo.Reverse(Models())...); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// SeedResult counts the rows written by Seed.
type SeedResult struct {
	Customers int
	Offices   int
}

// Seed writes n sample customers, each with one address, and n sample
// offices through the domain services.
func Seed(ctx context.Context, db *gorm.DB, n int) (SeedResult, error) {
	var res SeedResult
	if db == nil {
		return res, errors.New("database is nil")
	}

	customers := customer.NewCustomerService(customer.NewCustomerStore(db))
	offices := office.NewOfficeService(office.NewOfficeStore(db))

	for i := 1; i <= n; i++ {
		_, err := customers.CreateCustomer(ctx, fmt.Sprintf("Customer %d", i), []domain.AddressInput{{
			Street:     "C/Toro 71",
			City:       "Salamanca",
			Country:    "ES",
			PostalCode: "37002",
		}})
		if err != nil {
			return res, fmt.Errorf("seed customer %d: %w", i, err)
		}
		res.Customers++

		_, err = offices.CreateOffice(ctx, domain.OfficeInput{
			Name:           fmt.Sprintf("Office %d", i),
			Line:           "C/Toro, 71",
			StreetName:     "C/Toro",
			BuildingNumber: "71",
			Stair:          "1",
			Floor:          1,
			DoorNumber:     "1A",
			PostalCode:     "37002",
			Province:       "Salamanca",
			Country:        "ES",
		})
		if err != nil {
			return res, fmt.Errorf("seed office %d: %w", i, err)
		}
		res.Offices++
	}
	return res, nil
}
