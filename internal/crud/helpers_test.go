package crud

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/n0nuser/gin-archetype/internal/domain"
)

type owner struct {
	domain.BaseModel
	Name string `gorm:"size:100;not null"`
	Rank int
	Pets []pet `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

type pet struct {
	domain.BaseModel
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind    string    `gorm:"size:100"`
	Name    string    `gorm:"size:100"`
}

type archivable struct {
	domain.BaseModel
	domain.SoftDelete
	Title string `gorm:"size:100;uniqueIndex"`
}

var (
	petSchema = &Schema{
		Table:  "pets",
		Fields: map[string]string{"id": "id", "owner_id": "owner_id", "kind": "kind", "name": "name"},
	}
	ownerSchema = &Schema{
		Table:  "owners",
		Fields: map[string]string{"id": "id", "name": "name", "rank": "rank"},
		Relations: map[string]*Relation{
			"pets": {Association: "Pets", Target: petSchema, ForeignKey: "owner_id", Many: true},
		},
	}
	archivableSchema = &Schema{
		Table:  "archivables",
		Fields: map[string]string{"id": "id", "title": "title", "deleted_on": "deleted_on"},
	}
)

// setupTestDB creates an in-memory SQLite database with the test tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)&_pragma=case_sensitive_like(1)"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&owner{}, &pet{}, &archivable{}))
	return db
}

func seedOwner(t *testing.T, db *gorm.DB, name string, rank int, petKinds ...string) *owner {
	t.Helper()
	o := &owner{Name: name, Rank: rank}
	require.NoError(t, db.Omit("Pets").Create(o).Error)
	for _, kind := range petKinds {
		p := &pet{OwnerID: o.ID, Kind: kind, Name: name + "-" + kind}
		require.NoError(t, db.Create(p).Error)
		o.Pets = append(o.Pets, *p)
	}
	return o
}
