package persistence

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newFactDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&inventoryFactRow{}, &bomComponentRow{}))
	return db
}

func seedInventoryFact(t *testing.T, db *gorm.DB, row inventoryFactRow) {
	t.Helper()
	require.NoError(t, db.Create(&row).Error)
}

func TestGormInventoryReader_Snapshot(t *testing.T) {
	db := newFactDB(t)
	reader := NewGormInventoryReader(db)

	seedInventoryFact(t, db, inventoryFactRow{
		ProductID:    uuid.New(),
		ProductName:  "Bracket",
		SupplierID:   uuid.New(),
		SupplierName: "Alpha Supplies",
		Warehouse:    "main",
		OnHand:       decimal.NewFromInt(5),
		Available:    decimal.NewFromInt(5),
		ReorderPoint: decimal.NewFromInt(20),
	})
	seedInventoryFact(t, db, inventoryFactRow{
		ProductID:    uuid.New(),
		ProductName:  "Washer",
		SupplierID:   uuid.New(),
		SupplierName: "Beta Traders",
		Warehouse:    "east",
		OnHand:       decimal.NewFromInt(50),
		Available:    decimal.NewFromInt(50),
		ReorderPoint: decimal.NewFromInt(10),
	})

	t.Run("all warehouses", func(t *testing.T) {
		facts, err := reader.Snapshot(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, facts, 2)
		assert.Equal(t, "Bracket", facts[0].ProductName)
		assert.True(t, facts[0].Available.Equal(decimal.NewFromInt(5)))
	})

	t.Run("single warehouse", func(t *testing.T) {
		facts, err := reader.Snapshot(context.Background(), "east")
		require.NoError(t, err)
		require.Len(t, facts, 1)
		assert.Equal(t, "Washer", facts[0].ProductName)
	})

	t.Run("unknown warehouse is empty", func(t *testing.T) {
		facts, err := reader.Snapshot(context.Background(), "nowhere")
		require.NoError(t, err)
		assert.Empty(t, facts)
	})
}

func TestGormBomReader_ComponentsFor(t *testing.T) {
	db := newFactDB(t)
	reader := NewGormBomReader(db)

	assemblyID := uuid.New()
	boltID := uuid.New()
	plateID := uuid.New()

	require.NoError(t, db.Create(&bomComponentRow{
		AssemblyProductID:  assemblyID,
		ComponentProductID: boltID,
		ComponentName:      "Bolt",
		QuantityPerUnit:    decimal.NewFromInt(4),
	}).Error)
	require.NoError(t, db.Create(&bomComponentRow{
		AssemblyProductID:  assemblyID,
		ComponentProductID: plateID,
		ComponentName:      "Plate",
		QuantityPerUnit:    decimal.NewFromInt(1),
		IsOptional:         true,
	}).Error)
	seedInventoryFact(t, db, inventoryFactRow{
		ProductID:    boltID,
		ProductName:  "Bolt",
		SupplierID:   uuid.New(),
		SupplierName: "Alpha Supplies",
		Warehouse:    "main",
		Available:    decimal.NewFromInt(12),
	})

	facts, err := reader.ComponentsFor(context.Background(), assemblyID)
	require.NoError(t, err)
	require.Len(t, facts, 2)

	assert.Equal(t, "Bolt", facts[0].ComponentName)
	assert.True(t, facts[0].AvailableStock.Equal(decimal.NewFromInt(12)))
	assert.False(t, facts[0].IsOptional)

	// No inventory row for the plate, availability defaults to zero
	assert.Equal(t, "Plate", facts[1].ComponentName)
	assert.True(t, facts[1].AvailableStock.IsZero())
	assert.True(t, facts[1].IsOptional)
}

func TestGormBomReader_ComponentsFor_NoBom(t *testing.T) {
	db := newFactDB(t)
	reader := NewGormBomReader(db)

	facts, err := reader.ComponentsFor(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, facts)
}
