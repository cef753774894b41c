package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/reconciliation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// inventoryFactRow mirrors the inventory_facts view maintained by the
// stock subsystem. Read-only from this service.
type inventoryFactRow struct {
	ProductID       uuid.UUID        `gorm:"type:uuid;primary_key"`
	ProductName     string           `gorm:"type:varchar(200);not null"`
	SupplierID      uuid.UUID        `gorm:"type:uuid;not null"`
	SupplierName    string           `gorm:"type:varchar(200);not null"`
	Warehouse       string           `gorm:"type:varchar(100);not null"`
	OnHand          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Available       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	OnOrder         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ReorderPoint    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ReorderQuantity *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CostPrice       *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

func (inventoryFactRow) TableName() string {
	return "inventory_facts"
}

// bomComponentRow is one bill-of-materials line of an assembled product
type bomComponentRow struct {
	AssemblyProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentProductID uuid.UUID       `gorm:"type:uuid;not null"`
	ComponentName      string          `gorm:"type:varchar(200);not null"`
	QuantityPerUnit    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsOptional         bool            `gorm:"not null;default:false"`
}

func (bomComponentRow) TableName() string {
	return "bom_components"
}

// GormInventoryReader reads availability snapshots for the reorder report
type GormInventoryReader struct {
	db *gorm.DB
}

// NewGormInventoryReader creates a new GormInventoryReader
func NewGormInventoryReader(db *gorm.DB) *GormInventoryReader {
	return &GormInventoryReader{db: db}
}

// Snapshot returns the availability facts for every stocked product,
// optionally restricted to one warehouse
func (r *GormInventoryReader) Snapshot(ctx context.Context, warehouse string) ([]reconciliation.InventoryFact, error) {
	query := r.db.WithContext(ctx).Model(&inventoryFactRow{}).Order("product_name ASC")
	if warehouse != "" {
		query = query.Where("warehouse = ?", warehouse)
	}

	var rows []inventoryFactRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read inventory facts: %w", err)
	}

	facts := make([]reconciliation.InventoryFact, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, reconciliation.InventoryFact{
			ProductID:       row.ProductID,
			ProductName:     row.ProductName,
			SupplierID:      row.SupplierID,
			SupplierName:    row.SupplierName,
			Warehouse:       row.Warehouse,
			OnHand:          row.OnHand,
			Available:       row.Available,
			OnOrder:         row.OnOrder,
			ReorderPoint:    row.ReorderPoint,
			ReorderQuantity: row.ReorderQuantity,
			CostPrice:       row.CostPrice,
		})
	}
	return facts, nil
}

// GormBomReader reads bill-of-materials rows joined with current stock
type GormBomReader struct {
	db *gorm.DB
}

// NewGormBomReader creates a new GormBomReader
func NewGormBomReader(db *gorm.DB) *GormBomReader {
	return &GormBomReader{db: db}
}

// bomFactRow is the join of a BOM line with the component's availability
type bomFactRow struct {
	ComponentProductID uuid.UUID
	ComponentName      string
	QuantityPerUnit    decimal.Decimal
	IsOptional         bool
	AvailableStock     decimal.Decimal
}

// ComponentsFor returns the BOM rows for one assembled product. Components
// without an inventory row count as zero available.
func (r *GormBomReader) ComponentsFor(ctx context.Context, productID uuid.UUID) ([]reconciliation.BomFact, error) {
	var rows []bomFactRow
	err := r.db.WithContext(ctx).
		Table("bom_components").
		Select("bom_components.component_product_id, bom_components.component_name, bom_components.quantity_per_unit, bom_components.is_optional, COALESCE(inventory_facts.available, 0) AS available_stock").
		Joins("LEFT JOIN inventory_facts ON inventory_facts.product_id = bom_components.component_product_id").
		Where("bom_components.assembly_product_id = ?", productID).
		Order("bom_components.component_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read bom components: %w", err)
	}

	facts := make([]reconciliation.BomFact, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, reconciliation.BomFact{
			ComponentProductID: row.ComponentProductID,
			ComponentName:      row.ComponentName,
			QuantityPerUnit:    row.QuantityPerUnit,
			AvailableStock:     row.AvailableStock,
			IsOptional:         row.IsOptional,
		})
	}
	return facts, nil
}
