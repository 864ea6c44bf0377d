package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerops/backend/internal/domain/sales"
)

// SalesRecordModel is the persistence model for the SalesRecord domain
// entity. The (platform, platform_order_id) pair is the natural key of
// an order; uniqueness across live batches is enforced by the confirm
// transaction, not by a database constraint, because rolled-back
// batches keep their audit rows deleted rather than tombstoned.
type SalesRecordModel struct {
	BaseModel
	RecordDate      time.Time         `gorm:"type:date;not null;index"`
	Platform        sales.Platform    `gorm:"type:varchar(20);not null;index:idx_record_platform_order,priority:1"`
	PlatformOrderID string            `gorm:"type:varchar(100);not null;index:idx_record_platform_order,priority:2"`
	OrderStatus     sales.OrderStatus `gorm:"type:varchar(20);not null;index"`
	CancelReason    string            `gorm:"type:varchar(500)"`
	Revenue         decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	SalesVolume     int               `gorm:"not null;default:0"`
	Currency        string            `gorm:"type:varchar(3)"`
	RawTitle        string            `gorm:"type:varchar(500)"`
	RawSKU          string            `gorm:"type:varchar(100)"`
	Notes           string            `gorm:"type:text"`
	StoreID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID        `gorm:"type:uuid;index"`
	ListingID       *uuid.UUID        `gorm:"type:uuid;index"`
	BatchID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	EnteredBy       uuid.UUID         `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (SalesRecordModel) TableName() string {
	return "sales_records"
}

// ToDomain converts the persistence model to a domain SalesRecord entity.
func (m *SalesRecordModel) ToDomain() *sales.SalesRecord {
	return &sales.SalesRecord{
		BaseEntity:      m.BaseModel.ToDomain(),
		RecordDate:      m.RecordDate,
		Platform:        m.Platform,
		PlatformOrderID: m.PlatformOrderID,
		OrderStatus:     m.OrderStatus,
		CancelReason:    m.CancelReason,
		Revenue:         m.Revenue,
		SalesVolume:     m.SalesVolume,
		Currency:        m.Currency,
		RawTitle:        m.RawTitle,
		RawSKU:          m.RawSKU,
		Notes:           m.Notes,
		StoreID:         m.StoreID,
		ProductID:       m.ProductID,
		ListingID:       m.ListingID,
		BatchID:         m.BatchID,
		EnteredBy:       m.EnteredBy,
	}
}

// FromDomain populates the persistence model from a domain SalesRecord entity.
func (m *SalesRecordModel) FromDomain(r *sales.SalesRecord) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.RecordDate = r.RecordDate
	m.Platform = r.Platform
	m.PlatformOrderID = r.PlatformOrderID
	m.OrderStatus = r.OrderStatus
	m.CancelReason = r.CancelReason
	m.Revenue = r.Revenue
	m.SalesVolume = r.SalesVolume
	m.Currency = r.Currency
	m.RawTitle = r.RawTitle
	m.RawSKU = r.RawSKU
	m.Notes = r.Notes
	m.StoreID = r.StoreID
	m.ProductID = r.ProductID
	m.ListingID = r.ListingID
	m.BatchID = r.BatchID
	m.EnteredBy = r.EnteredBy
}

// ImportBatchModel is the persistence model for the ImportBatch domain
// entity. A rolled-back batch keeps its row as an audit trail.
type ImportBatchModel struct {
	BaseModel
	Platform       sales.Platform    `gorm:"type:varchar(20);not null;index"`
	SourceFileName string            `gorm:"type:varchar(500)"`
	RowCount       int               `gorm:"not null;default:0"`
	Status         sales.BatchStatus `gorm:"type:varchar(20);not null;index"`
	CreatedBy      uuid.UUID         `gorm:"type:uuid;not null;index"`
	ConfirmedAt    *time.Time
	RolledBackAt   *time.Time
}

// TableName returns the table name for GORM
func (ImportBatchModel) TableName() string {
	return "import_batches"
}

// ToDomain converts the persistence model to a domain ImportBatch entity.
func (m *ImportBatchModel) ToDomain() *sales.ImportBatch {
	return &sales.ImportBatch{
		BaseEntity:     m.BaseModel.ToDomain(),
		Platform:       m.Platform,
		SourceFileName: m.SourceFileName,
		RowCount:       m.RowCount,
		Status:         m.Status,
		CreatedBy:      m.CreatedBy,
		ConfirmedAt:    m.ConfirmedAt,
		RolledBackAt:   m.RolledBackAt,
	}
}

// FromDomain populates the persistence model from a domain ImportBatch entity.
func (m *ImportBatchModel) FromDomain(b *sales.ImportBatch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Platform = b.Platform
	m.SourceFileName = b.SourceFileName
	m.RowCount = b.RowCount
	m.Status = b.Status
	m.CreatedBy = b.CreatedBy
	m.ConfirmedAt = b.ConfirmedAt
	m.RolledBackAt = b.RolledBackAt
}
