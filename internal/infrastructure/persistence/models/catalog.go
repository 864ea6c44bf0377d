package models

import (
	"github.com/google/uuid"

	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/domain/sales"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	SKU  string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		SKU:        m.SKU,
		Name:       m.Name,
	}
}

// StoreModel is the persistence model for the Store domain entity.
type StoreModel struct {
	BaseModel
	Name        string         `gorm:"type:varchar(200);not null"`
	Platform    sales.Platform `gorm:"type:varchar(20);not null;index"`
	CountryCode string         `gorm:"type:varchar(2);not null;index"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store entity.
func (m *StoreModel) ToDomain() *catalog.Store {
	return &catalog.Store{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Platform:    m.Platform,
		CountryCode: m.CountryCode,
	}
}

// FromDomain populates the persistence model from a domain Store entity.
func (m *StoreModel) FromDomain(s *catalog.Store) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Name = s.Name
	m.Platform = s.Platform
	m.CountryCode = s.CountryCode
}

// StoreListingModel is the persistence model for the StoreListing
// domain entity.
type StoreListingModel struct {
	BaseModel
	StoreID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	StoreTitle  string    `gorm:"type:varchar(500);not null;index"`
	ProductCode string    `gorm:"type:varchar(100);index"`
	URL         string    `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (StoreListingModel) TableName() string {
	return "store_listings"
}

// ToDomain converts the persistence model to a domain StoreListing entity.
func (m *StoreListingModel) ToDomain() *catalog.StoreListing {
	return &catalog.StoreListing{
		BaseEntity:  m.BaseModel.ToDomain(),
		StoreID:     m.StoreID,
		ProductID:   m.ProductID,
		StoreTitle:  m.StoreTitle,
		ProductCode: m.ProductCode,
		URL:         m.URL,
	}
}

// FromDomain populates the persistence model from a domain StoreListing entity.
func (m *StoreListingModel) FromDomain(l *catalog.StoreListing) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.StoreID = l.StoreID
	m.ProductID = l.ProductID
	m.StoreTitle = l.StoreTitle
	m.ProductCode = l.ProductCode
	m.URL = l.URL
}

// ListingMappingModel is the persistence model for the ListingMapping
// domain entity.
type ListingMappingModel struct {
	BaseModel
	Platform      sales.Platform `gorm:"type:varchar(20);not null;uniqueIndex:idx_mapping_platform_external,priority:1"`
	ExternalTitle string         `gorm:"type:varchar(500);uniqueIndex:idx_mapping_platform_external,priority:2"`
	ExternalSKU   string         `gorm:"type:varchar(100);uniqueIndex:idx_mapping_platform_external,priority:3"`
	ListingID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedBy     uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ListingMappingModel) TableName() string {
	return "listing_mappings"
}

// ToDomain converts the persistence model to a domain ListingMapping entity.
func (m *ListingMappingModel) ToDomain() *catalog.ListingMapping {
	return &catalog.ListingMapping{
		BaseEntity:    m.BaseModel.ToDomain(),
		Platform:      m.Platform,
		ExternalTitle: m.ExternalTitle,
		ExternalSKU:   m.ExternalSKU,
		ListingID:     m.ListingID,
		CreatedBy:     m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain ListingMapping entity.
func (m *ListingMappingModel) FromDomain(lm *catalog.ListingMapping) {
	m.FromDomainBaseEntity(lm.BaseEntity)
	m.Platform = lm.Platform
	m.ExternalTitle = lm.ExternalTitle
	m.ExternalSKU = lm.ExternalSKU
	m.ListingID = lm.ListingID
	m.CreatedBy = lm.CreatedBy
}
