package domain

import (
	"time"

	"gorm.io/gorm"
)

// SeedLot is one traceable batch of seed at a given generation level.
// The ID encodes variety prefix, level, year and sequence (e.g. SA-GO-2023-001)
// and is immutable once assigned.
type SeedLot struct {
	ID             string         `gorm:"column:id;type:varchar(20);primaryKey" json:"id"`
	VarietyID      uint           `gorm:"column:variety_id;not null;index" json:"variety_id"`
	Variety        *SeedVariety   `gorm:"foreignKey:VarietyID" json:"variety,omitempty"`
	Level          string         `gorm:"column:level;type:varchar(3);not null;index" json:"level"`
	Quantity       float64        `gorm:"column:quantity;type:decimal(12,2);not null" json:"quantity"`
	ProductionDate time.Time      `gorm:"column:production_date;not null" json:"production_date"`
	ExpiryDate     *time.Time     `gorm:"column:expiry_date" json:"expiry_date"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index" json:"status"`
	BatchNumber    string         `gorm:"column:batch_number" json:"batch_number"`
	Notes          string         `gorm:"column:notes;type:text" json:"notes"`
	QRCode         string         `gorm:"column:qr_code;type:text" json:"qr_code"`
	ParentLotID    *string        `gorm:"column:parent_lot_id;type:varchar(20);index" json:"parent_lot_id"`
	ParentLot      *SeedLot       `gorm:"foreignKey:ParentLotID" json:"parent_lot,omitempty"`
	ChildLots      []SeedLot      `gorm:"foreignKey:ParentLotID" json:"child_lots,omitempty"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SeedLot) TableName() string {
	return "seed_lots"
}

// LotSequence is the per-(prefix, level, year) counter backing lot ID
// generation. The row is upserted and incremented inside the same
// transaction as the lot insert so concurrent creations cannot collide.
type LotSequence struct {
	ID     uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Prefix string `gorm:"column:prefix;type:varchar(2);not null;uniqueIndex:idx_lot_seq_scope" json:"prefix"`
	Level  string `gorm:"column:level;type:varchar(3);not null;uniqueIndex:idx_lot_seq_scope" json:"level"`
	Year   int    `gorm:"column:year;not null;uniqueIndex:idx_lot_seq_scope" json:"year"`
	Next   int    `gorm:"column:next;not null;default:0" json:"next"`
}

func (LotSequence) TableName() string {
	return "lot_sequences"
}
