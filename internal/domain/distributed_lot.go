package domain

import (
	"time"

	"gorm.io/datatypes"
)

// DistributedLot records a quantity transfer from a seed lot to a multiplier.
// Rows are immutable once created; the Event column snapshots the lot
// quantity before and after the transfer.
type DistributedLot struct {
	ID               uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LotID            string         `gorm:"column:lot_id;type:varchar(20);not null;index" json:"lot_id"`
	Lot              *SeedLot       `gorm:"foreignKey:LotID" json:"lot,omitempty"`
	MultiplierID     uint           `gorm:"column:multiplier_id;not null;index" json:"multiplier_id"`
	Multiplier       *Multiplier    `gorm:"foreignKey:MultiplierID" json:"multiplier,omitempty"`
	Quantity         float64        `gorm:"column:quantity;type:decimal(12,2);not null" json:"quantity"`
	DistributionDate time.Time      `gorm:"column:distribution_date;not null" json:"distribution_date"`
	Event            datatypes.JSON `gorm:"column:event;type:json" json:"event"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (DistributedLot) TableName() string {
	return "distributed_lots"
}
