package domain

import (
	"time"
)

// Production is one sowing-to-harvest cycle tied to a seed lot and a parcel.
// Harvest completion increments the lot quantity and rests the parcel as a
// single atomic unit.
type Production struct {
	ID              uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LotID           string      `gorm:"column:lot_id;type:varchar(20);not null;index" json:"lot_id"`
	Lot             *SeedLot    `gorm:"foreignKey:LotID" json:"lot,omitempty"`
	ParcelID        uint        `gorm:"column:parcel_id;not null;index" json:"parcel_id"`
	Parcel          *Parcel     `gorm:"foreignKey:ParcelID" json:"parcel,omitempty"`
	MultiplierID    uint        `gorm:"column:multiplier_id;not null;index" json:"multiplier_id"`
	Multiplier      *Multiplier `gorm:"foreignKey:MultiplierID" json:"multiplier,omitempty"`
	StartDate       time.Time   `gorm:"column:start_date;not null" json:"start_date"`
	SowingDate      *time.Time  `gorm:"column:sowing_date" json:"sowing_date"`
	HarvestDate     *time.Time  `gorm:"column:harvest_date" json:"harvest_date"`
	PlannedQuantity float64     `gorm:"column:planned_quantity;type:decimal(12,2)" json:"planned_quantity"`
	ActualYield     *float64    `gorm:"column:actual_yield;type:decimal(12,2)" json:"actual_yield"`
	Status          string      `gorm:"column:status;type:varchar(20);not null;default:'PLANNED'" json:"status"`
	Notes           string      `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func (Production) TableName() string {
	return "productions"
}
