package domain

import (
	"time"

	"gorm.io/gorm"
)

// Parcel is a field where productions take place. A parcel cycles through
// AVAILABLE -> IN_USE (production started) -> RESTING (after harvest).
type Parcel struct {
	ID               uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name             string         `gorm:"column:name;not null" json:"name"`
	Area             float64        `gorm:"column:area;type:decimal(10,2);not null" json:"area"`
	Latitude         *float64       `gorm:"column:latitude;type:decimal(10,7)" json:"latitude"`
	Longitude        *float64       `gorm:"column:longitude;type:decimal(10,7)" json:"longitude"`
	Status           string         `gorm:"column:status;type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	SoilType         string         `gorm:"column:soil_type" json:"soil_type"`
	IrrigationSystem string         `gorm:"column:irrigation_system" json:"irrigation_system"`
	Address          string         `gorm:"column:address" json:"address"`
	MultiplierID     *uint          `gorm:"column:multiplier_id;index" json:"multiplier_id"`
	Multiplier       *Multiplier    `gorm:"foreignKey:MultiplierID" json:"multiplier,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Parcel) TableName() string {
	return "parcels"
}
