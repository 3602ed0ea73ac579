package domain

import (
	"time"

	"gorm.io/datatypes"
)

// QualityControl is one inspection of a seed lot. A PASS certifies the lot,
// a FAIL rejects it.
type QualityControl struct {
	ID              uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LotID           string         `gorm:"column:lot_id;type:varchar(20);not null;index" json:"lot_id"`
	Lot             *SeedLot       `gorm:"foreignKey:LotID" json:"lot,omitempty"`
	ControlDate     time.Time      `gorm:"column:control_date;not null" json:"control_date"`
	GerminationRate float64        `gorm:"column:germination_rate;type:decimal(5,2);not null" json:"germination_rate"`
	VarietyPurity   float64        `gorm:"column:variety_purity;type:decimal(5,2);not null" json:"variety_purity"`
	MoistureContent *float64       `gorm:"column:moisture_content;type:decimal(5,2)" json:"moisture_content"`
	Result          string         `gorm:"column:result;type:varchar(10);not null" json:"result"`
	Observations    string         `gorm:"column:observations;type:text" json:"observations"`
	TestResults     datatypes.JSON `gorm:"column:test_results;type:json" json:"test_results"`
	Inspector       string         `gorm:"column:inspector" json:"inspector"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (QualityControl) TableName() string {
	return "quality_controls"
}
