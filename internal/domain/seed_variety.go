package domain

import (
	"time"

	"gorm.io/gorm"
)

// SeedVariety is a named cultivar; its code is the source of lot ID prefixes.
type SeedVariety struct {
	ID             uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Code           string         `gorm:"column:code;type:varchar(20);uniqueIndex;not null" json:"code"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	CropType       string         `gorm:"column:crop_type;type:varchar(20);not null" json:"crop_type"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	MaturityDays   int            `gorm:"column:maturity_days" json:"maturity_days"`
	YieldPotential *float64       `gorm:"column:yield_potential;type:decimal(10,2)" json:"yield_potential"`
	Origin         string         `gorm:"column:origin" json:"origin"`
	ReleaseYear    *int           `gorm:"column:release_year" json:"release_year"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SeedVariety) TableName() string {
	return "seed_varieties"
}
