package domain

import (
	"time"

	"gorm.io/gorm"
)

// Multiplier is an external partner who receives distributed seed lots to
// grow the next generation.
type Multiplier struct {
	ID                 uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name               string         `gorm:"column:name;not null" json:"name"`
	Status             string         `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	Address            string         `gorm:"column:address" json:"address"`
	Latitude           *float64       `gorm:"column:latitude;type:decimal(10,7)" json:"latitude"`
	Longitude          *float64       `gorm:"column:longitude;type:decimal(10,7)" json:"longitude"`
	YearsExperience    int            `gorm:"column:years_experience" json:"years_experience"`
	CertificationLevel string         `gorm:"column:certification_level;type:varchar(20)" json:"certification_level"`
	Specialization     string         `gorm:"column:specialization" json:"specialization"`
	Phone              string         `gorm:"column:phone" json:"phone"`
	Email              string         `gorm:"column:email;uniqueIndex" json:"email"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Multiplier) TableName() string {
	return "multipliers"
}
