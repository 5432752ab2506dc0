package database

import (
	"time"
)

// AlmanacDocument is one persisted almanac, stored as JSON
type AlmanacDocument struct {
	Name      string    `gorm:"primaryKey;column:name"`
	Body      string    `gorm:"column:body;type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName specifies the table name for GORM
func (AlmanacDocument) TableName() string {
	return "almanac_documents"
}
