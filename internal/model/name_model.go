package model

import "github.com/google/uuid"

type Name struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code       string    `gorm:"type:varchar(64);uniqueIndex"`
	Name       string    `gorm:"type:varchar(255);not null"`
	IsCustomer bool      `gorm:"not null;default:false"`
	IsSupplier bool      `gorm:"not null;default:false"`
}

func (Name) TableName() string {
	return "names"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Name{},
		&Invoice{},
		&Requisition{},
		&Stocktake{},
	}
}
