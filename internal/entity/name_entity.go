package entity

import "github.com/google/uuid"

// Name is a counterparty: a customer, a supplier or both.
type Name struct {
	Id         uuid.UUID
	Code       string
	Name       string
	IsCustomer bool
	IsSupplier bool
}
