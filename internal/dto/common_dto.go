package dto

import "github.com/google/uuid"

type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
}

type IdResponse struct {
	Id uuid.UUID `json:"id"`
}

type DeleteRequest struct {
	Ids []uuid.UUID `json:"ids" validate:"required,min=1,dive,required"`
}

type DeleteResponse struct {
	Ids []uuid.UUID `json:"ids"`
}

type NameReference struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
