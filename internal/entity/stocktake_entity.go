package entity

import (
	"time"

	"github.com/google/uuid"
)

type Stocktake struct {
	Id              uuid.UUID
	StoreId         string
	StocktakeNumber int64
	Status          string
	Description     string
	Comment         string
	StocktakeDate   *time.Time
	IsLocked        bool
	Lines           []StocktakeLine
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	FinalisedAt     *time.Time
}

// StocktakeLine compares the packs on record when the line was added with
// the packs counted. CountedNumberOfPacks is nil until the item is counted.
type StocktakeLine struct {
	Id                    uuid.UUID
	ItemId                string
	ItemName              string
	PackSize              float64
	SnapshotNumberOfPacks float64
	CountedNumberOfPacks  *float64
	Comment               string
}

// Difference is counted minus snapshot packs, zero while uncounted.
func (l StocktakeLine) Difference() float64 {
	if l.CountedNumberOfPacks == nil {
		return 0
	}
	return *l.CountedNumberOfPacks - l.SnapshotNumberOfPacks
}
