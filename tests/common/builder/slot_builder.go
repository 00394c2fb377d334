//go:build unit || e2e

package builder

import (
	"time"

	"parkpass/internal/domain/slot"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotBuilder struct {
	ID               uuid.UUID
	Name             string
	Location         string
	HourlyPrice      int64
	TotalSpaces      int
	Features         []string
	Status           slot.Status
	CurrentBookingID *uuid.UUID
	ReservedUntil    *time.Time
	Version          int64
	CreatedAt        time.Time
}

func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		ID:          uuid.New(),
		Name:        "A-01",
		Location:    "Level 1, Westlands Mall",
		HourlyPrice: 10,
		TotalSpaces: 1,
		Features:    []string{"Covered", "24/7"},
		Status:      slot.StatusAvailable,
		CreatedAt:   time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) WithName(name string) *SlotBuilder {
	b.Name = name
	return b
}

func (b *SlotBuilder) WithHourlyPrice(price int64) *SlotBuilder {
	b.HourlyPrice = price
	return b
}

// Held marks the slot reserved or booked by a (random) booking.
func (b *SlotBuilder) Held(status slot.Status) *SlotBuilder {
	id := uuid.New()
	until := b.CreatedAt.Add(2 * time.Hour)
	b.Status = status
	b.CurrentBookingID = &id
	b.ReservedUntil = &until
	return b
}

// Build methods
func (b *SlotBuilder) BuildDomain() (*slot.Slot, error) {
	return slot.ReconstructSlot(
		b.ID, b.Name, b.Location, b.HourlyPrice,
		b.TotalSpaces, b.TotalSpaces, b.Features,
		b.Status, b.CurrentBookingID, b.ReservedUntil,
		b.Version, b.CreatedAt, b.CreatedAt,
	)
}

func (b *SlotBuilder) MustBuildDomain() *slot.Slot {
	s, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *SlotBuilder) BuildCreateParams() pgstore.CreateSlotParams {
	return pgstore.CreateSlotParams{
		ID:              b.ID,
		Name:            b.Name,
		Location:        b.Location,
		HourlyPrice:     b.HourlyPrice,
		TotalSpaces:     int32(b.TotalSpaces),
		AvailableSpaces: int32(b.TotalSpaces),
		Features:        b.Features,
		CreatedAt:       b.CreatedAt,
	}
}

func (b *SlotBuilder) BuildView() *queries.SlotView {
	return &queries.SlotView{
		ID:               b.ID,
		Name:             b.Name,
		Location:         b.Location,
		HourlyPrice:      b.HourlyPrice,
		TotalSpaces:      b.TotalSpaces,
		AvailableSpaces:  b.TotalSpaces,
		Features:         slot.NormalizeFeatures(b.Features),
		Status:           b.Status.String(),
		CurrentBookingID: b.CurrentBookingID,
		ReservedUntil:    b.ReservedUntil,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.CreatedAt,
	}
}
