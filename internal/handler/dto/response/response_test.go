//go:build unit

package response_test

import (
	"testing"
	"time"

	resdto "parkpass/internal/handler/dto/response"
	"parkpass/internal/usecase/commands"
	"parkpass/internal/usecase/queries"
	"parkpass/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlotView(t *testing.T) {
	view := builder.NewSlotBuilder().WithName("B-07").BuildView()
	bookingID := uuid.New()
	until := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	view.Status = "reserved"
	view.CurrentBookingID = &bookingID
	view.ReservedUntil = &until

	got := resdto.FromSlotView(view)

	want := &resdto.SlotResponse{
		ID:               view.ID,
		Name:             "B-07",
		Location:         view.Location,
		HourlyPrice:      view.HourlyPrice,
		TotalSpaces:      view.TotalSpaces,
		AvailableSpaces:  view.AvailableSpaces,
		Features:         view.Features,
		Status:           "reserved",
		CurrentBookingID: &bookingID,
		ReservedUntil:    &until,
		UpdatedAt:        view.UpdatedAt,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromSlotView mismatch (-want +got):\n%s", diff)
	}
}

func TestFromBookingViews(t *testing.T) {
	views := []*queries.BookingView{
		builder.NewBookingBuilder().ForUser("uid-1").BuildView(),
		builder.NewBookingBuilder().ForUser("uid-2").BuildView(),
	}
	got := resdto.FromBookingViews(views)
	require.Len(t, got, 2)
	assert.Equal(t, views[0].ID, got[0].ID)
	assert.Equal(t, "uid-2", got[1].UserID)
	assert.Equal(t, views[1].Amount, got[1].Amount)

	assert.Empty(t, resdto.FromBookingViews(nil))
}

func TestFromBookingPage(t *testing.T) {
	views := []*queries.BookingView{builder.NewBookingBuilder().BuildView()}

	page := resdto.FromBookingPage(views, &queries.Cursor{After: "abc"})
	require.Len(t, page.Bookings, 1)
	assert.Equal(t, "abc", page.NextCursor)

	last := resdto.FromBookingPage(nil, nil)
	assert.NotNil(t, last.Bookings)
	assert.Empty(t, last.NextCursor)
}

func TestFromPaymentHandle(t *testing.T) {
	id := uuid.New()
	got := resdto.FromPaymentHandle(id, &commands.PaymentHandle{Reference: "chrg_1", AuthorizeURL: "https://pay"})
	assert.Equal(t, &resdto.PaymentResponse{BookingID: id, Reference: "chrg_1", AuthorizeURL: "https://pay"}, got)
}

func TestSnapshotFrame_NeverNullItems(t *testing.T) {
	frame := resdto.SnapshotFrame[resdto.SlotResponse](nil)
	assert.Equal(t, resdto.FrameSnapshot, frame.Type)
	assert.NotNil(t, frame.Items)
}
