package response

import (
	"time"

	"parkpass/internal/usecase/commands"
	"parkpass/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	UserEmail     *string   `json:"user_email,omitempty"`
	SlotID        uuid.UUID `json:"slot_id"`
	SlotName      string    `json:"slot_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Amount        int64     `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	PaymentRef    *string   `json:"payment_ref,omitempty"`
	ReservedUntil time.Time `json:"reserved_until"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return mapInto[BookingResponse](v)
}

func FromBookingViews(vs []*queries.BookingView) []*BookingResponse {
	return mapAll[BookingResponse](vs)
}

// BookingListResponse is one page of bookings. NextCursor is omitted on the
// last page.
type BookingListResponse struct {
	Bookings   []*BookingResponse `json:"bookings"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

func FromBookingPage(vs []*queries.BookingView, next *queries.Cursor) *BookingListResponse {
	resp := &BookingListResponse{Bookings: FromBookingViews(vs)}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp
}

type ReserveResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
}

type PaymentResponse struct {
	BookingID    uuid.UUID `json:"booking_id"`
	Reference    string    `json:"reference"`
	AuthorizeURL string    `json:"authorize_url,omitempty"`
}

func FromPaymentHandle(bookingID uuid.UUID, h *commands.PaymentHandle) *PaymentResponse {
	resp := mapInto[PaymentResponse](h)
	resp.BookingID = bookingID
	return resp
}
