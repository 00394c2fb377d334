package slot

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusBooked    Status = "booked"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusBooked:
		return true
	default:
		return false
	}
}

// IsHeld reports whether a booking currently occupies the slot.
func (s Status) IsHeld() bool {
	return s == StatusReserved || s == StatusBooked
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
