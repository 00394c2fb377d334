package response

const (
	FrameSnapshot = "snapshot"
	FrameError    = "error"
)

// LiveFrame is one WebSocket message of a live view. An error frame keeps
// the stream open; the next snapshot supersedes it.
type LiveFrame[T any] struct {
	Type  string `json:"type"`
	Items []*T   `json:"items,omitempty"`
	Error string `json:"error,omitempty"`
}

func SnapshotFrame[T any](items []*T) LiveFrame[T] {
	if items == nil {
		items = []*T{}
	}
	return LiveFrame[T]{Type: FrameSnapshot, Items: items}
}

func ErrorFrame[T any](msg string) LiveFrame[T] {
	return LiveFrame[T]{Type: FrameError, Error: msg}
}
