package patch

// Coalesce returns *ptr when ptr is set, otherwise fallback.
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}
