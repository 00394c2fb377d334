package response

import "github.com/jinzhu/copier"

// mapInto copies same-named fields from a read model into a response DTO.
// Field mismatches are programming errors, so it panics and lets the
// recovery middleware answer 500.
func mapInto[T any](src any) *T {
	var dst T
	if err := copier.Copy(&dst, src); err != nil {
		panic(err)
	}
	return &dst
}

func mapAll[T any, S any](items []S) []*T {
	out := make([]*T, len(items))
	for i, it := range items {
		out[i] = mapInto[T](it)
	}
	return out
}
