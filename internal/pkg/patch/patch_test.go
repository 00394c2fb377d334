//go:build unit

package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	email := "driver@example.com"
	empty := ""

	assert.Equal(t, email, Coalesce(&email, "fallback"))
	assert.Equal(t, "", Coalesce(&empty, "fallback"))
	assert.Equal(t, "fallback", Coalesce[string](nil, "fallback"))
	assert.Equal(t, 0, Coalesce(new(int), 7))
}
