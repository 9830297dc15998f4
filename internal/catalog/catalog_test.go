package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKnownCode(t *testing.T) {
	c := New()
	entry := c.Lookup("P0217")
	assert.Equal(t, "Engine Overtemp Condition", entry.Description)
	assert.NotEmpty(t, entry.Advice)
}

func TestLookupIsTotal(t *testing.T) {
	c := New()
	for _, code := range []string{"", "P9999", "garbage", "p0217", "0217", "NULL"} {
		entry := c.Lookup(code)
		assert.NotEmpty(t, entry.Description, "code %q", code)
		assert.NotEmpty(t, entry.Advice, "code %q", code)
	}
}

func TestLookupFallbackEmbedsCode(t *testing.T) {
	c := New()
	entry := c.Lookup("U0421")
	assert.Equal(t, "Critical Unidentified Fault", entry.Description)
	assert.Contains(t, entry.Advice, "U0421")
}
