package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyndicationToken(t *testing.T) {
	token := syndicationToken("1884321098765432109")
	assert.NotEmpty(t, token)
	assert.False(t, strings.ContainsAny(token, "0."), "token must strip zeros and the radix point")

	// Deterministic for the same ID.
	assert.Equal(t, token, syndicationToken("1884321098765432109"))

	assert.Empty(t, syndicationToken("not-a-number"))
}
