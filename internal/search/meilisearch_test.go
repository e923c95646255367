package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishedFilter(t *testing.T) {
	assert.Equal(t, []string{"isPublished = true"}, publishedFilter(""))

	filter := publishedFilter("KO01")
	require.Len(t, filter, 2)
	assert.Equal(t, `locationCode = "KO01"`, filter[1])

	// Quotes in the value stay inside the quoted string.
	filter = publishedFilter(`KO' OR status = 'x`)
	require.Len(t, filter, 2)
	assert.Equal(t, `locationCode = "KO' OR status = 'x"`, filter[1])

	filter = publishedFilter(`KO"x`)
	assert.Equal(t, `locationCode = "KO\"x"`, filter[1])
}
