package util

import (
	"regexp"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	a, b := NewULID(), NewULID()
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)
	_, err := ulid.Parse(a)
	assert.NoError(t, err)
}

func TestNewShareLink(t *testing.T) {
	link, err := NewShareLink(12)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{12}$`), link)

	_, err = NewShareLink(0)
	assert.Error(t, err)
}

func TestStringToNullString(t *testing.T) {
	assert.False(t, StringToNullString("").Valid)
	assert.Equal(t, "x", StringToNullString("x").String)
}
