package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("admin")
	require.NoError(t, err)
	assert.NotEqual(t, "admin", hashed)

	assert.True(t, CheckPassword(hashed, "admin"))
	assert.False(t, CheckPassword(hashed, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "admin"))
}
