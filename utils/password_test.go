package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hashed)

	assert.NoError(t, ComparePasswords(hashed, "secret123"))
	assert.Error(t, ComparePasswords(hashed, "secret124"))
}
