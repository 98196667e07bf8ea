package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	tokenString, err := CreateToken(42, "lin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	userID, err := VerifyToken(tokenString)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	tokenString, err := CreateToken(42, "lin")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "other-secret")
	_, err = VerifyToken(tokenString)
	assert.Error(t, err)
}

func TestVerifyToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	_, err := VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestCreateToken_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	_, err := CreateToken(1, "lin")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}
