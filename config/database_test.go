package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanzicards/hanzicards-api/models"
)

func TestConnect_InMemoryFallback(t *testing.T) {
	t.Setenv("DB_URL", "")

	require.NoError(t, Connect())
	require.NotNil(t, Database)

	// The migrated schema accepts writes.
	user := models.User{Username: "lin", PasswordHash: "x"}
	require.NoError(t, Database.Create(&user).Error)
}
