package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	u, err := CreateUser("Maria Silva", "maria@example.com", "segredo123")
	require.NoError(t, err)

	assert.NotEqual(t, "segredo123", u.Password)
	assert.True(t, u.CheckPassword("segredo123"))
	assert.False(t, u.CheckPassword("errado"))
	assert.Equal(t, ROLE_USER, u.Role)
	assert.Equal(t, STATUS_INACTIVE, u.Status)
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("Jo", "not-an-email", "segredo123")
	assert.Error(t, err)

	_, err = CreateUser("Maria Silva", "maria@example.com", "curta")
	assert.Error(t, err)
}

func TestGenerateActivationToken(t *testing.T) {
	u := &User{}
	require.NoError(t, u.GenerateActivationToken())

	assert.Len(t, u.ActivationToken, 32)
	assert.NotNil(t, u.ActivationSentAt)
}

func TestMarkEmailVerified(t *testing.T) {
	u := &User{Status: STATUS_INACTIVE}
	require.NoError(t, u.GenerateActivationToken())

	u.MarkEmailVerified()

	assert.True(t, u.IsActive())
	assert.NotNil(t, u.EmailVerifiedAt)
	assert.Equal(t, "", u.ActivationToken)
	assert.Nil(t, u.ActivationSentAt)
}
