package jwtutil_test

import (
	"testing"

	"github.com/buildledger/construct-api/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	util := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "round-trip-key", ExpirationHours: 1})

	token, err := util.GenerateToken("pat@example.com", 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", claims.Email)
	assert.Equal(t, uint(42), claims.TenantID)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	signer := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "key-a", ExpirationHours: 1})
	verifier := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "key-b", ExpirationHours: 1})

	token, err := signer.GenerateToken("pat@example.com", 42)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	util := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "key", ExpirationHours: 1})

	_, err := util.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestNilConfigErrors(t *testing.T) {
	util := jwtutil.NewJWTUtil(nil)

	_, err := util.GenerateToken("pat@example.com", 1)
	assert.Error(t, err)

	_, err = util.ValidateToken("whatever")
	assert.Error(t, err)
}
