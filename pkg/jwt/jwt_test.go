package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/liquor-ledger/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "u-1", pkgjwt.RoleCashier, "hotel-auth", 5)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse("secret", "hotel-auth", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, pkgjwt.RoleCashier, claims.Role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "u-1", pkgjwt.RoleOwner, "", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro", "", tok)
	assert.Error(t, err)
}

func TestParse_EmisorIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "u-1", pkgjwt.RoleOwner, "otro-emisor", 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("secret", "hotel-auth", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate("secret", "u-1", pkgjwt.RoleOwner, "", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("secret", "", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecreto(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", pkgjwt.RoleOwner, "", 5)
	assert.Error(t, err)
}
