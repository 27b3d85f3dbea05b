package paseto

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hr-records/models"
)

func testSecret(fill byte) string {
	return base64.URLEncoding.EncodeToString([]byte(strings.Repeat(string(fill), keySize)))
}

func TestGenerateAndValidate(t *testing.T) {
	maker, err := NewMaker(testSecret('k'), time.Hour)
	require.NoError(t, err)

	admin := &models.Administrator{ID: primitive.NewObjectID(), Email: "admin@example.com", Role: models.RoleAdmin}
	token, err := maker.GenerateToken(admin)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "v2.local."))

	claims, err := maker.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, admin.ID, claims.AdminID)
	require.Equal(t, admin.Email, claims.Email)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateRejectsOtherKey(t *testing.T) {
	issuer, err := NewMaker(testSecret('a'), time.Hour)
	require.NoError(t, err)
	verifier, err := NewMaker(testSecret('b'), time.Hour)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(&models.Administrator{ID: primitive.NewObjectID(), Role: models.RoleStaff})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	maker, err := NewMaker(testSecret('k'), time.Millisecond)
	require.NoError(t, err)

	token, err := maker.GenerateToken(&models.Administrator{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = maker.ValidateToken(token)
	require.Error(t, err)
}

func TestDecodeKey(t *testing.T) {
	key, err := DecodeKey(testSecret('x'))
	require.NoError(t, err)
	require.Len(t, key, keySize)

	raw := base64.RawStdEncoding.EncodeToString([]byte(strings.Repeat("y", keySize)))
	key, err = DecodeKey(raw)
	require.NoError(t, err)
	require.Len(t, key, keySize)

	_, err = DecodeKey(base64.StdEncoding.EncodeToString([]byte("short")))
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = DecodeKey("!!not base64!!")
	require.Error(t, err)
}
