package paseto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hr-records/models"
)

const keySize = 32

var ErrInvalidKey = errors.New("PASETO_SECRET must decode to exactly 32 bytes")

// Maker issues and validates PASETO v2 local tokens for administrators.
type Maker struct {
	v2  *paseto.V2
	key []byte
	ttl time.Duration
}

func NewMaker(secretBase64 string, ttl time.Duration) (*Maker, error) {
	key, err := DecodeKey(secretBase64)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Maker{v2: paseto.NewV2(), key: key, ttl: ttl}, nil
}

// DecodeKey accepts URL-safe base64 (padded or not) and standard base64.
func DecodeKey(secret string) ([]byte, error) {
	decoders := []*base64.Encoding{
		base64.URLEncoding,
		base64.RawURLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}

	var lastErr error
	for _, enc := range decoders {
		key, err := enc.DecodeString(secret)
		if err != nil {
			lastErr = err
			continue
		}
		if len(key) != keySize {
			return nil, fmt.Errorf("%w, got %d bytes", ErrInvalidKey, len(key))
		}
		return key, nil
	}
	return nil, fmt.Errorf("failed to decode PASETO_SECRET: %w", lastErr)
}

func (m *Maker) GenerateToken(admin *models.Administrator) (string, error) {
	now := time.Now()

	token := paseto.JSONToken{
		IssuedAt:   now,
		Expiration: now.Add(m.ttl),
		NotBefore:  now,
		Subject:    admin.ID.Hex(),
	}
	token.Set("email", admin.Email)
	token.Set("role", admin.Role)

	return m.v2.Encrypt(m.key, token, "")
}

func (m *Maker) ValidateToken(tokenString string) (*models.Claims, error) {
	var token paseto.JSONToken
	var footer string

	if err := m.v2.Decrypt(tokenString, m.key, &token, &footer); err != nil {
		return nil, fmt.Errorf("failed to decrypt paseto token: %w", err)
	}

	if err := token.Validate(); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	adminID, err := primitive.ObjectIDFromHex(token.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject format: %w", err)
	}

	return &models.Claims{
		AdminID: adminID,
		Email:   token.Get("email"),
		Role:    token.Get("role"),
	}, nil
}
