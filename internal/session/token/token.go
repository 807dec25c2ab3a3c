// Package token serializes the persisted session record as a signed JWT so
// a tampered record is detected on restore rather than trusted.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"greenreg/internal/session/models"
	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
)

// Claims carries the identity and establishment time of a session record.
type Claims struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Active   bool   `json:"is_active"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session records with HS256.
type Codec struct {
	signingKey []byte
}

func NewCodec(signingKey string) *Codec {
	return &Codec{signingKey: []byte(signingKey)}
}

// Encode signs a record. IssuedAt carries the establishment time; expiry is
// not baked into the token because the ttl slides with activity.
func (c *Codec) Encode(record models.Record) (string, error) {
	claims := Claims{
		Email:    record.Identity.Email,
		FullName: record.Identity.FullName,
		Role:     record.Identity.Role.String(),
		Active:   record.Identity.Active,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  record.Identity.ID.String(),
			IssuedAt: jwt.NewNumericDate(record.EstablishedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session record")
	}
	return signed, nil
}

// Decode verifies the signature and reconstructs the record. Any parse or
// signature failure comes back as an unauthorized error; callers purge.
func (c *Codec) Decode(signed string) (models.Record, error) {
	parsed, err := jwt.ParseWithClaims(signed, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return models.Record{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session record")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return models.Record{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session record claims")
	}

	adminID, err := id.ParseAdminID(claims.Subject)
	if err != nil {
		return models.Record{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session record subject")
	}
	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return models.Record{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session record role")
	}

	var establishedAt time.Time
	if claims.IssuedAt == nil {
		return models.Record{}, dErrors.New(dErrors.CodeUnauthorized, "session record missing timestamp")
	}
	establishedAt = claims.IssuedAt.Time

	return models.Record{
		Identity: models.Identity{
			ID:       adminID,
			Email:    claims.Email,
			FullName: claims.FullName,
			Role:     role,
			Active:   claims.Active,
		},
		EstablishedAt: establishedAt,
	}, nil
}
