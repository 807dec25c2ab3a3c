package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenreg/internal/session/models"
	id "greenreg/pkg/domain"
	dErrors "greenreg/pkg/domain-errors"
)

func sampleRecord() models.Record {
	return models.Record{
		Identity: models.Identity{
			ID:       id.NewAdminID(),
			Email:    "admin@environment.kn.gov.ng",
			FullName: "System Administrator",
			Role:     id.RoleSuperAdmin,
			Active:   true,
		},
		EstablishedAt: time.Now().Truncate(time.Second),
	}
}

func TestRoundTrip(t *testing.T) {
	codec := NewCodec("test-signing-key")
	record := sampleRecord()

	signed, err := codec.Encode(record)
	require.NoError(t, err)

	got, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, record.Identity, got.Identity)
	assert.True(t, got.EstablishedAt.Equal(record.EstablishedAt))
}

func TestDecodeRejectsTampering(t *testing.T) {
	codec := NewCodec("test-signing-key")
	signed, err := codec.Encode(sampleRecord())
	require.NoError(t, err)

	t.Run("flipped payload byte", func(t *testing.T) {
		parts := strings.Split(signed, ".")
		require.Len(t, parts, 3)
		payload := []byte(parts[1])
		payload[0] ^= 1
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		_, err := codec.Decode(tampered)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewCodec("different-key")
		_, err := other.Decode(signed)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := codec.Decode("not-a-token")
		require.Error(t, err)
	})
}

func TestDecodeRejectsUnknownRole(t *testing.T) {
	codec := NewCodec("test-signing-key")
	record := sampleRecord()
	record.Identity.Role = id.Role("auditor")

	signed, err := codec.Encode(record)
	require.NoError(t, err)

	_, err = codec.Decode(signed)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
