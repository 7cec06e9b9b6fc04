package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHSProvider_RoundTrip(t *testing.T) {
	p := NewHSProvider("secret", "avtoray", "avtoray-api")
	uid := uuid.New()

	tok, exp, err := p.SignAccess(context.Background(), uid, true, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := p.ParseAndValidateAccess(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestHSProvider_RejectsForeignSecret(t *testing.T) {
	a := NewHSProvider("secret-a", "avtoray", "")
	b := NewHSProvider("secret-b", "avtoray", "")

	tok, _, err := a.SignAccess(context.Background(), uuid.New(), false, time.Hour)
	require.NoError(t, err)

	_, err = b.ParseAndValidateAccess(context.Background(), tok)
	assert.Error(t, err)
}

func TestHSProvider_RejectsExpired(t *testing.T) {
	p := NewHSProvider("secret", "avtoray", "")
	past := time.Now().Add(-2 * time.Hour)
	p.now = func() time.Time { return past }

	tok, _, err := p.SignAccess(context.Background(), uuid.New(), false, time.Minute)
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.ParseAndValidateAccess(context.Background(), tok)
	assert.Error(t, err)
}
