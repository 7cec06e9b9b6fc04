package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTiers(t *testing.T) {
	p, err := ParseTiers("10:5, 5:3,20:7")
	require.NoError(t, err)
	require.Len(t, p, 3)
	assert.Equal(t, 5, p[0].MinOrders)

	assert.Equal(t, 0, p.DiscountFor(4))
	assert.Equal(t, 3, p.DiscountFor(5))
	assert.Equal(t, 5, p.DiscountFor(19))
	assert.Equal(t, 7, p.DiscountFor(100))
}

func TestParseTiers_Empty(t *testing.T) {
	p, err := ParseTiers("")
	require.NoError(t, err)
	assert.Equal(t, 0, p.DiscountFor(1000))
}

func TestParseTiers_Invalid(t *testing.T) {
	for _, s := range []string{"5", "x:3", "5:101", "-1:3"} {
		_, err := ParseTiers(s)
		assert.Error(t, err, s)
	}
}

func TestRequireAdmin(t *testing.T) {
	_, err := requireAdmin(WithUserID(t.Context(), uuid.New()))
	assert.ErrorIs(t, err, ErrForbidden)
}
