package cart

import (
	"testing"
	"time"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func plainProduct() models.Product {
	return models.Product{ID: uuid.New(), Name: "Масляный фильтр", Price: 10000, DiscountPercent: 20, Active: true}
}

func productWithVariants() models.Product {
	pid := uuid.New()
	return models.Product{
		ID: pid, Name: "Щётки стеклоочистителя", Price: 5000, Active: true,
		Variants: []models.ProductVariant{
			{ID: uuid.New(), ProductID: pid, Name: "450 мм"},
			{ID: uuid.New(), ProductID: pid, Name: "600 мм"},
		},
	}
}

func TestAdd_SameSelectionMergesIntoOneLine(t *testing.T) {
	c := New()
	p := plainProduct()

	k1, err := c.Add(p, nil)
	require.NoError(t, err)
	k2, err := c.Add(p, nil)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Quantity(k1))
}

func TestAdd_DifferentVariantsAreDifferentLines(t *testing.T) {
	c := New()
	p := productWithVariants()
	v1, v2 := p.Variants[0].ID, p.Variants[1].ID

	_, err := c.Add(p, &v1)
	require.NoError(t, err)
	_, err = c.Add(p, &v2)
	require.NoError(t, err)
	_, err = c.Add(p, &v1)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Quantity(KeyOf(p.ID, &v1)))
	assert.Equal(t, 1, c.Quantity(KeyOf(p.ID, &v2)))
}

func TestAdd_VariantRules(t *testing.T) {
	c := New()
	withVariants := productWithVariants()
	plain := plainProduct()
	foreign := uuid.New()

	_, err := c.Add(withVariants, nil)
	assert.ErrorIs(t, err, ErrVariantRequired)

	_, err = c.Add(withVariants, &foreign)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	_, err = c.Add(plain, &foreign)
	assert.ErrorIs(t, err, ErrUnexpectedVariant)

	assert.True(t, c.IsEmpty())
}

func TestDefaultVariant(t *testing.T) {
	p := productWithVariants()
	got := DefaultVariant(p)
	require.NotNil(t, got)
	assert.Equal(t, p.Variants[0].ID, *got)
	assert.Nil(t, DefaultVariant(plainProduct()))
}

func TestKeyOf_NoVariantSentinel(t *testing.T) {
	id := uuid.MustParse("6f1c1a3e-9f0e-4a52-9d0b-0b8f7c1d2e3f")
	assert.Equal(t, Key("6f1c1a3e-9f0e-4a52-9d0b-0b8f7c1d2e3f:none"), KeyOf(id, nil))
}

func TestDecrement_RemovesAtZero(t *testing.T) {
	c := New()
	p := plainProduct()
	key, _ := c.Add(p, nil)
	c.Increment(key)

	c.Decrement(key)
	assert.Equal(t, 1, c.Quantity(key))

	c.Decrement(key)
	_, ok := c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	// unknown keys are ignored
	c.Decrement(key)
	c.Increment(key)
	assert.Equal(t, 0, c.Len())
}

func TestLines_InsertionOrderAndCopies(t *testing.T) {
	c := New()
	a, b := plainProduct(), plainProduct()
	ka, _ := c.Add(a, nil)
	kb, _ := c.Add(b, nil)
	c.Increment(ka)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, ka, lines[0].Key)
	assert.Equal(t, kb, lines[1].Key)

	lines[0].Quantity = 99
	assert.Equal(t, 2, c.Quantity(ka))

	c.Remove(ka)
	lines = c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, kb, lines[0].Key)
}

func TestAddQuantity(t *testing.T) {
	c := New()
	p := plainProduct()
	key, err := c.AddQuantity(p, nil, 3)
	require.NoError(t, err)
	_, err = c.AddQuantity(p, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Quantity(key))

	_, err = c.AddQuantity(p, nil, 0)
	assert.ErrorIs(t, err, ErrQuantityInvalid)
}

func TestAddQuantity_MaxQuantity(t *testing.T) {
	c := New()
	p := plainProduct()

	_, err := c.AddQuantity(p, nil, MaxQuantity+1)
	assert.ErrorIs(t, err, ErrQuantityInvalid)
	assert.True(t, c.IsEmpty())

	key, err := c.AddQuantity(p, nil, MaxQuantity-1)
	require.NoError(t, err)

	// слияние сверх лимита отклоняется и не меняет строку
	_, err = c.AddQuantity(p, nil, 2)
	assert.ErrorIs(t, err, ErrQuantityInvalid)
	assert.Equal(t, MaxQuantity-1, c.Quantity(key))

	c.Increment(key)
	c.Increment(key)
	assert.Equal(t, MaxQuantity, c.Quantity(key))
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(plainProduct(), nil)
	c.Add(plainProduct(), nil)
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Lines())
}

func TestJustAdded_Windows(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
	c := NewWithClock(clk.Now)
	p := plainProduct()

	key, _ := c.Add(p, nil)
	assert.True(t, c.JustAdded(key))

	clk.Advance(999 * time.Millisecond)
	assert.True(t, c.JustAdded(key))

	clk.Advance(time.Millisecond)
	assert.False(t, c.JustAdded(key))

	c.Increment(key)
	assert.True(t, c.JustAdded(key))
	clk.Advance(600 * time.Millisecond)
	assert.False(t, c.JustAdded(key))

	assert.False(t, c.JustAdded(Key("missing")))
}

func TestVariantLookup(t *testing.T) {
	c := New()
	p := productWithVariants()
	v := p.Variants[1].ID
	key, _ := c.Add(p, &v)
	line, ok := c.Get(key)
	require.True(t, ok)
	require.NotNil(t, line.Variant())
	assert.Equal(t, "600 мм", line.Variant().Name)
}
