package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juros/internal/core"
)

type countingCatalog struct {
	calls int
	err   error
	rates []core.ReferenceRate
}

func (c *countingCatalog) List(ctx context.Context) ([]core.ReferenceRate, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.rates, nil
}

func TestMemoryCatalog(t *testing.T) {
	list, err := NewMemoryCatalog().List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Poupança", list[0].Name)
	assert.Equal(t, "Ações", list[3].Name)

	list[0].Name = "changed"
	again, _ := NewMemoryCatalog().List(context.Background())
	assert.Equal(t, "Poupança", again[0].Name)
}

func TestMemoryCatalogHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryCatalog().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCachedCatalog(t *testing.T) {
	src := &countingCatalog{rates: core.DefaultReferenceRates()}
	c := NewCachedCatalog(src, time.Minute, nil)

	for i := 0; i < 3; i++ {
		list, err := c.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, list, 4)
	}
	assert.Equal(t, 1, src.calls)

	c.Invalidate()
	_, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, uint64(2), c.Cache().Stats().Hits)
}

func TestCachedCatalogDoesNotCacheErrors(t *testing.T) {
	src := &countingCatalog{err: errors.New("database is locked")}
	c := NewCachedCatalog(src, time.Minute, nil)

	_, err := c.List(context.Background())
	assert.Error(t, err)

	src.err = nil
	src.rates = core.DefaultReferenceRates()
	list, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 4)
	assert.Equal(t, 2, src.calls)
}
