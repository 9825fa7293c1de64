// Package rates serves the illustrative reference rates shown next to the
// simulator. The data is read-only and never feeds the calculation.
package rates

import (
	"context"

	"juros/internal/core"
)

// Catalog lists reference rates in display order.
type Catalog interface {
	List(ctx context.Context) ([]core.ReferenceRate, error)
}

// MemoryCatalog serves the built-in table.
type MemoryCatalog struct {
	rates []core.ReferenceRate
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{rates: core.DefaultReferenceRates()}
}

// NewStaticCatalog serves the given rates, mostly for tests.
func NewStaticCatalog(rates []core.ReferenceRate) *MemoryCatalog {
	return &MemoryCatalog{rates: rates}
}

func (m *MemoryCatalog) List(ctx context.Context) ([]core.ReferenceRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]core.ReferenceRate, len(m.rates))
	copy(out, m.rates)
	return out, nil
}
