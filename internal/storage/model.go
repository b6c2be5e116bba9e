package storage

import (
	"time"
)

// Catalog accumulates the consumable item names seen on saved bills, so the
// UI can suggest them next time.
type Catalog struct {
	Items map[string]ItemUsage
}

type ItemUsage struct {
	Name        string
	CostPerUnit float64
	UsedCount   int
	LastUsedAt  time.Time
}

func NewCatalog() *Catalog {
	catalog := &Catalog{}

	catalog.valid()

	return catalog
}

func (catalog *Catalog) valid() {
	if catalog.Items == nil {
		catalog.Items = make(map[string]ItemUsage)
	}
}

func (catalog *Catalog) use(name string, costPerUnit float64, quantity int, at time.Time) {
	if name == "" {
		return
	}

	usage, ok := catalog.Items[name]
	if !ok {
		usage = ItemUsage{
			Name: name,
		}
	}

	usage.CostPerUnit = costPerUnit
	usage.UsedCount += quantity
	usage.LastUsedAt = at

	catalog.Items[name] = usage
}
