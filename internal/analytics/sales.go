package analytics

import (
	"sort"

	"storepulse/internal/dataset"
)

// SalesStore is one store's totals from the sales-by-time extract.
type SalesStore struct {
	StoreID    string
	StoreName  string
	GrossSales float64
	Orders     float64
	AvgAOV     float64
	Commission float64
	NetRevenue float64
}

// SalesStorePerformance groups sales rows by store, sorted by store id. AvgAOV
// is the mean of the per-row AOV column, not sales over orders.
func SalesStorePerformance(records []dataset.SalesRecord) []SalesStore {
	type acc struct {
		name                     string
		rows                     int
		gross, orders, aov, comm sum
	}
	groups := make(map[string]*acc)
	for _, r := range records {
		a, ok := groups[r.StoreID]
		if !ok {
			a = &acc{name: r.StoreName}
			groups[r.StoreID] = a
		}
		if a.name == "" {
			a.name = r.StoreName
		}
		a.rows++
		a.gross.add(r.GrossSales)
		a.orders.add(r.Orders)
		a.aov.add(r.AOV)
		a.comm.add(r.Commission)
	}

	out := make([]SalesStore, 0, len(groups))
	for id, a := range groups {
		s := SalesStore{
			StoreID:    id,
			StoreName:  a.name,
			GrossSales: round2(a.gross.value()),
			Orders:     a.orders.value(),
			AvgAOV:     round2(a.aov.value() / float64(a.rows)),
			Commission: round2(a.comm.value()),
		}
		if s.StoreName == "" {
			s.StoreName = UnknownStore
		}
		s.NetRevenue = round2(s.GrossSales - s.Commission)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}

// SalesStoreComparison compares one store present in both periods.
type SalesStoreComparison struct {
	StoreID    string
	StoreName  string
	GrossSales Change
	Orders     Change
	AvgAOV     Change
	NetRevenue Change
}

// CompareSalesStores joins two sales-table aggregates on the stores common to
// both, sorted by gross sales growth descending.
func CompareSalesStores(pre, post []SalesStore) []SalesStoreComparison {
	postBy := make(map[string]SalesStore, len(post))
	for _, s := range post {
		postBy[s.StoreID] = s
	}

	out := make([]SalesStoreComparison, 0, len(pre))
	for _, p := range pre {
		q, ok := postBy[p.StoreID]
		if !ok {
			continue
		}
		out = append(out, SalesStoreComparison{
			StoreID:    p.StoreID,
			StoreName:  p.StoreName,
			GrossSales: roundedChange(p.GrossSales, q.GrossSales),
			Orders:     roundedChange(p.Orders, q.Orders),
			AvgAOV:     roundedChange(p.AvgAOV, q.AvgAOV),
			NetRevenue: roundedChange(p.NetRevenue, q.NetRevenue),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GrossSales.Percent != out[j].GrossSales.Percent {
			return out[i].GrossSales.Percent > out[j].GrossSales.Percent
		}
		return out[i].StoreID < out[j].StoreID
	})
	return out
}

func roundedChange(pre, post float64) Change {
	c := NewChange(pre, post)
	c.Percent = round2(c.Percent)
	return c
}
