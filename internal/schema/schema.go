// Package schema maps the column labels of delivery platform extracts onto
// logical fields. Extract headers drift between exports, so each field carries
// an ordered list of accepted labels and is resolved once per file.
package schema

import (
	"sort"
	"strings"

	apperrors "storepulse/internal/errors"
)

// Source identifies an extract family.
type Source string

const (
	Financial Source = "financial"
	Marketing Source = "marketing"
	Sales     Source = "sales"
)

// Logical field names shared by the mappings.
const (
	FieldDate             = "date"
	FieldStoreID          = "store_id"
	FieldStoreName        = "store_name"
	FieldTransactionType  = "transaction_type"
	FieldSubtotal         = "subtotal"
	FieldCommission       = "commission"
	FieldMarketingFee     = "marketing_fee"
	FieldMerchantDiscount = "merchant_discount"
	FieldPlatformDiscount = "platform_discount"
	FieldNetTotal         = "net_total"
	FieldCampaign         = "campaign"
	FieldSelfServe        = "self_serve"
	FieldOrders           = "orders"
	FieldSales            = "sales"
	FieldROAS             = "roas"
	FieldNewCustomers     = "new_customers"
	FieldTotalCustomers   = "total_customers"
	FieldNewDPCustomers   = "new_dp_customers"
	FieldGrossSales       = "gross_sales"
	FieldAOV              = "aov"
)

// Field is one logical column and the header labels accepted for it, in
// preference order.
type Field struct {
	Name     string
	Labels   []string
	Required bool
}

// Mapping is the set of fields read from one extract family.
type Mapping struct {
	Source Source
	Fields []Field
}

var (
	marketingFeeLabels = []string{
		"Marketing fees | (including any applicable taxes)",
		"Marketing fees (for historical reference only) | (all discounts and fees)",
	}
	merchantDiscountLabels = []string{
		"Customer discounts from marketing | (funded by you)",
		"Customer discounts from marketing | (Funded by you)",
	}
	platformDiscountLabels = []string{
		"Customer discounts from marketing | (funded by DoorDash)",
		"Customer discounts from marketing | (Funded by DoorDash)",
	}
)

// Default returns the built-in mapping for src.
func Default(src Source) Mapping {
	switch src {
	case Financial:
		return Mapping{Source: Financial, Fields: []Field{
			{Name: FieldDate, Labels: []string{"Timestamp UTC date", "Payout date"}, Required: true},
			{Name: FieldStoreID, Labels: []string{"Store ID"}, Required: true},
			{Name: FieldTransactionType, Labels: []string{"Transaction type"}, Required: true},
			{Name: FieldSubtotal, Labels: []string{"Subtotal"}},
			{Name: FieldCommission, Labels: []string{"Commission"}},
			{Name: FieldMarketingFee, Labels: marketingFeeLabels},
			{Name: FieldMerchantDiscount, Labels: merchantDiscountLabels},
			{Name: FieldPlatformDiscount, Labels: platformDiscountLabels},
			{Name: FieldNetTotal, Labels: []string{"Net total"}},
		}}
	case Marketing:
		return Mapping{Source: Marketing, Fields: []Field{
			{Name: FieldDate, Labels: []string{"Date"}, Required: true},
			{Name: FieldStoreID, Labels: []string{"Store ID"}, Required: true},
			{Name: FieldStoreName, Labels: []string{"Store name"}},
			{Name: FieldCampaign, Labels: []string{"Campaign name"}},
			{Name: FieldSelfServe, Labels: []string{"Is self serve campaign"}},
			{Name: FieldOrders, Labels: []string{"Orders"}},
			{Name: FieldSales, Labels: []string{"Sales"}},
			{Name: FieldROAS, Labels: []string{"ROAS"}},
			{Name: FieldMerchantDiscount, Labels: merchantDiscountLabels},
			{Name: FieldMarketingFee, Labels: marketingFeeLabels},
			{Name: FieldNewCustomers, Labels: []string{"New customers acquired"}},
			{Name: FieldTotalCustomers, Labels: []string{"Total customers acquired"}},
			{Name: FieldNewDPCustomers, Labels: []string{"New DP customers acquired"}},
		}}
	case Sales:
		return Mapping{Source: Sales, Fields: []Field{
			{Name: FieldDate, Labels: []string{"Start Date"}, Required: true},
			{Name: FieldStoreID, Labels: []string{"Store ID"}, Required: true},
			{Name: FieldStoreName, Labels: []string{"Store Name"}},
			{Name: FieldGrossSales, Labels: []string{"Gross Sales"}},
			{Name: FieldOrders, Labels: []string{"Total Delivered or Picked Up Orders"}},
			{Name: FieldAOV, Labels: []string{"AOV"}},
			{Name: FieldCommission, Labels: []string{"Total Commission"}},
		}}
	}
	return Mapping{Source: src}
}

// WithOverrides returns a copy of m where each field named in overrides uses
// the given labels, tried before the built-in ones. Unknown field names are
// added as optional fields.
func (m Mapping) WithOverrides(overrides map[string][]string) Mapping {
	out := Mapping{Source: m.Source, Fields: make([]Field, 0, len(m.Fields))}
	seen := make(map[string]bool, len(m.Fields))
	for _, f := range m.Fields {
		seen[f.Name] = true
		if labels, ok := overrides[f.Name]; ok && len(labels) > 0 {
			merged := append(append([]string{}, labels...), f.Labels...)
			f.Labels = dedupe(merged)
		}
		out.Fields = append(out.Fields, f)
	}

	extra := make([]string, 0)
	for name := range overrides {
		if !seen[name] && len(overrides[name]) > 0 {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out.Fields = append(out.Fields, Field{Name: name, Labels: dedupe(overrides[name])})
	}
	return out
}

// Field returns the named field definition.
func (m Mapping) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Resolve matches the mapping against a CSV header. Labels match exactly
// first, then ignoring case and repeated whitespace; within each pass the
// first accepted label present wins.
func (m Mapping) Resolve(header []string) (*Resolved, error) {
	if len(header) > 0 {
		header = append([]string{strings.TrimPrefix(header[0], "\ufeff")}, header[1:]...)
	}
	exact := make(map[string]int, len(header))
	loose := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := exact[h]; !dup {
			exact[h] = i
		}
		key := normalize(h)
		if _, dup := loose[key]; !dup {
			loose[key] = i
		}
	}

	r := &Resolved{
		Source:  m.Source,
		indices: make(map[string]int, len(m.Fields)),
		labels:  make(map[string]string, len(m.Fields)),
	}
	for _, f := range m.Fields {
		idx, ok := lookup(f.Labels, exact, func(s string) string { return s })
		if !ok {
			idx, ok = lookup(f.Labels, loose, normalize)
		}
		if !ok {
			if f.Required {
				return nil, apperrors.NewValidationError("missing required column").
					WithContext("source", string(m.Source)).
					WithContext("field", f.Name).
					WithContext("tried", strings.Join(f.Labels, " | "))
			}
			continue
		}
		r.indices[f.Name] = idx
		r.labels[f.Name] = header[idx]
	}
	return r, nil
}

func lookup(labels []string, index map[string]int, key func(string) string) (int, bool) {
	for _, label := range labels {
		if i, ok := index[key(label)]; ok {
			return i, true
		}
	}
	return 0, false
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func dedupe(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// Resolved is a mapping bound to one file's header.
type Resolved struct {
	Source  Source
	indices map[string]int
	labels  map[string]string
}

// Has reports whether field was found in the header.
func (r *Resolved) Has(field string) bool {
	_, ok := r.indices[field]
	return ok
}

// Label returns the header label that matched field.
func (r *Resolved) Label(field string) string {
	return r.labels[field]
}

// Value returns the trimmed cell for field, or "" when the field is absent or
// the row is short.
func (r *Resolved) Value(row []string, field string) string {
	i, ok := r.indices[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
