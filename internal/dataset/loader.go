package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	apperrors "storepulse/internal/errors"
	"storepulse/internal/schema"
)

// RowRecorder receives the number of rows loaded per extract.
type RowRecorder interface {
	RecordRows(ctx context.Context, source, year string, n int)
}

// Loader reads extracts through the schema mappings.
type Loader struct {
	logger   *slog.Logger
	mappings map[schema.Source]schema.Mapping
	rows     RowRecorder
}

// NewLoader creates a loader. overrides is keyed by source then logical field,
// as in the schema section of the configuration; rows may be nil.
func NewLoader(logger *slog.Logger, overrides map[string]map[string][]string, rows RowRecorder) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	mappings := make(map[schema.Source]schema.Mapping, 3)
	for _, src := range []schema.Source{schema.Financial, schema.Marketing, schema.Sales} {
		m := schema.Default(src)
		if o, ok := overrides[string(src)]; ok {
			m = m.WithOverrides(o)
		}
		mappings[src] = m
	}
	return &Loader{
		logger:   logger.With("component", "loader"),
		mappings: mappings,
		rows:     rows,
	}
}

// rowFunc converts one CSV row. It returns false to skip the row.
type rowFunc func(c *cursor) (bool, error)

// cursor gives row converters typed access to the current row.
type cursor struct {
	path    string
	line    int
	row     []string
	columns *schema.Resolved
}

func (c *cursor) text(field string) string {
	return c.columns.Value(c.row, field)
}

func (c *cursor) number(field string) (float64, error) {
	v, err := ParseNumber(c.text(field))
	if err != nil {
		return 0, c.fail(field, err)
	}
	return v, nil
}

func (c *cursor) fail(field string, err error) error {
	return apperrors.NewParsingError("invalid cell", err).
		WithContext("file", filepath.Base(c.path)).
		WithContext("row", c.line).
		WithContext("column", c.columns.Label(field))
}

// numbers parses fields into the given targets, stopping at the first error.
func (c *cursor) numbers(targets map[string]*float64) error {
	for field, dst := range targets {
		v, err := c.number(field)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func (l *Loader) read(ctx context.Context, path string, src schema.Source, fn rowFunc) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, apperrors.NewNotFoundError("extract "+filepath.Base(path)).WithContext("path", path)
		}
		return 0, apperrors.NewStorageError("failed to open extract", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return 0, apperrors.NewValidationError("empty extract").WithContext("path", path)
	}
	if err != nil {
		return 0, apperrors.NewParsingError("failed to read header", err).WithContext("path", path)
	}

	columns, err := l.mappings[src].Resolve(header)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("file", filepath.Base(path))
		}
		return 0, err
	}

	c := &cursor{path: path, line: 1, columns: columns}
	skipped := 0
	loaded := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		c.line++
		if err != nil {
			return 0, apperrors.NewParsingError("malformed row", err).
				WithContext("file", filepath.Base(path)).
				WithContext("row", c.line)
		}
		if c.line%5000 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if blank(row) {
			continue
		}
		c.row = row
		ok, err := fn(c)
		if err != nil {
			return 0, err
		}
		if !ok {
			skipped++
			continue
		}
		loaded++
	}

	if skipped > 0 {
		l.logger.WarnContext(ctx, "skipped rows without date or store",
			slog.String("file", filepath.Base(path)),
			slog.Int("skipped", skipped))
	}
	return loaded, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// keyed parses the date and store id every source carries. Rows without a
// date or store are skipped.
func keyed(c *cursor) (FinancialRecord, bool, error) {
	var r FinancialRecord
	date, ok, err := ParseDate(c.text(schema.FieldDate))
	if err != nil {
		return r, false, c.fail(schema.FieldDate, err)
	}
	r.StoreID = c.text(schema.FieldStoreID)
	if !ok || r.StoreID == "" {
		return r, false, nil
	}
	r.Date = date
	return r, true, nil
}

// LoadFinancial reads a financial detailed-transactions extract.
func (l *Loader) LoadFinancial(ctx context.Context, path string) ([]FinancialRecord, error) {
	var out []FinancialRecord
	n, err := l.read(ctx, path, schema.Financial, func(c *cursor) (bool, error) {
		r, ok, err := keyed(c)
		if !ok || err != nil {
			return false, err
		}
		r.TransactionType = c.text(schema.FieldTransactionType)
		err = c.numbers(map[string]*float64{
			schema.FieldSubtotal:         &r.Subtotal,
			schema.FieldCommission:       &r.Commission,
			schema.FieldMarketingFee:     &r.MarketingFee,
			schema.FieldMerchantDiscount: &r.MerchantDiscount,
			schema.FieldPlatformDiscount: &r.PlatformDiscount,
			schema.FieldNetTotal:         &r.NetTotal,
		})
		if err != nil {
			return false, err
		}
		r.Commission = math.Abs(r.Commission)
		out = append(out, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.DebugContext(ctx, "financial extract loaded", slog.String("file", filepath.Base(path)), slog.Int("rows", n))
	return out, nil
}

// LoadMarketing reads a promotion or sponsored-listing extract and tags each
// row with source.
func (l *Loader) LoadMarketing(ctx context.Context, path, source string) ([]MarketingRecord, error) {
	var out []MarketingRecord
	n, err := l.read(ctx, path, schema.Marketing, func(c *cursor) (bool, error) {
		k, ok, err := keyed(c)
		if !ok || err != nil {
			return false, err
		}
		r := MarketingRecord{
			Date:      k.Date,
			StoreID:   k.StoreID,
			StoreName: c.text(schema.FieldStoreName),
			Campaign:  c.text(schema.FieldCampaign),
			SelfServe: ParseBool(c.text(schema.FieldSelfServe)),
			Source:    source,
		}
		err = c.numbers(map[string]*float64{
			schema.FieldOrders:           &r.Orders,
			schema.FieldSales:            &r.Sales,
			schema.FieldROAS:             &r.ROAS,
			schema.FieldMerchantDiscount: &r.MerchantDiscount,
			schema.FieldMarketingFee:     &r.MarketingFee,
			schema.FieldNewCustomers:     &r.NewCustomers,
			schema.FieldTotalCustomers:   &r.TotalCustomers,
			schema.FieldNewDPCustomers:   &r.NewDPCustomers,
		})
		if err != nil {
			return false, err
		}
		out = append(out, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.DebugContext(ctx, "marketing extract loaded",
		slog.String("file", filepath.Base(path)),
		slog.String("source", source),
		slog.Int("rows", n))
	return out, nil
}

// LoadSales reads a sales-by-time-by-store extract.
func (l *Loader) LoadSales(ctx context.Context, path string) ([]SalesRecord, error) {
	var out []SalesRecord
	n, err := l.read(ctx, path, schema.Sales, func(c *cursor) (bool, error) {
		k, ok, err := keyed(c)
		if !ok || err != nil {
			return false, err
		}
		r := SalesRecord{
			Date:      k.Date,
			StoreID:   k.StoreID,
			StoreName: c.text(schema.FieldStoreName),
		}
		err = c.numbers(map[string]*float64{
			schema.FieldGrossSales: &r.GrossSales,
			schema.FieldOrders:     &r.Orders,
			schema.FieldAOV:        &r.AOV,
			schema.FieldCommission: &r.Commission,
		})
		if err != nil {
			return false, err
		}
		r.Commission = math.Abs(r.Commission)
		out = append(out, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.DebugContext(ctx, "sales extract loaded", slog.String("file", filepath.Base(path)), slog.Int("rows", n))
	return out, nil
}
