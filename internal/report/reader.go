package report

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"storepulse/internal/analytics"
	apperrors "storepulse/internal/errors"
	"storepulse/internal/insights"
	"storepulse/internal/period"
)

// table is a sheet read by header label.
type table struct {
	sheet   string
	columns map[string]int
	rows    [][]string
}

func readTable(f *excelize.File, sheet string) (*table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewStorageError("read sheet", err).WithContext("sheet", sheet)
	}
	t := &table{sheet: sheet, columns: map[string]int{}}
	if len(rows) == 0 {
		return t, nil
	}
	for i, h := range rows[0] {
		t.columns[strings.TrimSpace(h)] = i
	}
	t.rows = rows[1:]
	return t, nil
}

func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := t.columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("sheet is missing columns").
			WithContext("sheet", t.sheet).
			WithContext("columns", strings.Join(missing, ", "))
	}
	return nil
}

func (t *table) text(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) number(row []string, col string) (float64, error) {
	s := t.text(row, col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperrors.NewParsingError("invalid number", err).
			WithContext("sheet", t.sheet).
			WithContext("column", col).
			WithContext("value", s)
	}
	return v, nil
}

// ReadStoreWise opens a store-wise workbook and rebuilds its insights
// document. Every sheet of layout must be present.
func ReadStoreWise(path string, layout StoreWiseLayout) (InsightsDocument, error) {
	var doc InsightsDocument

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, apperrors.NewNotFoundError("workbook").WithContext("path", path)
		}
		return doc, apperrors.NewStorageError("open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, s := range f.GetSheetList() {
		present[s] = true
	}
	var missing []string
	for _, s := range layout.Names() {
		if !present[s] {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return doc, apperrors.NewNotFoundError("sheets").
			WithContext("path", path).
			WithContext("missing", strings.Join(missing, ", "))
	}

	if err := readInfo(f, layout.Info, &doc); err != nil {
		return doc, err
	}

	growth, err := readTable(f, layout.Growth)
	if err != nil {
		return doc, err
	}
	doc.StoreCount = len(growth.rows)

	if doc.Summary, err = readSummary(f, layout.Summary); err != nil {
		return doc, err
	}
	if doc.Top, err = readPerformers(f, layout.Top); err != nil {
		return doc, err
	}
	if doc.Bottom, err = readPerformers(f, layout.Bottom); err != nil {
		return doc, err
	}

	stores, err := readStoreInsights(f, layout)
	if err != nil {
		return doc, err
	}
	doc.Distribution = insights.Distribution(stores)
	doc.High = insights.ByPriority(stores, insights.PriorityHigh)
	doc.Medium = insights.ByPriority(stores, insights.PriorityMedium)
	return doc, nil
}

func readInfo(f *excelize.File, sheet string, doc *InsightsDocument) error {
	t, err := readTable(f, sheet)
	if err != nil {
		return err
	}
	if err := t.require("Key", "Value"); err != nil {
		return err
	}
	info := make(map[string]string, len(t.rows))
	for _, row := range t.rows {
		info[t.text(row, "Key")] = t.text(row, "Value")
	}

	doc.Label = info[infoLabel]
	doc.RunID = info[infoRunID]
	if doc.Pre, err = period.New("Pre-"+doc.Label, info[infoPreStart], info[infoPreEnd]); err != nil {
		return apperrors.NewParsingError("invalid pre period", err).WithContext("sheet", sheet)
	}
	if doc.Post, err = period.New("Post-"+doc.Label, info[infoPostStart], info[infoPostEnd]); err != nil {
		return apperrors.NewParsingError("invalid post period", err).WithContext("sheet", sheet)
	}
	if s := info[infoGeneratedAt]; s != "" {
		if doc.GeneratedAt, err = time.Parse(time.RFC3339, s); err != nil {
			return apperrors.NewParsingError("invalid generation time", err).WithContext("sheet", sheet)
		}
	}
	return nil
}

func readSummary(f *excelize.File, sheet string) ([]analytics.SummaryRow, error) {
	t, err := readTable(f, sheet)
	if err != nil {
		return nil, err
	}
	if err := t.require("Metric", "Value", "Unit"); err != nil {
		return nil, err
	}
	out := make([]analytics.SummaryRow, 0, len(t.rows))
	for _, row := range t.rows {
		v, err := t.number(row, "Value")
		if err != nil {
			return nil, err
		}
		out = append(out, analytics.SummaryRow{Metric: t.text(row, "Metric"), Value: v, Unit: t.text(row, "Unit")})
	}
	return out, nil
}

func readPerformers(f *excelize.File, sheet string) ([]insights.Performer, error) {
	t, err := readTable(f, sheet)
	if err != nil {
		return nil, err
	}
	if err := t.require(performerHeaders...); err != nil {
		return nil, err
	}
	out := make([]insights.Performer, 0, len(t.rows))
	for _, row := range t.rows {
		p := insights.Performer{StoreID: t.text(row, performerHeaders[0]), StoreName: t.text(row, performerHeaders[1])}
		for col, dst := range map[string]*float64{
			performerHeaders[2]: &p.SalesGrowth,
			performerHeaders[3]: &p.MarketingGrowth,
			performerHeaders[4]: &p.ROIDelta,
		} {
			if *dst, err = t.number(row, col); err != nil {
				return nil, err
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func readStoreInsights(f *excelize.File, layout StoreWiseLayout) ([]insights.StoreInsight, error) {
	items, err := readTable(f, layout.InsightItems)
	if err != nil {
		return nil, err
	}
	if err := items.require("Store_ID", "Kind", "Category", "Message"); err != nil {
		return nil, err
	}
	byStore := make(map[string][]insights.Item)
	for _, row := range items.rows {
		id := items.text(row, "Store_ID")
		byStore[id] = append(byStore[id], insights.Item{
			Kind:     insights.Kind(items.text(row, "Kind")),
			Category: items.text(row, "Category"),
			Message:  items.text(row, "Message"),
		})
	}

	t, err := readTable(f, layout.Insights)
	if err != nil {
		return nil, err
	}
	if err := t.require("Store_ID", "Store_Name", "Overall_Performance", "Priority_Level"); err != nil {
		return nil, err
	}
	out := make([]insights.StoreInsight, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.text(row, "Store_ID")
		out = append(out, insights.StoreInsight{
			StoreID:   id,
			StoreName: t.text(row, "Store_Name"),
			Tier:      insights.Tier(t.text(row, "Overall_Performance")),
			Priority:  insights.Priority(t.text(row, "Priority_Level")),
			Items:     byStore[id],
		})
	}
	return out, nil
}
