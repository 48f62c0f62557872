package workbooks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vinodismyname/ventasxcel/internal/runtime"
	"github.com/vinodismyname/ventasxcel/internal/sales"
	"github.com/vinodismyname/ventasxcel/internal/security"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrFileNotFound indicates the workbook path does not resolve to a file.
	ErrFileNotFound = errors.New("workbooks: file not found")
	// ErrUnsupportedFormat indicates the path is not an Excel workbook.
	ErrUnsupportedFormat = errors.New("workbooks: unsupported format")
	// ErrSheetNotFound indicates the requested sheet does not exist.
	ErrSheetNotFound = errors.New("workbooks: sheet not found")
	// ErrMissingColumns indicates no header row holds every required column.
	ErrMissingColumns = errors.New("workbooks: missing required columns")
	// ErrInvalidCell indicates a numeric column holds a value that is not a number.
	ErrInvalidCell = errors.New("workbooks: invalid cell value")
	// ErrTooManyRows indicates the sheet exceeds the configured row limit.
	ErrTooManyRows = errors.New("workbooks: row limit exceeded")
	// ErrNotAllowed indicates the path lies outside the allowed directories.
	ErrNotAllowed = errors.New("workbooks: path outside allowed directories")
)

// naValues are the cell texts read as missing values: the usual spreadsheet
// and dataframe null markers plus the Excel error literals.
var naValues = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {},
	"None": {}, "n/a": {}, "nan": {}, "null": {},
	"#DIV/0!": {}, "#VALUE!": {}, "#REF!": {}, "#NAME?": {}, "#NUM!": {}, "#NULL!": {},
	"#SPILL!": {}, "#CALC!": {}, "#GETTING_DATA": {},
}

func isNA(cell string) bool {
	_, ok := naValues[cell]
	return ok
}

// PathValidator abstracts filesystem path validation. Implementations should
// return a canonical absolute path if allowed, or an error when denied.
type PathValidator interface {
	ValidateOpenPath(path string) (string, error)
}

// Loader reads the salesperson sheet of a workbook into a sales.Dataset.
type Loader struct {
	limits    runtime.Limits
	validator PathValidator
}

// NewLoader constructs a Loader. validator may be nil, in which case the path
// is opened as given.
func NewLoader(limits runtime.Limits, validator PathValidator) *Loader {
	if limits.MaxRows <= 0 || limits.HeaderScanRows <= 0 {
		fallback := runtime.NewLimits(limits.MaxRows, limits.OperationTimeout)
		limits.MaxRows = fallback.MaxRows
		limits.HeaderScanRows = fallback.HeaderScanRows
	}
	return &Loader{limits: limits, validator: validator}
}

// Resolve checks that path names a readable Excel workbook and returns the
// path to open.
func (l *Loader) Resolve(path string) (string, error) {
	canonical := path
	if l.validator != nil {
		c, err := l.validator.ValidateOpenPath(path)
		if err != nil {
			return "", pathError(path, err)
		}
		canonical = c
	}

	ext := strings.ToLower(filepath.Ext(canonical))
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return canonical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load opens path, locates the header row on sheet (the first sheet when
// empty) and parses every following non-blank row into a record.
func (l *Loader) Load(ctx context.Context, path, sheet string) (*sales.Dataset, error) {
	logger := zerolog.Ctx(ctx)

	canonical, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(canonical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	sheet, err = resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hdr, err := l.findHeader(rows)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("sheet", sheet).Int("header_row", hdr.row).Int("columns", len(hdr.names)).Msg("header located")

	var records []sales.Record
	rowIdx := hdr.row
	for rows.Next() {
		rowIdx++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vals, cerr := rows.Columns(excelize.Options{RawCellValue: true})
		if cerr != nil {
			return nil, cerr
		}
		if isBlank(vals) {
			continue
		}
		if len(records) >= l.limits.MaxRows {
			return nil, fmt.Errorf("%w: more than %d data rows", ErrTooManyRows, l.limits.MaxRows)
		}
		rec, perr := parseRecord(vals, hdr.index, rowIdx)
		if perr != nil {
			return nil, perr
		}
		records = append(records, rec)
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}

	logger.Debug().Str("path", canonical).Int("records", len(records)).Msg("workbook loaded")
	return sales.NewDataset(canonical, sheet, hdr.names, records), nil
}

func pathError(path string, err error) error {
	switch {
	case errors.Is(err, security.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	case errors.Is(err, security.ErrUnsupportedExtension), errors.Is(err, security.ErrIsDirectory):
		return fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	case errors.Is(err, security.ErrNotAllowed):
		return fmt.Errorf("%w: %s", ErrNotAllowed, path)
	default:
		return err
	}
}

func resolveSheet(f *excelize.File, sheet string) (string, error) {
	list := f.GetSheetList()
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		if len(list) == 0 {
			return "", fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
		}
		return list[0], nil
	}
	if !slices.Contains(list, sheet) {
		return "", fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	return sheet, nil
}

// header describes the located header row.
type header struct {
	row   int                 // 1-based
	names []string            // every header cell, trailing empties trimmed
	index map[sales.Field]int // zero-based column per required field
}

// findHeader scans the first HeaderScanRows rows for one naming every
// required column. On failure it reports the columns missing from the closest
// candidate.
func (l *Loader) findHeader(rows *excelize.Rows) (header, error) {
	scan := l.limits.HeaderScanRows
	var best []sales.Field
	rowIdx := 0
	for rowIdx < scan && rows.Next() {
		rowIdx++
		vals, err := rows.Columns()
		if err != nil {
			return header{}, err
		}
		if isBlank(vals) {
			continue
		}
		index, missing := matchHeader(vals)
		if len(missing) == 0 {
			names := make([]string, len(vals))
			for i, v := range vals {
				names[i] = strings.TrimSpace(v)
			}
			return header{row: rowIdx, names: trimTrailingEmpties(names), index: index}, nil
		}
		if best == nil || len(missing) < len(best) {
			best = missing
		}
	}
	if err := rows.Error(); err != nil {
		return header{}, err
	}
	if best == nil {
		best = sales.Fields
	}
	names := make([]string, len(best))
	for i, f := range best {
		names[i] = f.Header()
	}
	return header{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(names, ", "))
}

func matchHeader(vals []string) (map[sales.Field]int, []sales.Field) {
	index := make(map[sales.Field]int, len(sales.Fields))
	for i, v := range vals {
		key := strings.ToUpper(strings.TrimSpace(v))
		for _, f := range sales.Fields {
			if _, seen := index[f]; !seen && key == f.Header() {
				index[f] = i
			}
		}
	}
	var missing []sales.Field
	for _, f := range sales.Fields {
		if _, ok := index[f]; !ok {
			missing = append(missing, f)
		}
	}
	return index, missing
}

func parseRecord(vals []string, index map[sales.Field]int, row int) (sales.Record, error) {
	rec := sales.Record{Row: row}
	for _, f := range sales.Fields {
		col := index[f]
		var cell string
		if col < len(vals) {
			cell = strings.TrimSpace(vals[col])
		}
		if cell == "" || isNA(cell) {
			rec.SetMissing(f)
			continue
		}
		if !f.Numeric() {
			switch f {
			case sales.FieldFirstName:
				rec.FirstName = cell
			case sales.FieldLastName:
				rec.LastName = cell
			case sales.FieldRegion:
				rec.Region = cell
			}
			continue
		}
		v, ok := parseFloatStrict(cell)
		if !ok {
			return rec, invalidCell(f, col, row, cell)
		}
		switch f {
		case sales.FieldSalary:
			rec.Salary = v
		case sales.FieldTotalSales:
			rec.TotalSales = v
		case sales.FieldUnitsSold:
			if math.Trunc(v) != v || v >= math.MaxInt64 || v < math.MinInt64 {
				return rec, invalidCell(f, col, row, cell)
			}
			rec.UnitsSold = int64(v)
		}
	}
	return rec, nil
}

func invalidCell(f sales.Field, col, row int, cell string) error {
	ref, _ := excelize.CoordinatesToCellName(col+1, row)
	return fmt.Errorf("%w: %s %s=%q", ErrInvalidCell, ref, f.Header(), cell)
}

func isBlank(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimTrailingEmpties(xs []string) []string {
	i := len(xs)
	for i > 0 {
		if strings.TrimSpace(xs[i-1]) != "" {
			break
		}
		i--
	}
	return xs[:i]
}
