package sales

// Dataset is the ordered, read-only set of records loaded from one sheet.
type Dataset struct {
	path    string
	sheet   string
	columns []string
	records []Record
}

// NewDataset builds a Dataset. The slices are copied so later changes by the
// caller do not leak into it.
func NewDataset(path, sheet string, columns []string, records []Record) *Dataset {
	return &Dataset{
		path:    path,
		sheet:   sheet,
		columns: append([]string(nil), columns...),
		records: append([]Record(nil), records...),
	}
}

// Path returns the canonical path of the source workbook.
func (d *Dataset) Path() string { return d.path }

// Sheet returns the sheet the records were read from.
func (d *Dataset) Sheet() string { return d.sheet }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// ColumnCount returns the number of header columns in the sheet, including
// columns that are not used by the analysis.
func (d *Dataset) ColumnCount() int { return len(d.columns) }

// Columns returns a copy of the header names.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// Records returns a copy of the records in sheet order.
func (d *Dataset) Records() []Record { return append([]Record(nil), d.records...) }

// At returns the i-th record.
func (d *Dataset) At(i int) Record { return d.records[i] }
