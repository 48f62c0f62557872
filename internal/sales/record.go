// Package sales holds the typed salesperson records read from the input workbook.
package sales

import "strings"

// Field identifies one of the required columns of a salesperson row.
type Field uint8

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldRegion
	FieldSalary
	FieldTotalSales
	FieldUnitsSold

	numFields
)

// Fields lists every required field in sheet column order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldRegion, FieldSalary, FieldTotalSales, FieldUnitsSold}

var headers = [numFields]string{
	FieldFirstName:  "NOMBRE",
	FieldLastName:   "APELLIDO",
	FieldRegion:     "REGION",
	FieldSalary:     "SALARIO",
	FieldTotalSales: "VENTAS TOTALES",
	FieldUnitsSold:  "UNIDADES VENDIDAS",
}

// Header returns the column header the field is read from.
func (f Field) Header() string {
	if f >= numFields {
		return ""
	}
	return headers[f]
}

func (f Field) String() string { return f.Header() }

// Numeric reports whether the field holds a number.
func (f Field) Numeric() bool {
	return f == FieldSalary || f == FieldTotalSales || f == FieldUnitsSold
}

// Record is one salesperson row. Absent cells are tracked per field and the
// corresponding value is left at its zero value.
type Record struct {
	Row        int // 1-based sheet row
	FirstName  string
	LastName   string
	Region     string
	Salary     float64
	TotalSales float64
	UnitsSold  int64

	missing uint8
}

// SetMissing marks f as absent.
func (r *Record) SetMissing(f Field) {
	r.missing |= 1 << f
}

// IsMissing reports whether f was absent in the sheet.
func (r Record) IsMissing(f Field) bool {
	return r.missing&(1<<f) != 0
}

// MissingCount returns the number of absent required fields.
func (r Record) MissingCount() int {
	n := 0
	for _, f := range Fields {
		if r.IsMissing(f) {
			n++
		}
	}
	return n
}

// FullName joins first and last name, skipping absent parts.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
