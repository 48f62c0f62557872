package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	v    *validator.Validate
	once sync.Once
)

// excelExts lists the workbook extensions excelize can open.
var excelExts = []string{".xlsx", ".xlsm", ".xltx", ".xltm"}

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		// Custom: Excel file path must have supported extension
		_ = v.RegisterValidation("filepath_ext", func(fl validator.FieldLevel) bool {
			return HasExcelExt(fl.Field().String())
		})
	})
	return v
}

// HasExcelExt reports whether path ends in one of the supported workbook extensions.
func HasExcelExt(path string) bool {
	s := strings.ToLower(strings.TrimSpace(path))
	if s == "" {
		return false
	}
	for _, ext := range excelExts {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

// ValidateStruct validates a struct and returns a user-friendly error string.
// Returns empty string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("VALIDATION: %s is required", field)
			case "filepath_ext":
				return "VALIDATION: input must be an Excel file (.xlsx, .xlsm, .xltx, .xltm)"
			case "oneof":
				return fmt.Sprintf("VALIDATION: %s must be one of [%s]", field, fe.Param())
			case "endswith":
				return fmt.Sprintf("VALIDATION: %s must end with %s", field, fe.Param())
			case "min", "max", "gt", "gte", "lte":
				return fmt.Sprintf("VALIDATION: %s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			}
			// Fallback generic
			return fmt.Sprintf("VALIDATION: invalid %s", field)
		}
		return "VALIDATION: invalid inputs"
	}
	return ""
}
