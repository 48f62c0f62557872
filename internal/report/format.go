package report

import (
	"fmt"

	"github.com/vinodismyname/ventasxcel/internal/insights"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numbers groups thousands with ',' and uses '.' for decimals.
var numbers = message.NewPrinter(language.English)

// Currency formats v as $1,234.56.
func Currency(v float64) string {
	return "$" + numbers.Sprintf("%.2f", v)
}

// CurrencyWhole formats v as $1,235.
func CurrencyWhole(v float64) string {
	return "$" + numbers.Sprintf("%.0f", v)
}

// Percent formats a 0..1 share as 12.3%.
func Percent(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

// Conclusions returns the four numbered closing sentences.
func Conclusions(s insights.GlobalSummary) []string {
	top := s.TopPerformer
	return []string{
		fmt.Sprintf("1. La región más productiva es **%s** con ventas totales de %s.", s.BestRegion, Currency(s.BestRegionTotal)),
		fmt.Sprintf("2. La región con menores ingresos es **%s**, lo que sugiere enfocar estrategias de marketing allí.", s.WorstRegion),
		fmt.Sprintf("3. El promedio de ventas por vendedor es de: %s.", Currency(s.MeanTotalSales)),
		fmt.Sprintf("4. El vendedor 'Estrella' de toda la empresa es: %s %s (%s).", top.FirstName, top.LastName, top.Region),
	}
}
