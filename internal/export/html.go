package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiangyuzeng/lucky-analytic-us-improved2/internal/aggregate"
)

var htmlFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"pct":   func(f float64) string { return fmt.Sprintf("%.1f", f) },
}

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Delivery Analytics Report</title>
<style>
body { font-family: sans-serif; margin: 20px; }
table { border-collapse: collapse; margin: 10px 0; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #232773; color: white; }
.projection { color: #a05a00; font-style: italic; }
</style>
</head>
<body>
<h1>Delivery Analytics Report</h1>
<p>Generated {{.GeneratedAt}}</p>
{{if .Summary.NoData}}
<p>No data: the canonical table is empty.</p>
{{else}}
<h2>Key Metrics</h2>
<p><strong>Total Orders:</strong> {{.Summary.Totals.Orders}} ({{.Summary.Totals.CompletedOrders}} completed, {{.Summary.Totals.CancelledOrders}} cancelled)</p>
<p><strong>Total Revenue:</strong> ${{money .Summary.Totals.Revenue}}</p>
<p><strong>Average Order Value:</strong> ${{money .Summary.Totals.AvgOrderValue}}</p>
<p><strong>Customers (proxy):</strong> {{.Summary.Totals.UniqueCustomers}}</p>

<h2>Platform Performance</h2>
<table>
<tr><th>Platform</th><th>Orders</th><th>Revenue</th><th>AOV</th><th>Customers</th><th>Cancellation %</th></tr>
{{range .Summary.Platforms}}
<tr><td>{{.Platform}}</td><td>{{.Orders}}</td><td>${{money .Revenue}}</td><td>${{money .AvgOrderValue}}</td><td>{{.Customers}}</td><td>{{pct .CancellationRate}}</td></tr>
{{end}}
</table>

<h2>Store Performance</h2>
<table>
<tr><th>Store</th><th>Orders</th><th>Revenue</th><th>AOV</th></tr>
{{range .Summary.Stores}}
<tr><td>{{.StoreID}}</td><td>{{.Orders}}</td><td>${{money .Revenue}}</td><td>${{money .AvgOrderValue}}</td></tr>
{{end}}
</table>

<h2>Growth <span class="projection">(projection)</span></h2>
<p class="projection">The figures below are synthetic projections from an assumed baseline, not measured results. {{.Summary.Retention.Assumption}}</p>
<p>Month-over-month growth: {{pct .Summary.Retention.MonthOverMonthGrowthPct}}% (projection)</p>
<p>Next month revenue: ${{money .Summary.Retention.NextMonthRevenueProjection}} (projection)</p>
<p>Repeat customer rate (observed): {{pct .Summary.Retention.RepeatCustomerRate}}%</p>
{{end}}
</body>
</html>
`))

// WriteHTML renders the static summary document. Synthetic figures are
// labeled as projections in the rendered output.
func WriteHTML(w io.Writer, s aggregate.Summary) error {
	data := struct {
		GeneratedAt string
		Summary     aggregate.Summary
	}{
		GeneratedAt: Now().Format(time.RFC3339),
		Summary:     s,
	}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
