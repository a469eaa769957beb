package charts

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "salesreport/internal/errors"
	"salesreport/internal/infrastructure"
	"salesreport/pkg/contracts/domain"
)

// Chart titles and labels
const (
	MonthlyTitle      = "Monthly Sales Trend"
	MonthlyXLabel     = "Month"
	SalesLabel        = "Total Sales ($)"
	topProductsFormat = "Top %d Products by Sales"
	monthTickFormat   = "2006-01"
)

// Image sizes
var (
	monthlyWidth  = 12 * vg.Inch
	monthlyHeight = 6 * vg.Inch
	topWidth      = 10 * vg.Inch
	topHeight     = 6 * vg.Inch
	barWidth      = vg.Points(18)
)

// Renderer rasterizes the report aggregates to image files.
// The format follows the file extension (png, svg, pdf, jpg).
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a chart renderer
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: infrastructure.WithComponent(logger, "charts")}
}

// MonthlyTrend draws summed sales per month as a line with one marker per
// point. Months must already be in chronological order.
func (r *Renderer) MonthlyTrend(months []domain.MonthlySales, path string) error {
	p := plot.New()
	p.Title.Text = MonthlyTitle
	p.X.Label.Text = MonthlyXLabel
	p.Y.Label.Text = SalesLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: monthTickFormat}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(plotter.NewGrid())

	if len(months) > 0 {
		pts := make(plotter.XYs, len(months))
		for i, m := range months {
			pts[i].X = float64(m.Date.Unix())
			pts[i].Y = m.Total.InexactFloat64()
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return apperrors.NewRenderError("failed to build monthly trend", err)
		}
		line.Color = plotutil.Color(0)
		points.Shape = draw.CircleGlyph{}
		points.Color = plotutil.Color(0)
		p.Add(line, points)
	}

	return r.save(p, monthlyWidth, monthlyHeight, path, len(months))
}

// TopProducts draws summed sales per product as horizontal bars, the
// largest at the top. topN only sets the title.
func (r *Renderer) TopProducts(products []domain.ProductSales, topN int, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf(topProductsFormat, topN)
	p.X.Label.Text = SalesLabel

	if len(products) > 0 {
		n := len(products)
		values := make(plotter.Values, n)
		names := make([]string, n)
		// the first bar is drawn at the bottom
		for i, prod := range products {
			values[n-1-i] = prod.Total.InexactFloat64()
			names[n-1-i] = prod.ProductCode
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return apperrors.NewRenderError("failed to build top products chart", err)
		}
		bars.Horizontal = true
		bars.Color = plotutil.Color(1)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalY(names...)
	}

	return r.save(p, topWidth, topHeight, path, len(products))
}

func (r *Renderer) save(p *plot.Plot, w, h vg.Length, path string, points int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for "+path, err)
	}
	if err := p.Save(w, h, path); err != nil {
		return apperrors.NewRenderError("failed to save chart "+path, err)
	}

	r.logger.Debug("Chart saved",
		slog.String("path", path),
		slog.String("title", p.Title.Text),
		slog.Int("points", points))
	return nil
}
