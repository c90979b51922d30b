// Package chart renders short price line charts to PNG: go-echarts builds the
// page, headless Chrome (chromedp) takes the screenshot.
package chart

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"time"

	"cryptobot/internal/market"

	"github.com/chromedp/chromedp"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	talib "github.com/markcheno/go-talib"
)

const (
	colorBackground    = "#ffffff"
	colorTextPrimary   = "#111827"
	colorTextSecondary = "#6b7280"
	colorPrice         = "#2563eb"
	colorSMA           = "#f59e0b"

	labelLayout = "Jan 02"
)

// Point is one (label, value) sample on the x axis.
type Point struct {
	Label string
	Value float64
}

// Series is everything needed to draw one chart.
type Series struct {
	Title     string
	Name      string
	YAxisName string
	Points    []Point
}

// Renderer produces a PNG image for a series.
type Renderer interface {
	Render(ctx context.Context, s Series) ([]byte, error)
}

type Options struct {
	Width     int
	Height    int
	SMAPeriod int
	Timeout   time.Duration
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	return o
}

// ChromeRenderer screenshots the chart page with headless Chrome.
type ChromeRenderer struct {
	opts Options
}

var _ Renderer = (*ChromeRenderer)(nil)

func NewChromeRenderer(o Options) *ChromeRenderer {
	return &ChromeRenderer{opts: o.withDefaults()}
}

func (r *ChromeRenderer) Render(ctx context.Context, s Series) ([]byte, error) {
	html, err := BuildHTML(s, r.opts)
	if err != nil {
		return nil, err
	}
	return renderHTMLToPNG(ctx, html, r.opts.Width, r.opts.Height, r.opts.Timeout)
}

// FromHistory turns a price history into chart points labelled like "Jan 02".
func FromHistory(points []market.PricePoint, loc *time.Location) []Point {
	if loc == nil {
		loc = time.Local
	}
	out := make([]Point, 0, len(points))
	for _, p := range points {
		out = append(out, Point{Label: p.Time.In(loc).Format(labelLayout), Value: p.Price})
	}
	return out
}

// BuildHTML renders the chart page without taking a screenshot.
func BuildHTML(s Series, o Options) ([]byte, error) {
	if len(s.Points) == 0 {
		return nil, fmt.Errorf("no price points to chart for %q", s.Name)
	}
	o = o.withDefaults()
	xAxis := make([]string, len(s.Points))
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xAxis[i] = p.Label
		values[i] = p.Value
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", o.Width),
			Height:          fmt.Sprintf("%dpx", o.Height),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      s.Title,
			Left:       "center",
			TitleStyle: &opts.TextStyle{Color: colorTextPrimary, FontSize: 16},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom", TextStyle: &opts.TextStyle{Color: colorTextSecondary}}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Date",
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary, Rotate: 45},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      s.YAxisName,
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries(s.Name, toLineData(values),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorPrice, Width: 2}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	if sma := movingAverage(values, o.SMAPeriod); sma != nil {
		line.AddSeries(fmt.Sprintf("SMA %d", o.SMAPeriod), toLineData(sma),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorSMA, Width: 1}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// movingAverage returns nil when the period is disabled or longer than the series.
// Warm-up samples are NaN.
func movingAverage(values []float64, period int) []float64 {
	if period <= 1 || len(values) < period {
		return nil
	}
	sma := talib.Sma(values, period)
	for i := 0; i < period-1 && i < len(sma); i++ {
		sma[i] = math.NaN()
	}
	return sma
}

func toLineData(series []float64) []opts.LineData {
	out := make([]opts.LineData, len(series))
	for i, v := range series {
		if math.IsNaN(v) {
			out[i] = opts.LineData{Value: nil}
			continue
		}
		out[i] = opts.LineData{Value: round(v, 6)}
	}
	return out
}

func round(val float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(val)
	}
	scale := math.Pow10(decimals)
	return math.Round(val*scale) / scale
}

func renderHTMLToPNG(ctx context.Context, html []byte, width, height int, timeout time.Duration) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	parent, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(parent, timeout)
	defer cancelTimeout()

	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(dataURI),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500 * time.Millisecond),
		chromedp.FullScreenshot(&screenshot, 0),
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, fmt.Errorf("chart screenshot failed: %w", err)
	}
	return screenshot, nil
}

// Filename builds the upload name for a symbol's chart.
func Filename(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol)) + ".png"
}
