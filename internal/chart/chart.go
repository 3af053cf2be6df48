// Package chart rasterizes metric series into PNG chart images. The
// renderer is pure with respect to the store: it only transforms the
// series it is given, and identical input always produces identical
// bytes (no clocks, no randomized styling), so regenerated reports are
// byte-stable and charts can be golden-tested.
package chart

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/domain"
	apperrors "github.com/camilaavilarinho/diabetes-diary-bot/internal/errors"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	chartWidth  = 900
	chartHeight = 360

	marginLeft   = 70.0
	marginRight  = 24.0
	marginTop    = 44.0
	marginBottom = 54.0
)

// Renderer draws glucose trend and per-day bar charts.
type Renderer struct {
	location *time.Location
}

// NewRenderer creates a renderer labelling axes in the given timezone.
func NewRenderer(location *time.Location) *Renderer {
	if location == nil {
		location = time.UTC
	}
	return &Renderer{location: location}
}

// GlucoseTrend renders the raw glucose series as a time-series line with
// the target band shaded. Zero points produce an explicit "no data"
// placeholder; a single point renders as a lone marker.
func (r *Renderer) GlucoseTrend(series []domain.SeriesPoint, targetLow, targetHigh float64, caption string) (domain.RenderedChart, error) {
	dc, err := newCanvas(caption)
	if err != nil {
		return domain.RenderedChart{}, err
	}

	if len(series) == 0 {
		drawPlaceholder(dc)
		return encode(dc, caption)
	}

	minV, maxV := series[0].Value, series[0].Value
	for _, p := range series {
		minV = math.Min(minV, p.Value)
		maxV = math.Max(maxV, p.Value)
	}
	minV = math.Min(minV, targetLow)
	maxV = math.Max(maxV, targetHigh)
	minV, maxV = padScale(minV, maxV)

	startT := series[0].Timestamp
	endT := series[len(series)-1].Timestamp
	span := endT.Sub(startT)

	plotW := chartWidth - marginLeft - marginRight
	plotH := chartHeight - marginTop - marginBottom

	x := func(t time.Time) float64 {
		if span <= 0 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(t.Sub(startT))/float64(span)
	}
	y := func(v float64) float64 {
		return marginTop + plotH*(1-(v-minV)/(maxV-minV))
	}

	// Target band first so the line draws over it.
	dc.SetRGB255(223, 240, 216)
	dc.DrawRectangle(marginLeft, y(targetHigh), plotW, y(targetLow)-y(targetHigh))
	dc.Fill()

	drawValueAxis(dc, minV, maxV, y)
	r.drawTimeAxis(dc, startT, endT, x)
	drawFrame(dc)

	dc.SetRGB255(31, 119, 180)
	dc.SetLineWidth(2)
	if len(series) > 1 {
		for i := 1; i < len(series); i++ {
			dc.DrawLine(x(series[i-1].Timestamp), y(series[i-1].Value), x(series[i].Timestamp), y(series[i].Value))
		}
		dc.Stroke()
	}
	for _, p := range series {
		dc.DrawCircle(x(p.Timestamp), y(p.Value), 3.5)
		dc.Fill()
	}

	return encode(dc, caption)
}

// DailyBars renders one bar per day, e.g. carbohydrate grams or insulin
// units totalled over each day of the window.
func (r *Renderer) DailyBars(totals []domain.DayTotal, caption string) (domain.RenderedChart, error) {
	dc, err := newCanvas(caption)
	if err != nil {
		return domain.RenderedChart{}, err
	}

	if len(totals) == 0 {
		drawPlaceholder(dc)
		return encode(dc, caption)
	}

	maxV := totals[0].Total
	for _, t := range totals {
		maxV = math.Max(maxV, t.Total)
	}
	if maxV <= 0 {
		maxV = 1
	}
	minV, maxV := 0.0, maxV*1.1

	plotW := chartWidth - marginLeft - marginRight
	plotH := chartHeight - marginTop - marginBottom
	slot := plotW / float64(len(totals))
	barW := slot * 0.6

	y := func(v float64) float64 {
		return marginTop + plotH*(1-(v-minV)/(maxV-minV))
	}

	drawValueAxis(dc, minV, maxV, y)
	drawFrame(dc)

	dc.SetRGB255(255, 152, 0)
	for i, t := range totals {
		cx := marginLeft + slot*(float64(i)+0.5)
		dc.DrawRectangle(cx-barW/2, y(t.Total), barW, y(0)-y(t.Total))
		dc.Fill()
	}

	dc.SetRGB255(60, 60, 60)
	for i, t := range totals {
		cx := marginLeft + slot*(float64(i)+0.5)
		label := t.Day.In(r.location).Format("01-02")
		dc.DrawStringAnchored(label, cx, chartHeight-marginBottom+16, 0.5, 0.5)
	}

	return encode(dc, caption)
}

func newCanvas(caption string) (*gg.Context, error) {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if err := setFontFace(dc, 15); err != nil {
		return nil, err
	}
	dc.SetRGB255(40, 40, 40)
	dc.DrawStringAnchored(caption, chartWidth/2, marginTop/2, 0.5, 0.5)

	if err := setFontFace(dc, 12); err != nil {
		return nil, err
	}
	return dc, nil
}

func setFontFace(dc *gg.Context, size float64) error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return apperrors.NewRenderError(err, "chart")
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size}))
	return nil
}

func drawPlaceholder(dc *gg.Context) {
	dc.SetRGB255(150, 150, 150)
	dc.DrawStringAnchored("no data in selected period", chartWidth/2, chartHeight/2, 0.5, 0.5)
	drawFrame(dc)
}

func drawFrame(dc *gg.Context) {
	dc.SetRGB255(120, 120, 120)
	dc.SetLineWidth(1)
	dc.DrawRectangle(marginLeft, marginTop,
		chartWidth-marginLeft-marginRight, chartHeight-marginTop-marginBottom)
	dc.Stroke()
}

func drawValueAxis(dc *gg.Context, minV, maxV float64, y func(float64) float64) {
	step := niceStep((maxV - minV) / 5)
	dc.SetRGB255(60, 60, 60)
	for v := math.Ceil(minV/step) * step; v <= maxV; v += step {
		dc.DrawStringAnchored(formatTick(v), marginLeft-8, y(v), 1, 0.5)
		dc.SetRGBA255(200, 200, 200, 255)
		dc.SetLineWidth(0.5)
		dc.DrawLine(marginLeft, y(v), float64(chartWidth)-marginRight, y(v))
		dc.Stroke()
		dc.SetRGB255(60, 60, 60)
	}
}

func (r *Renderer) drawTimeAxis(dc *gg.Context, start, end time.Time, x func(time.Time) float64) {
	const ticks = 5
	dc.SetRGB255(60, 60, 60)
	if end.Sub(start) <= 0 {
		dc.DrawStringAnchored(start.In(r.location).Format("01-02 15:04"),
			x(start), chartHeight-marginBottom+16, 0.5, 0.5)
		return
	}
	for i := 0; i <= ticks; i++ {
		t := start.Add(time.Duration(float64(end.Sub(start)) * float64(i) / ticks))
		dc.DrawStringAnchored(t.In(r.location).Format("01-02 15:04"),
			x(t), chartHeight-marginBottom+16, 0.5, 0.5)
	}
}

// padScale widens the value scale a little so extremes don't sit on the
// frame. Glucose never plots below zero.
func padScale(minV, maxV float64) (float64, float64) {
	pad := (maxV - minV) * 0.08
	if pad == 0 {
		pad = 20
	}
	return math.Max(0, minV-pad), maxV + pad
}

// niceStep rounds a raw step up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	power := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*power {
			return m * power
		}
	}
	return 10 * power
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func encode(dc *gg.Context, caption string) (domain.RenderedChart, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return domain.RenderedChart{}, apperrors.NewRenderError(err, "chart")
	}
	return domain.RenderedChart{
		PNG:     buf.Bytes(),
		Caption: caption,
		Width:   chartWidth,
		Height:  chartHeight,
	}, nil
}
