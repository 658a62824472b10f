package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/diceforge/internal/fit"
	"github.com/samdwyer/diceforge/internal/gamedata"
	"github.com/samdwyer/diceforge/internal/optimizer"
	"github.com/samdwyer/diceforge/internal/tier"
)

const (
	chartTop    = 2
	chartHeight = 12
	barWidth    = 4
)

// FitView is everything the renderer needs to draw one class's fitted curve.
type FitView struct {
	Class      gamedata.ClassDef
	Results    []fit.Result
	TotalError float64
	Tiers      *tier.Classifier
	Status     string
}

// Renderer draws tuner views to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// RenderFit draws the target-vs-actual chart and the breakpoint table for
// one fitted class curve.
func (r *Renderer) RenderFit(v FitView) {
	r.screen.Clear()

	header := fmt.Sprintf("%s  curve=%s [%g..%g]  maxDice=%d  monotonic=%v  total err=%.3f",
		v.Class.Name, v.Class.Curve.Type, v.Class.Curve.Min, v.Class.Curve.Max,
		v.Class.MaxDice, v.Class.Monotonic, v.TotalError)
	accent := gamedata.MustParseHexColor(v.Class.Color)
	r.screen.DrawText(0, 0, header, tcell.StyleDefault.Foreground(gamedata.TCellColor(accent)).Bold(true))

	maxVal := 0.0
	for _, res := range v.Results {
		if res.TargetValue > maxVal {
			maxVal = res.TargetValue
		}
		if res.ActualValue > maxVal {
			maxVal = res.ActualValue
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	for i, res := range v.Results {
		r.drawBar(i*barWidth, res, maxVal, v.Tiers)
	}

	r.renderTable(chartTop+chartHeight+2, v.Results)

	_, h := r.screen.Size()
	r.screen.DrawText(0, h-2, v.Status, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	r.screen.DrawText(0, h-1,
		"left/right class  up/down steepness  i/I inflection  +/- maxDice  m monotonic  o optimize  r reset  q quit",
		tcell.StyleDefault.Foreground(tcell.ColorGray))

	r.screen.Show()
}

// drawBar draws one trait's column: a tier-colored bar for the fitted value
// and a marker row for the target.
func (r *Renderer) drawBar(x int, res fit.Result, maxVal float64, tiers *tier.Classifier) {
	barColor := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	if tiers != nil {
		barColor = gamedata.MustParseHexColor(tiers.Classify(res.ActualValue).Color)
	}
	if res.MonotonicViolation {
		// Dim violating bars so they stand out against their neighbors.
		barColor = gamedata.Shade(barColor, -0.5)
	}
	style := tcell.StyleDefault.Foreground(gamedata.TCellColor(barColor))

	actualRows := int(res.ActualValue / maxVal * float64(chartHeight))
	targetRow := chartTop + chartHeight - 1 - int(res.TargetValue/maxVal*float64(chartHeight-1))

	for row := 0; row < chartHeight; row++ {
		y := chartTop + chartHeight - 1 - row
		ch := ' '
		if row < actualRows {
			ch = '█'
		}
		for dx := 0; dx < barWidth-1; dx++ {
			if y == targetRow && ch == ' ' {
				r.screen.SetContent(x+dx, y, '─', tcell.StyleDefault.Foreground(tcell.ColorWhite))
				continue
			}
			r.screen.SetContent(x+dx, y, ch, style)
		}
	}
	r.screen.DrawText(x, chartTop+chartHeight, fmt.Sprintf("%d", res.Trait),
		tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// renderTable draws the per-trait breakpoint rows below the chart.
func (r *Renderer) renderTable(y int, results []fit.Result) {
	r.screen.DrawText(0, y, " trait  target  actual    err  tier       dice", tcell.StyleDefault.Bold(true))
	for i, res := range results {
		flag := " "
		if res.MonotonicViolation {
			flag = "!"
		}
		row := fmt.Sprintf("%s%5d  %6.2f  %6.2f  %5.2f  %-9s  %s",
			flag, res.Trait, res.TargetValue, res.ActualValue, res.Err, res.Color, formatDice(res.Dice))
		r.screen.DrawText(0, y+1+i, row, tcell.StyleDefault)
	}
}

// RenderOptimizer draws the shared-die design result.
func (r *Renderer) RenderOptimizer(res *optimizer.Result) {
	r.screen.Clear()

	r.screen.DrawText(0, 0, "Global die design", tcell.StyleDefault.Bold(true))
	faces := make([]string, len(res.Die.Faces))
	for i, f := range res.Die.Faces {
		faces[i] = fmt.Sprintf("%.2f", f)
	}
	r.screen.DrawText(0, 1, "faces: ["+strings.Join(faces, " ")+"]", tcell.StyleDefault)
	r.screen.DrawText(0, 2, fmt.Sprintf("total err=%.3f  mse=%.3f", res.TotalError, res.MeanSquaredError),
		tcell.StyleDefault)

	y := 4
	for _, cls := range res.Classes {
		style := tcell.StyleDefault.Bold(true)
		if accent, err := gamedata.ParseHexColor(cls.Color); err == nil {
			style = style.Foreground(gamedata.TCellColor(accent))
		}
		r.screen.DrawText(0, y, cls.Name, style)
		y++
		for _, t := range cls.Traits {
			r.screen.DrawText(2, y, fmt.Sprintf("trait %2d  target %6.2f  actual %6.2f",
				t.Trait, t.TargetEV, t.ActualEV), tcell.StyleDefault)
			y++
		}
		y++
	}

	_, h := r.screen.Size()
	r.screen.DrawText(0, h-1, "any key: back to fit view", tcell.StyleDefault.Foreground(tcell.ColorGray))
	r.screen.Show()
}

// formatDice renders a dice multiset as e.g. "2xd6 + 1xd8".
func formatDice(dc []fit.DiceCount) string {
	if len(dc) == 0 {
		return "-"
	}
	parts := make([]string, len(dc))
	for i, d := range dc {
		parts[i] = fmt.Sprintf("%dx%s", d.Count, d.DieID)
	}
	return strings.Join(parts, " + ")
}
