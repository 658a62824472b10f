// Package tuner drives the interactive balance-tuning session: it owns the
// terminal loop, applies parameter changes, and recomputes fits on demand.
// All engine calls are explicit; the engine itself keeps no state between
// recomputes.
package tuner

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/diceforge/internal/dice"
	"github.com/samdwyer/diceforge/internal/fit"
	"github.com/samdwyer/diceforge/internal/gamedata"
	"github.com/samdwyer/diceforge/internal/optimizer"
	"github.com/samdwyer/diceforge/internal/telemetry"
	"github.com/samdwyer/diceforge/internal/tier"
	"github.com/samdwyer/diceforge/internal/ui"
)

// Tuner holds the tuning session state.
type Tuner struct {
	screen    *ui.Screen
	renderer  *ui.Renderer
	registry  *gamedata.ClassRegistry
	catalog   *dice.Catalog
	tiers     *tier.Classifier
	config    Config
	classIdx  int
	working   gamedata.ClassDef
	results   []fit.Result
	optResult *optimizer.Result
	mode      Mode
	status    string
	running   bool
}

// New creates a new tuner instance.
func New(cfg Config) (*Tuner, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	cfg = cfg.withDefaults()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Tuner{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		config:   cfg,
		mode:     ModeFit,
		running:  true,
	}, nil
}

// Run executes the main tuning loop.
func (t *Tuner) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("tuner")

	ctx, initSpan := tracer.Start(ctx, "tuner.init")
	registry, err := gamedata.LoadClassRegistry()
	if err != nil {
		initSpan.End()
		t.screen.Close()
		return err
	}
	t.registry = registry
	t.catalog = gamedata.MustLoadCatalog()
	t.tiers = gamedata.MustLoadClassifier()
	t.working = *registry.At(0)

	initSpan.SetAttributes(
		attribute.Int("classes", registry.Count()),
		attribute.Int("dice", t.catalog.Count()),
	)
	initSpan.End()

	t.refit(ctx)

	for t.running {
		switch t.mode {
		case ModeOptimizer:
			t.renderer.RenderOptimizer(t.optResult)
		default:
			t.renderer.RenderFit(ui.FitView{
				Class:      t.working,
				Results:    t.results,
				TotalError: fit.TotalError(t.results),
				Tiers:      t.tiers,
				Status:     t.status,
			})
		}
		t.handleInput(ctx)
	}

	t.screen.Close()
	return nil
}

// handleInput processes a single input event.
func (t *Tuner) handleInput(ctx context.Context) {
	ev := t.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		t.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input for the current mode.
func (t *Tuner) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	if t.mode == ModeOptimizer {
		// Any key returns to the fit view.
		t.mode = ModeFit
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.running = false
		return
	case tcell.KeyLeft:
		t.selectClass(ctx, t.classIdx-1)
		return
	case tcell.KeyRight:
		t.selectClass(ctx, t.classIdx+1)
		return
	case tcell.KeyUp:
		t.working.Curve.Steepness += 0.1
		t.refit(ctx)
		return
	case tcell.KeyDown:
		t.working.Curve.Steepness -= 0.1
		t.refit(ctx)
		return
	}

	switch ev.Rune() {
	case 'q':
		t.running = false
	case 'i':
		t.working.Curve.Inflection -= 0.5
		t.refit(ctx)
	case 'I':
		t.working.Curve.Inflection += 0.5
		t.refit(ctx)
	case '+', '=':
		if t.working.MaxDice < fit.MaxDicePerCombination {
			t.working.MaxDice++
			t.refit(ctx)
		}
	case '-':
		if t.working.MaxDice > 1 {
			t.working.MaxDice--
			t.refit(ctx)
		}
	case 'm':
		t.working.Monotonic = !t.working.Monotonic
		t.refit(ctx)
	case 'r':
		t.working = *t.registry.At(t.classIdx)
		t.refit(ctx)
	case 'o':
		t.optimize(ctx)
	}
}

// selectClass switches the working copy to another class and refits.
func (t *Tuner) selectClass(ctx context.Context, idx int) {
	t.classIdx = idx
	t.working = *t.registry.At(idx)
	t.refit(ctx)
}

// refit recomputes the current class's curve fit from scratch.
func (t *Tuner) refit(ctx context.Context) {
	tracer := telemetry.Tracer("tuner")
	_, span := tracer.Start(ctx, "tuner.fit")
	defer span.End()

	span.SetAttributes(attribute.String("class", t.working.Key))

	params, err := t.working.CurveParams()
	if err != nil {
		t.results = nil
		t.status = err.Error()
		return
	}
	results, err := fit.FitCurve(t.catalog, params, t.working.Constraints(t.tiers))
	if err != nil {
		t.results = nil
		t.status = err.Error()
		return
	}
	t.results = results
	t.status = fmt.Sprintf("fitted %d traits", len(results))
	span.SetAttributes(attribute.Float64("fit.total_error", fit.TotalError(results)))
}

// optimize runs the global die design across the full roster and switches to
// the optimizer view.
func (t *Tuner) optimize(ctx context.Context) {
	classTargets, err := gamedata.OptimizerTargets(t.registry.All())
	if err != nil {
		t.status = err.Error()
		return
	}

	res, err := optimizer.Optimize(ctx, classTargets, optimizer.Options{
		NumFaces:        t.config.NumFaces,
		MaxDice:         10,
		Iterations:      t.config.Iterations,
		VariancePenalty: 0.1,
		Seed:            t.config.Seed,
	})
	if err != nil {
		t.status = err.Error()
		return
	}
	t.optResult = res
	t.mode = ModeOptimizer
}
