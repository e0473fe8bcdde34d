package views

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lisacrebassa/pals-analysis/dataset"
	"github.com/lisacrebassa/pals-analysis/engine"
	"github.com/lisacrebassa/pals-analysis/logging"
	"github.com/lisacrebassa/pals-analysis/metrics"
)

// Options are the knobs of the three pages.
type Options struct {
	TopN          int
	ZoneTopK      int
	HistogramBins int
}

// DefaultOptions matches the published dashboard.
func DefaultOptions() Options {
	return Options{TopN: 10, ZoneTopK: 10, HistogramBins: engine.DefaultBins}
}

// Env is what a handler may read. Handlers never write to Store.
type Env struct {
	Kind    Kind
	Store   *dataset.Store
	Options Options
	Logger  *logging.Logger
}

// Handler computes one page.
type Handler func(env *Env) (*Page, error)

// Router dispatches a Kind to its handler. It is safe for concurrent use:
// each render pass is independent and reads the shared store only.
type Router struct {
	store    *dataset.Store
	opts     Options
	logger   *logging.Logger
	handlers map[Kind]Handler
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithOptions sets the page options.
func WithOptions(opts Options) RouterOption {
	return func(r *Router) { r.opts = opts }
}

// WithLogger sets the router logger.
func WithLogger(l *logging.Logger) RouterOption {
	return func(r *Router) { r.logger = l }
}

// NewRouter builds the router for the three dashboard pages.
func NewRouter(store *dataset.Store, opts ...RouterOption) *Router {
	r := &Router{
		store:  store,
		opts:   DefaultOptions(),
		logger: logging.NewNop(),
		handlers: map[Kind]Handler{
			Combat: renderCombat,
			Camp:   renderCamp,
			Zones:  renderZones,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render runs one render pass. A SchemaError from the page's data fails the
// page; other pages are unaffected.
func (r *Router) Render(ctx context.Context, kind Kind) (*Page, error) {
	handler, ok := r.handlers[kind]
	if !ok {
		return nil, errors.WithStack(&UnknownViewError{Name: string(kind)})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderID := uuid.NewString()
	log := r.logger.WithFields(map[string]interface{}{
		"view":      string(kind),
		"render_id": renderID,
	})
	timer := metrics.NewTimer()

	page, err := handler(&Env{Kind: kind, Store: r.store, Options: r.opts, Logger: log})
	if err != nil {
		status := "error"
		if engine.IsSchemaError(err) {
			status = "schema_error"
		}
		metrics.RecordRender(string(kind), status, timer.Duration())
		log.Error("View render failed", zap.Error(err))
		return nil, errors.Wrapf(err, "render %s", kind)
	}

	page.Kind = kind
	page.Title = PageTitle
	page.Subtitle = PageSubtitle
	page.RenderID = renderID

	elapsed := timer.Duration()
	metrics.RecordRender(string(kind), "ok", elapsed)
	log.LogViewEvent(string(kind), "rendered", map[string]interface{}{
		"sections":    len(page.Sections),
		"duration_ms": elapsed.Milliseconds(),
	})
	log.LogPerformanceMetric("render_duration", float64(elapsed.Microseconds())/1000, "ms")
	return page, nil
}

// RenderAll renders every page in navigation order, stopping at the first
// failure.
func (r *Router) RenderAll(ctx context.Context) ([]*Page, error) {
	pages := make([]*Page, 0, len(r.handlers))
	for _, k := range Kinds() {
		p, err := r.Render(ctx, k)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// ============================================================================
// HANDLER HELPERS
// ============================================================================

func (env *Env) table(name dataset.Name) (engine.RecordView, error) {
	return env.Store.Table(name)
}

// checkNaN logs a data-quality event when a derived column holds NaN.
func (env *Env) checkNaN(view engine.RecordView, column string) {
	if n := engine.CountNaN(view, column); n > 0 {
		env.Logger.WithField("dataset", engine.TableName(view)).
			LogDataQualityEvent(column, fmt.Sprintf("%d of %d rows are NaN", n, view.Len()), "warning")
	}
}

// messageSection turns an empty-input failure into a visible message; the
// rest of the page still renders.
func (env *Env) messageSection(id, title string, err error) *Section {
	metrics.RecordSectionMessage(string(env.Kind), id)
	env.Logger.Warn("Section has no data", zap.String("section", id), zap.Error(err))

	var ee *engine.EmptyInputError
	table := ""
	if errors.As(err, &ee) {
		table = ee.Table
	}
	return &Section{
		ID:      id,
		Title:   title,
		Type:    SectionMessage,
		Message: fmt.Sprintf("Aucune donnée disponible (%s est vide).", table),
	}
}

func tableSection(id string, table *engine.TableData) *Section {
	return &Section{ID: id, Title: table.Title, Type: SectionTable, Table: table}
}

func chartSection(id string, chart *engine.ChartConfig) *Section {
	return &Section{ID: id, Title: chart.Title, Type: SectionChart, Chart: chart}
}
