package shipment

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/palletize"
)

// CatalogSource yields the catalog a run should use. catalog.MemoryStore
// satisfies it.
type CatalogSource interface {
	Get() catalog.Catalog
}

// Observer is notified about every finished run.
type Observer interface {
	Observe(report Report)
	ObserveFailure(strategy string)
}

// Planner runs the full packing pipeline.
type Planner struct {
	source          CatalogSource
	logger          *zap.Logger
	clock           func() time.Time
	newID           func() string
	defaultStrategy string
	observer        Observer
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger used for run summaries.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(p *Planner) {
		p.clock = clock
	}
}

// WithIDGenerator overrides how run ids are produced.
func WithIDGenerator(gen func() string) Option {
	return func(p *Planner) {
		p.newID = gen
	}
}

// WithDefaultStrategy sets the strategy used when a request names none.
func WithDefaultStrategy(id string) Option {
	return func(p *Planner) {
		if id != "" {
			p.defaultStrategy = id
		}
	}
}

// WithObserver registers a run observer such as the metrics recorder.
func WithObserver(o Observer) Option {
	return func(p *Planner) {
		p.observer = o
	}
}

// New creates a Planner reading its catalog from source.
func New(source CatalogSource, opts ...Option) *Planner {
	p := &Planner{
		source: source,
		logger: zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
		newID:           uuid.NewString,
		defaultStrategy: packing.DefaultStrategy,
		observer:        nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultStrategy returns the strategy used when a request names none.
func (p *Planner) DefaultStrategy() string {
	return p.defaultStrategy
}

// PackageEverything packs the request's items into boxes, consolidates the
// boxes into outer containers and aggregates the summaries. Items that cannot
// be boxed and boxes that cannot be loaded are reported, not returned as
// errors; an unknown material or strategy aborts the run.
func (p *Planner) PackageEverything(ctx context.Context, req Request) (Report, error) {
	strategyID := req.Strategy
	if strategyID == "" {
		strategyID = p.defaultStrategy
	}

	report, err := p.run(ctx, strategyID, req)
	if err != nil {
		p.observer.ObserveFailure(strategyID)
		p.logger.Warn("packing run failed",
			zap.String("strategy", strategyID),
			zap.Int("items", len(req.Items)),
			zap.Error(err),
		)
		return Report{}, err
	}

	p.observer.Observe(report)
	p.logger.Info("packing run completed",
		zap.String("run_id", report.Metadata.RunID),
		zap.String("strategy", strategyID),
		zap.Int("pieces", report.WorkOrder.TotalPieces),
		zap.Int("boxes", report.Packing.BoxCount),
		zap.Int("containers", report.Packing.ContainerCount),
		zap.Int("unassigned_items", report.Metadata.UnassignedItems),
		zap.Int("unassigned_boxes", report.Metadata.UnassignedBoxes),
		zap.Int("final_weight", report.Weights.FinalWeight),
		zap.Int64("duration_ms", report.Metadata.DurationMs),
	)
	return report, nil
}

func (p *Planner) run(ctx context.Context, strategyID string, req Request) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if len(req.Items) == 0 {
		return Report{}, ErrNoItems
	}

	started := p.clock()
	cat := p.source.Get()
	rules := packing.NewRules(cat)

	strategy, err := packing.New(strategyID, rules)
	if err != nil {
		return Report{}, err
	}
	boxed, err := strategy.Pack(req.Items)
	if err != nil {
		return Report{}, fmt.Errorf("pack boxes: %w", err)
	}
	loaded, err := palletize.NewPacker(cat).Pack(boxed.Boxes, req.Delivery)
	if err != nil {
		return Report{}, fmt.Errorf("pack containers: %w", err)
	}
	priced, err := priceItems(rules, req.Items)
	if err != nil {
		return Report{}, err
	}

	cls := rules.Classifier
	report := Report{
		WorkOrder:       buildWorkOrder(cls, priced),
		Weights:         buildWeights(cls, priced, loaded),
		Packing:         buildPacking(cat, req.Items, boxed.Boxes, loaded.Containers),
		Business:        buildBusiness(cls, req.Items, req.Delivery, loaded.Containers),
		Freight:         buildFreight(loaded.Containers),
		Boxes:           nonNil(boxed.Boxes),
		Containers:      nonNil(loaded.Containers),
		UnassignedItems: nonNil(boxed.Unassigned),
		UnassignedBoxes: nonNil(loaded.Unassigned),
		Assignments:     maps.Clone(boxed.Assignments),
	}

	meta := RunMetadata{
		RunID:               p.newID(),
		Strategy:            strategy.ID(),
		StartedAt:           started,
		TelescopingWarnings: telescopingWarnings(cat, boxed.Boxes),
		UnassignedItems:     len(boxed.Unassigned),
		UnassignedPieces:    boxed.UnassignedQuantity(),
		UnassignedBoxes:     len(loaded.Unassigned),
		Warnings:            []string{},
		Errors:              []string{},
	}
	for _, u := range boxed.Unassigned {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("item %s (%d pieces) unassigned: %s", u.Item.ID, u.Item.Quantity, u.Reason))
	}
	for _, u := range loaded.Unassigned {
		meta.Errors = append(meta.Errors, fmt.Sprintf("box %s not loaded: %s", u.Box.ID, u.Reason))
	}
	meta.FinishedAt = p.clock()
	meta.DurationMs = meta.FinishedAt.Sub(started).Milliseconds()
	report.Metadata = meta

	return report, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type nopObserver struct{}

func (nopObserver) Observe(Report)        {}
func (nopObserver) ObserveFailure(string) {}
