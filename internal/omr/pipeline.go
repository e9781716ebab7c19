package omr

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/omr-tools/internal/detection"
	"github.com/ironsheep/omr-tools/internal/geometry"
	"github.com/ironsheep/omr-tools/internal/imaging"
)

// Mode selects where sheet metadata comes from.
type Mode string

const (
	// ModeMetadata reads metadata from the sheet's QR code.
	ModeMetadata Mode = "metadata"
	// ModeRaw uses metadata supplied by configuration and skips the QR code.
	ModeRaw Mode = "raw"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMetadata, ModeRaw:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown pipeline mode %q (want %q or %q)", s, ModeMetadata, ModeRaw)
}

// Stage names used in logs, errors and metrics.
const (
	StageMarkers   = "markers"
	StageAlign     = "align"
	StageMetadata  = "metadata"
	StageGrid      = "grid"
	StageCircles   = "circles"
	StageMatch     = "match"
	StageClassify  = "classify"
	StageHighlight = "highlight"
)

// Observer receives stage timings and scan outcomes.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
	ObserveOutcome(outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, time.Duration) {}
func (nopObserver) ObserveOutcome(string)              {}

// Scan holds the state of one pipeline run. It is created by Run and never
// shared between runs.
type Scan struct {
	ID        string
	Source    image.Image
	Markers   []Marker
	Canonical *image.RGBA
	Metadata  SheetMetadata
	Circles   []geometry.Point
	Slots     []ExpectedSlot
	Results   []ClassificationResult
	Highlight string
}

// Result is what a successful scan reports.
type Result struct {
	ID        string                 `json:"id"`
	Metadata  SheetMetadata          `json:"metadata"`
	Choices   []ClassificationResult `json:"choices"`
	Slots     []ExpectedSlot         `json:"slots,omitempty"`
	Highlight string                 `json:"highlight,omitempty"`
}

// Pipeline runs the full sheet recognition flow:
// markers → align → metadata → grid → circles → match → classify → highlight.
//
// A Pipeline is immutable after construction and safe for concurrent use;
// each Run owns its Scan.
type Pipeline struct {
	detector   *MarkerDetector
	aligner    *PerspectiveAligner
	decoder    *MetadataDecoder
	finder     detection.CircleFinder
	matcher    *AssignmentMatcher
	classifier *BubbleClassifier
	renderer   *HighlightRenderer

	mode      Mode
	raw       SheetMetadata
	params    detection.CircleParams
	highlight bool
	log       logrus.FieldLogger
	observer  Observer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMode selects the metadata source. ModeRaw requires WithRawMetadata.
func WithMode(m Mode) Option {
	return func(p *Pipeline) { p.mode = m }
}

// WithRawMetadata sets the metadata used in ModeRaw.
func WithRawMetadata(m SheetMetadata) Option {
	return func(p *Pipeline) { p.raw = m }
}

// WithCircleParams overrides DefaultCircleParams.
func WithCircleParams(params detection.CircleParams) Option {
	return func(p *Pipeline) { p.params = params }
}

// WithMargin sets the classifier's acceptance margin.
func WithMargin(margin float64) Option {
	return func(p *Pipeline) { p.classifier = NewBubbleClassifier(margin) }
}

// WithHighlights enables or disables rendering of the overlay.
func WithHighlights(enabled bool) Option {
	return func(p *Pipeline) { p.highlight = enabled }
}

// WithRenderer replaces the default 720px renderer.
func WithRenderer(r *HighlightRenderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithObserver sets the metrics sink.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// NewPipeline wires the scanner components around the given collaborators.
func NewPipeline(markers MarkerSource, codes CodeReader, circles detection.CircleFinder, opts ...Option) (*Pipeline, error) {
	detector := NewMarkerDetector(markers)
	renderer, err := NewHighlightRenderer(DefaultPreview)
	if err != nil {
		return nil, err
	}

	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)

	p := &Pipeline{
		detector:   detector,
		aligner:    NewPerspectiveAligner(detector),
		decoder:    NewMetadataDecoder(codes),
		finder:     circles,
		matcher:    NewAssignmentMatcher(),
		classifier: NewBubbleClassifier(DefaultMargin),
		renderer:   renderer,
		mode:       ModeMetadata,
		params:     detection.DefaultCircleParams(),
		highlight:  true,
		log:        quiet,
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if _, err := ParseMode(string(p.mode)); err != nil {
		return nil, err
	}
	if p.mode == ModeRaw {
		if choiceValues(p.raw.OptionCount) == nil {
			return nil, fmt.Errorf("raw metadata option count must be 2 or 5, got %d", p.raw.OptionCount)
		}
	}
	if err := p.params.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Run scans img. It stops at the first failing stage and returns that
// stage's error; there is no partial result. ctx is checked between stages.
func (p *Pipeline) Run(ctx context.Context, img image.Image) (*Result, error) {
	scan := &Scan{ID: uuid.NewString(), Source: img}
	log := p.log.WithField("scan_id", scan.ID)

	err := p.run(ctx, scan, log)
	if err != nil {
		outcome := string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
		p.observer.ObserveOutcome(outcome)
		log.WithError(err).WithField("kind", outcome).Warn("scan failed")
		return nil, err
	}
	p.observer.ObserveOutcome("ok")
	log.WithField("questions", len(scan.Results)).Info("scan complete")

	return &Result{
		ID:        scan.ID,
		Metadata:  scan.Metadata,
		Choices:   scan.Results,
		Slots:     scan.Slots,
		Highlight: scan.Highlight,
	}, nil
}

func (p *Pipeline) run(ctx context.Context, scan *Scan, log logrus.FieldLogger) error {
	steps := []struct {
		name string
		fn   func(*Scan) error
	}{
		{StageMarkers, p.findMarkers},
		{StageAlign, p.align},
		{StageMetadata, p.readMetadata},
		{StageGrid, p.buildGrid},
		{StageCircles, p.findCircles},
		{StageMatch, p.match},
		{StageClassify, p.classify},
		{StageHighlight, p.render},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		err := step.fn(scan)
		elapsed := time.Since(start)
		p.observer.ObserveStage(step.name, elapsed)
		log.WithFields(logrus.Fields{
			"stage":       step.name,
			"duration_ms": elapsed.Milliseconds(),
		}).Debug("stage finished")
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) findMarkers(s *Scan) error {
	markers, err := p.detector.Detect(s.Source, true)
	if err != nil {
		return err
	}
	s.Markers = markers
	return nil
}

func (p *Pipeline) align(s *Scan) error {
	canonical, err := p.aligner.Align(s.Source, s.Markers)
	if err != nil {
		return err
	}
	s.Canonical = canonical
	return nil
}

func (p *Pipeline) readMetadata(s *Scan) error {
	if p.mode == ModeRaw {
		s.Metadata = p.raw
		return nil
	}
	m, err := p.decoder.Decode(s.Canonical)
	if err != nil {
		return err
	}
	s.Metadata = m
	return nil
}

func (p *Pipeline) buildGrid(s *Scan) error {
	s.Slots = GridFromMetadata(s.Metadata).Collect()
	return nil
}

func (p *Pipeline) findCircles(s *Scan) error {
	circles, err := p.finder.FindCircles(imaging.Grayscale(s.Canonical), p.params)
	if err != nil {
		return fmt.Errorf("find circles: %w", err)
	}
	s.Circles = InteriorCenters(circles)
	return nil
}

func (p *Pipeline) match(s *Scan) error {
	matched, err := p.matcher.Match(s.Slots, s.Circles)
	if err != nil {
		return err
	}
	s.Slots = matched
	return nil
}

func (p *Pipeline) classify(s *Scan) error {
	s.Results = p.classifier.Classify(s.Canonical, s.Slots)
	return nil
}

func (p *Pipeline) render(s *Scan) error {
	if !p.highlight {
		return nil
	}
	uri, err := p.renderer.Render(s.Canonical, s.Metadata.OptionCount, s.Slots, s.Results)
	if err != nil {
		return err
	}
	s.Highlight = uri
	return nil
}

// InteriorCenters rounds circle centers to whole pixels and keeps those
// inside the answer area.
func InteriorCenters(circles []detection.Circle) []geometry.Point {
	out := make([]geometry.Point, 0, len(circles))
	for _, c := range circles {
		p := geometry.Pt(math.RoundToEven(c.Center.X), math.RoundToEven(c.Center.Y))
		if InBoundary(p) {
			out = append(out, p)
		}
	}
	return out
}
