package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/logging"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/retriever"

// DefaultCodePrefix is the number of code characters added to the fallback query.
const DefaultCodePrefix = 500

// Tier identifies which search produced an Outcome.
type Tier string

const (
	TierWeakness Tier = "weakness"
	TierFullText Tier = "full_text"
	TierNone     Tier = "none"
)

// Searcher is the part of vecstore.Store the retriever needs.
type Searcher interface {
	SearchByWeakness(ctx context.Context, weaknessID string, k int) ([]vecstore.Result, error)
	SearchByText(ctx context.Context, query string, k int, language string) ([]vecstore.Result, error)
}

// Config configures a Retriever.
type Config struct {
	// MaxWeaknessDistance accepts a weakness-index hit whose id differs from
	// the query when its distance is at most this value. Zero accepts exact
	// vector matches only.
	MaxWeaknessDistance float64
	// CodePrefix is the number of leading code runes used in the fallback
	// query. Zero means DefaultCodePrefix.
	CodePrefix int
}

// DefaultConfig returns the retriever defaults.
func DefaultConfig() Config {
	return Config{CodePrefix: DefaultCodePrefix}
}

func (c Config) validate() error {
	if c.MaxWeaknessDistance < 0 {
		return errors.New("retriever: max weakness distance must not be negative")
	}
	if c.CodePrefix < 0 {
		return errors.New("retriever: code prefix must not be negative")
	}
	return nil
}

// Outcome describes a retrieval.
type Outcome struct {
	Tier Tier
	// Document is the selected recipe; zero when Tier is TierNone.
	Document vector.Document
	Distance float64
	Context  string
}

// Retriever runs the two-tier lookup.
type Retriever struct {
	store  Searcher
	cfg    Config
	logger *logging.Logger
	tracer trace.Tracer
}

// New creates a Retriever over store.
func New(store Searcher, cfg Config, logger *logging.Logger) (*Retriever, error) {
	if store == nil {
		return nil, errors.New("retriever: store is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.CodePrefix == 0 {
		cfg.CodePrefix = DefaultCodePrefix
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Retriever{
		store:  store,
		cfg:    cfg,
		logger: logger.Named("retriever"),
		tracer: otel.Tracer(instrumentationName),
	}, nil
}

// Retrieve returns the extracted context for the best recipe, or NoGuidance.
// Store and encoder failures are returned as errors; no match is not one.
func (r *Retriever) Retrieve(ctx context.Context, weaknessID, language, code string) (string, error) {
	out, err := r.RetrieveDetailed(ctx, weaknessID, language, code)
	if err != nil {
		return "", err
	}
	return out.Context, nil
}

// RetrieveDetailed is Retrieve reporting which tier and document were used.
func (r *Retriever) RetrieveDetailed(ctx context.Context, weaknessID, language, code string) (Outcome, error) {
	ctx, span := r.tracer.Start(ctx, "retriever.Retrieve", trace.WithAttributes(
		attribute.String("weakness_id", weaknessID),
		attribute.String("language", language),
	))
	defer span.End()
	start := time.Now()
	defer func() { RetrievalDuration.Observe(time.Since(start).Seconds()) }()

	out, err := r.retrieve(ctx, weaknessID, language, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Outcome{}, err
	}
	span.SetAttributes(attribute.String("tier", string(out.Tier)))
	RetrievalsTotal.WithLabelValues(string(out.Tier)).Inc()
	r.logger.Debug(ctx, "retrieval resolved",
		zap.String("weakness_id", weaknessID),
		zap.String("language", language),
		zap.String("tier", string(out.Tier)),
		zap.Int("document", out.Document.ID))
	return out, nil
}

func (r *Retriever) retrieve(ctx context.Context, weaknessID, language, code string) (Outcome, error) {
	hits, err := r.store.SearchByWeakness(ctx, weaknessID, 1)
	if err != nil {
		return Outcome{}, fmt.Errorf("retriever: weakness search: %w", err)
	}
	if len(hits) > 0 && r.accept(weaknessID, hits[0]) {
		return outcome(TierWeakness, hits[0]), nil
	}

	hits, err = r.store.SearchByText(ctx, r.fallbackQuery(weaknessID, language, code), 1, language)
	if err != nil {
		return Outcome{}, fmt.Errorf("retriever: full-text search: %w", err)
	}
	if len(hits) > 0 {
		return outcome(TierFullText, hits[0]), nil
	}
	return Outcome{Tier: TierNone, Context: NoGuidance}, nil
}

// accept reports whether a weakness-index hit answers the query. The
// weakness index always returns its nearest entry, so an unrelated recipe
// must not end the lookup before the full-text tier runs.
func (r *Retriever) accept(weaknessID string, hit vecstore.Result) bool {
	if strings.EqualFold(strings.TrimSpace(hit.Document.Metadata.WeaknessID), strings.TrimSpace(weaknessID)) {
		return true
	}
	return hit.Distance <= r.cfg.MaxWeaknessDistance
}

func (r *Retriever) fallbackQuery(weaknessID, language, code string) string {
	return language + " " + weaknessID + " " + prefixRunes(code, r.cfg.CodePrefix)
}

func prefixRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func outcome(tier Tier, hit vecstore.Result) Outcome {
	return Outcome{
		Tier:     tier,
		Document: hit.Document,
		Distance: hit.Distance,
		Context:  Extract(hit.Document.Content),
	}
}
