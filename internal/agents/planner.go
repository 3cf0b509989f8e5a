package agents

import (
	"context"
	"fmt"
	"time"

	"caterer/internal/models"
	"caterer/internal/models/providers"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Kinds of generation calls, used for metrics and logs
const (
	KindGenerate   = "generate"
	KindRegenerate = "regenerate"
)

// Outcomes of a generation call
const (
	OutcomeParsed      = "parsed"
	OutcomeRaw         = "raw"
	OutcomePlaceholder = "placeholder"
	OutcomeError       = "error"
)

// Recorder receives one observation per generation call
type Recorder interface {
	MenuGenerated(kind, outcome string, elapsed time.Duration)
}

// MenuDraft is the result of an initial generation. When the reply could not
// be read as a menu, Parsed is false and Raw holds the cleaned reply text so
// it can be corrected by hand.
type MenuDraft struct {
	Parsed  bool           `json:"parsed"`
	Courses models.Courses `json:"menu,omitempty"`
	Raw     string         `json:"menu_data,omitempty"`
}

// RegenerateRequest asks for fresh items for one category of a menu
type RegenerateRequest struct {
	Category          models.MenuCategory
	EventType         string
	Cuisine           string
	BudgetPerPlate    decimal.Decimal
	DietaryPreference string
	CurrentItems      []string
}

// MenuPlanner drafts menus with a text generation provider
type MenuPlanner struct {
	provider providers.Provider
	logger   *zap.Logger
	recorder Recorder
}

// PlannerOption configures a MenuPlanner
type PlannerOption func(*MenuPlanner)

// WithRecorder attaches a metrics recorder
func WithRecorder(r Recorder) PlannerOption {
	return func(p *MenuPlanner) { p.recorder = r }
}

// NewMenuPlanner creates a planner on top of the given provider
func NewMenuPlanner(provider providers.Provider, logger *zap.Logger, opts ...PlannerOption) *MenuPlanner {
	p := &MenuPlanner{
		provider: provider,
		logger:   logger.Named("planner"),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerateMenu drafts a full six-category menu for the event.
// A provider failure is returned as models.ErrExternalService. An unreadable
// reply is not an error: the draft comes back unparsed with the raw text.
func (p *MenuPlanner) GenerateMenu(ctx context.Context, req models.MenuRequest) (*MenuDraft, error) {
	start := time.Now()
	text, err := p.complete(ctx, BuildMenuPrompt(req))
	if err != nil {
		p.recorder.MenuGenerated(KindGenerate, OutcomeError, time.Since(start))
		return nil, err
	}

	cleaned := StripFences(text)
	courses, err := ParseCourses(cleaned)
	if err != nil {
		p.recorder.MenuGenerated(KindGenerate, OutcomeRaw, time.Since(start))
		p.logger.Warn("menu reply is not a valid menu, returning raw text",
			zap.String("event_type", req.EventType),
			zap.Error(err),
		)
		return &MenuDraft{Raw: cleaned}, nil
	}

	p.recorder.MenuGenerated(KindGenerate, OutcomeParsed, time.Since(start))
	p.logger.Info("menu generated",
		zap.String("event_type", req.EventType),
		zap.String("cuisine", req.Cuisine),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &MenuDraft{Parsed: true, Courses: courses}, nil
}

// RegenerateSection returns five new priced items for one category.
// Items already shown are listed to the provider as forbidden; the reply is
// not filtered locally. An unreadable reply yields the placeholder list.
func (p *MenuPlanner) RegenerateSection(ctx context.Context, req RegenerateRequest) ([]string, error) {
	if !req.Category.IsValid() {
		return nil, models.NewDomainError(models.ErrInvalidCategory.Code, fmt.Sprintf("unknown menu category: %q", req.Category))
	}

	start := time.Now()
	text, err := p.complete(ctx, BuildSectionPrompt(req))
	if err != nil {
		p.recorder.MenuGenerated(KindRegenerate, OutcomeError, time.Since(start))
		return nil, err
	}

	items, err := ParseSection(StripFences(text))
	if err != nil {
		p.recorder.MenuGenerated(KindRegenerate, OutcomePlaceholder, time.Since(start))
		p.logger.Warn("section reply is not a list of five items",
			zap.String("category", string(req.Category)),
			zap.Error(err),
		)
		return Placeholder(req.Category), nil
	}

	p.recorder.MenuGenerated(KindRegenerate, OutcomeParsed, time.Since(start))
	p.logger.Info("section regenerated",
		zap.String("category", string(req.Category)),
		zap.Int("excluded", len(req.CurrentItems)),
	)
	return items, nil
}

// Placeholder is the single-item list returned when a section could not be regenerated
func Placeholder(category models.MenuCategory) []string {
	return []string{fmt.Sprintf("Could not regenerate %s", category)}
}

func (p *MenuPlanner) complete(ctx context.Context, prompt string) (string, error) {
	text, err := p.provider.Complete(ctx, []providers.Message{
		{Role: providers.RoleSystem, Content: systemPrompt},
		{Role: providers.RoleUser, Content: prompt},
	})
	if err != nil {
		p.logger.Error("menu generation call failed", zap.String("provider", p.provider.Name()), zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrExternalService, err)
	}
	return text, nil
}

type nopRecorder struct{}

func (nopRecorder) MenuGenerated(string, string, time.Duration) {}

// IsPlaceholder reports whether items is the placeholder for category
func IsPlaceholder(category models.MenuCategory, items []string) bool {
	return len(items) == 1 && items[0] == Placeholder(category)[0]
}
