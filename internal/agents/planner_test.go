package agents

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"caterer/internal/models"
	"caterer/internal/models/providers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProvider is a mock implementation of providers.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Complete(ctx context.Context, messages []providers.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

type outcome struct{ kind, result string }

type fakeRecorder struct {
	mu   sync.Mutex
	seen []outcome
}

func (r *fakeRecorder) MenuGenerated(kind, result string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, outcome{kind, result})
}

func weddingRequest() models.MenuRequest {
	return models.MenuRequest{
		EventType:           "Wedding",
		Cuisine:             "South Indian",
		GuestCount:          500,
		BudgetPerPlate:      decimal.NewFromInt(800),
		DietaryPreference:   "Jain",
		SpecialRequirements: "Need live dosa counter",
	}
}

func TestGenerateMenu_Parsed(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []providers.Message) bool {
		return len(msgs) == 2 && msgs[0].Role == providers.RoleSystem &&
			strings.Contains(msgs[1].Content, "₹800") &&
			strings.Contains(msgs[1].Content, "Need live dosa counter")
	})).Return("```json\n{\"starters\": [\"Medu Vada\"], \"main_course\": [\"Sambar\", \"Avial\"], \"soups\": [\"Rasam\"]}\n```", nil)

	rec := &fakeRecorder{}
	planner := NewMenuPlanner(provider, zap.NewNop(), WithRecorder(rec))

	draft, err := planner.GenerateMenu(context.Background(), weddingRequest())
	require.NoError(t, err)
	require.True(t, draft.Parsed)
	assert.Equal(t, []string{"Medu Vada"}, draft.Courses[models.CategoryStarters])
	assert.Equal(t, []string{"Sambar", "Avial"}, draft.Courses[models.CategoryMainCourse])
	assert.Equal(t, []string{}, draft.Courses[models.CategoryBeverages])
	assert.Len(t, draft.Courses, len(models.MenuCategories))
	assert.Empty(t, draft.Raw)
	assert.Equal(t, []outcome{{KindGenerate, OutcomeParsed}}, rec.seen)
	provider.AssertExpectations(t)
}

func TestGenerateMenu_MalformedReturnsRawText(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("```\nHere is your menu: Idli, Vada\n```", nil)

	planner := NewMenuPlanner(provider, zap.NewNop())
	draft, err := planner.GenerateMenu(context.Background(), weddingRequest())

	require.NoError(t, err)
	assert.False(t, draft.Parsed)
	assert.Equal(t, "Here is your menu: Idli, Vada", draft.Raw)
	assert.Nil(t, draft.Courses)
}

func TestGenerateMenu_ProviderFailure(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("connection reset"))

	rec := &fakeRecorder{}
	planner := NewMenuPlanner(provider, zap.NewNop(), WithRecorder(rec))
	_, err := planner.GenerateMenu(context.Background(), weddingRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrExternalService)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, []outcome{{KindGenerate, OutcomeError}}, rec.seen)
	provider.AssertNumberOfCalls(t, "Complete", 1)
}

func TestRegenerateSection(t *testing.T) {
	reply := `["Paneer 65 - ₹90", "Gobi Manchurian - ₹70", "Corn Cheese Balls - ₹80", "Hara Bhara Kebab - ₹85", "Dahi Kebab - ₹95"]`
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []providers.Message) bool {
		p := msgs[1].Content
		return strings.Contains(p, "5 NEW Starters") &&
			strings.Contains(p, "- Medu Vada\n") &&
			strings.Contains(p, `"<name> - ₹<amount>"`)
	})).Return(reply, nil)

	planner := NewMenuPlanner(provider, zap.NewNop())
	items, err := planner.RegenerateSection(context.Background(), RegenerateRequest{
		Category:          models.CategoryStarters,
		EventType:         "Wedding",
		Cuisine:           "South Indian",
		BudgetPerPlate:    decimal.NewFromInt(800),
		DietaryPreference: "Veg",
		CurrentItems:      []string{"Medu Vada"},
	})

	require.NoError(t, err)
	assert.Len(t, items, SectionSize)
	assert.Equal(t, "Paneer 65 - ₹90", items[0])
	provider.AssertExpectations(t)
}

func TestRegenerateSection_Placeholder(t *testing.T) {
	replies := []string{
		`["only", "three", "items"]`,
		`{"desserts": ["Kheer"]}`,
		"Sorry, I cannot help with that.",
		`["a", "b", "", "d", "e"]`,
	}
	for _, reply := range replies {
		t.Run(reply, func(t *testing.T) {
			provider := new(MockProvider)
			provider.On("Complete", mock.Anything, mock.Anything).Return(reply, nil)

			rec := &fakeRecorder{}
			planner := NewMenuPlanner(provider, zap.NewNop(), WithRecorder(rec))
			items, err := planner.RegenerateSection(context.Background(), RegenerateRequest{Category: models.CategoryDesserts})

			require.NoError(t, err)
			assert.Equal(t, []string{"Could not regenerate desserts"}, items)
			assert.Equal(t, []outcome{{KindRegenerate, OutcomePlaceholder}}, rec.seen)
		})
	}
}

func TestRegenerateSection_Errors(t *testing.T) {
	provider := new(MockProvider)
	planner := NewMenuPlanner(provider, zap.NewNop())

	_, err := planner.RegenerateSection(context.Background(), RegenerateRequest{Category: "soups"})
	assert.ErrorIs(t, err, models.ErrInvalidCategory)
	provider.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)

	provider.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("429 too many requests"))
	_, err = planner.RegenerateSection(context.Background(), RegenerateRequest{Category: models.CategoryRice})
	assert.ErrorIs(t, err, models.ErrExternalService)
}

// dishPicker answers section prompts with dishes that the prompt did not forbid
type dishPicker struct {
	pool []string
}

func (d dishPicker) Name() string { return "picker" }

func (d dishPicker) Complete(_ context.Context, messages []providers.Message) (string, error) {
	prompt := messages[len(messages)-1].Content
	var picked []string
	for _, dish := range d.pool {
		if strings.Contains(prompt, "- "+dish+"\n") {
			continue
		}
		picked = append(picked, fmt.Sprintf("%q", dish))
		if len(picked) == SectionSize {
			break
		}
	}
	return "[" + strings.Join(picked, ", ") + "]", nil
}

func TestRegenerateSection_NeverRepeatsShownItems(t *testing.T) {
	pool := []string{
		"Gulab Jamun - ₹40", "Rasmalai - ₹60", "Kheer - ₹45", "Jalebi - ₹35", "Kaju Katli - ₹70",
		"Rabri - ₹55", "Moong Dal Halwa - ₹65", "Shrikhand - ₹50", "Kulfi - ₹45", "Gajar Halwa - ₹60",
	}
	planner := NewMenuPlanner(dishPicker{pool: pool}, zap.NewNop())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 25; i++ {
		var shown []string
		for _, dish := range pool {
			if rng.Intn(2) == 0 && len(shown) < len(pool)-SectionSize {
				shown = append(shown, dish)
			}
		}

		items, err := planner.RegenerateSection(context.Background(), RegenerateRequest{
			Category:     models.CategoryDesserts,
			CurrentItems: shown,
		})
		require.NoError(t, err)
		require.Len(t, items, SectionSize)
		for _, item := range items {
			assert.NotContains(t, shown, item)
		}
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n[\"x\"]\n```", `["x"]`},
		{"```json{\"a\": 1}```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripFences(tt.in), "input %q", tt.in)
	}
}

func TestParseCourses(t *testing.T) {
	courses, err := ParseCourses(`{"breads": ["Naan"], "rice": null}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Naan"}, courses[models.CategoryBreads])
	assert.Equal(t, []string{}, courses[models.CategoryRice])

	_, err = ParseCourses(`{"breads": [{"name": "Naan"}]}`)
	assert.ErrorIs(t, err, models.ErrMalformedResponse)

	_, err = ParseCourses(`["Naan"]`)
	assert.ErrorIs(t, err, models.ErrMalformedResponse)

	_, err = ParseCourses(`null`)
	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}

func TestBuildMenuPrompt(t *testing.T) {
	prompt := BuildMenuPrompt(weddingRequest())
	for _, c := range models.MenuCategories {
		assert.Contains(t, prompt, fmt.Sprintf("%q", c))
	}
	assert.Contains(t, prompt, "₹800 per plate")
	assert.Contains(t, prompt, `"Jain" means`)
	assert.Contains(t, prompt, `"Veg" means`)
	assert.Contains(t, prompt, "plain strings")
}
