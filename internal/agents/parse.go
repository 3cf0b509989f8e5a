package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"caterer/internal/models"
)

// SectionSize is the number of items a regenerated category must contain
const SectionSize = 5

// StripFences removes a leading ``` or ```json marker and a trailing ``` marker
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseCourses reads a JSON object of category lists. Missing categories are
// empty and unknown keys are ignored.
func ParseCourses(text string) (models.Courses, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty payload", models.ErrMalformedResponse)
	}

	courses := models.NewCourses()
	for _, c := range models.MenuCategories {
		value, ok := raw[string(c)]
		if !ok {
			continue
		}
		var items []string
		if err := json.Unmarshal(value, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrMalformedResponse, c, err)
		}
		if items != nil {
			courses[c] = items
		}
	}
	return courses, nil
}

// ParseSection reads a JSON array of exactly SectionSize non-empty strings
func ParseSection(text string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	if len(items) != SectionSize {
		return nil, fmt.Errorf("%w: got %d items, want %d", models.ErrMalformedResponse, len(items), SectionSize)
	}
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			return nil, fmt.Errorf("%w: item %d is empty", models.ErrMalformedResponse, i)
		}
	}
	return items, nil
}
