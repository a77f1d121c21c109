package decomposition

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mateo/quotient/internal/types"
)

// parseAnalysis decodes a JSON analysis payload and normalizes the enum
// fields. Unknown type or complexity strings are preserved after
// normalization: the pricing layer flags and defaults them rather than this
// parser guessing.
func parseAnalysis(raw string) (*Analysis, error) {
	var analysis Analysis
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&analysis); err != nil {
		return nil, fmt.Errorf("failed to parse decomposition response: %w", err)
	}

	if len(analysis.WorkItems) == 0 {
		return nil, fmt.Errorf("decomposition returned no work items")
	}

	for i := range analysis.WorkItems {
		item := &analysis.WorkItems[i]
		item.Type = normalizeWorkItemType(string(item.Type))
		item.Complexity = types.ComplexityTier(normalizeToken(string(item.Complexity)))
		if item.ID == "" {
			item.ID = fmt.Sprintf("wi_%03d", i+1)
		}
	}

	return &analysis, nil
}

// normalizeWorkItemType canonicalizes common variants of the five work item
// types so downstream rate lookups stay exhaustive.
func normalizeWorkItemType(s string) types.WorkItemType {
	switch t := normalizeToken(s); t {
	case "data-preparation", "data-prep", "data-cleaning":
		return types.WorkItemDataPreparation
	case "statistical-analysis", "statistics", "stats":
		return types.WorkItemStatisticalAnalysis
	case "ml-modeling", "machine-learning", "ml":
		return types.WorkItemMLModeling
	case "visualization", "viz", "charting":
		return types.WorkItemVisualization
	case "validation", "qa":
		return types.WorkItemValidation
	default:
		return types.WorkItemType(t)
	}
}

// normalizeToken lowercases and hyphenates a free-form enum token.
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	return strings.ReplaceAll(s, " ", "-")
}
