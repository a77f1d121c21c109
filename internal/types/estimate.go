// Package types defines the shared domain types for cost estimation and
// workflow orchestration.
package types

// WorkItemType classifies a decomposed unit of analysis work.
type WorkItemType string

// The closed set of work item types produced by goal decomposition.
const (
	WorkItemDataPreparation     WorkItemType = "data-preparation"
	WorkItemStatisticalAnalysis WorkItemType = "statistical-analysis"
	WorkItemMLModeling          WorkItemType = "ml-modeling"
	WorkItemVisualization       WorkItemType = "visualization"
	WorkItemValidation          WorkItemType = "validation"
)

// Known reports whether the type is a member of the closed set.
func (t WorkItemType) Known() bool {
	switch t {
	case WorkItemDataPreparation, WorkItemStatisticalAnalysis, WorkItemMLModeling,
		WorkItemVisualization, WorkItemValidation:
		return true
	}
	return false
}

// ComplexityTier grades how demanding a work item is expected to be.
type ComplexityTier string

const (
	ComplexityBasic        ComplexityTier = "basic"
	ComplexityIntermediate ComplexityTier = "intermediate"
	ComplexityAdvanced     ComplexityTier = "advanced"
)

// Known reports whether the tier is a member of the closed set.
func (c ComplexityTier) Known() bool {
	switch c {
	case ComplexityBasic, ComplexityIntermediate, ComplexityAdvanced:
		return true
	}
	return false
}

// JourneyType is the user-facing track a project runs on. It scales both
// complexity expectations and price.
type JourneyType string

const (
	JourneyGuided    JourneyType = "guided"
	JourneyBusiness  JourneyType = "business"
	JourneyTechnical JourneyType = "technical"
)

// Known reports whether the journey type is a member of the closed set.
func (j JourneyType) Known() bool {
	switch j {
	case JourneyGuided, JourneyBusiness, JourneyTechnical:
		return true
	}
	return false
}

// WorkItem is one decomposed unit of analysis work. Work items are ephemeral:
// they exist only for the duration of a single estimation request.
type WorkItem struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Type           WorkItemType   `json:"type"`
	Complexity     ComplexityTier `json:"complexity"`
	EstimatedHours float64        `json:"estimated_hours"`
	Dependencies   []string       `json:"dependencies,omitempty"`
	Requirements   []string       `json:"requirements,omitempty"`
}

// DataContext describes the dataset an estimation request refers to.
type DataContext struct {
	SizeInMB    float64 `json:"size_in_mb,omitempty"`
	RecordCount int64   `json:"record_count,omitempty"`
	Columns     int     `json:"columns,omitempty"`
	Complexity  string  `json:"complexity,omitempty"`
}

// CostLineItem is the priced form of one WorkItem. FinalCost is in minor
// currency units and always equals the rounded product of BaseCost and the
// three multipliers.
type CostLineItem struct {
	WorkItemID           string       `json:"work_item_id"`
	Name                 string       `json:"name"`
	Type                 WorkItemType `json:"type"`
	BaseCost             float64      `json:"base_cost"`
	ComplexityMultiplier float64      `json:"complexity_multiplier"`
	JourneyMultiplier    float64      `json:"journey_multiplier"`
	DataSizeMultiplier   float64      `json:"data_size_multiplier"`
	FinalCost            int64        `json:"final_cost"`
	Reasoning            string       `json:"reasoning"`
}

// CostQuote is the itemized, aggregated price estimate returned for a set of
// goals and questions. TotalCost is in minor currency units.
type CostQuote struct {
	LineItems             []CostLineItem `json:"line_items"`
	TotalCost             int64          `json:"total_cost"`
	TotalHours            float64        `json:"total_hours"`
	ComplexityScore       float64        `json:"complexity_score"`
	RiskAdjustmentPercent float64        `json:"risk_adjustment_percent"`
	Recommendations       []string       `json:"recommendations"`
}

// Subtotal returns the sum of line item final costs before risk adjustment.
func (q *CostQuote) Subtotal() int64 {
	var sum int64
	for _, li := range q.LineItems {
		sum += li.FinalCost
	}
	return sum
}
