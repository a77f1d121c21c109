// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mateo/quotient/internal/pricing"
	"github.com/mateo/quotient/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintQuote outputs a human-readable summary of a cost quote.
func (p *Printer) PrintQuote(quote *types.CostQuote) {
	if quote == nil {
		return
	}

	var sb strings.Builder

	count := min(len(quote.LineItems), maxItemsToShow)
	for i := 0; i < count; i++ {
		li := quote.LineItems[i]
		name := li.Name
		if len(name) > 38 {
			name = name[:35] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %-38s %s\n", name, pricing.FormatMinorUnits(li.FinalCost)))

		reasoning := li.Reasoning
		if len(reasoning) > 50 {
			reasoning = reasoning[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", reasoning))
	}
	if len(quote.LineItems) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more line items\n", len(quote.LineItems)-maxItemsToShow))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Hours:      %.1f\n", quote.TotalHours))
	sb.WriteString(fmt.Sprintf("Complexity: %.1f\n", quote.ComplexityScore))
	if quote.RiskAdjustmentPercent > 0 {
		sb.WriteString(fmt.Sprintf("Risk:       +%.0f%%\n", quote.RiskAdjustmentPercent))
	}
	sb.WriteString(fmt.Sprintf("Total:      %s", pricing.FormatMinorUnits(quote.TotalCost)))

	p.printBox("COST QUOTE", sb.String())

	if len(quote.Recommendations) > 0 {
		var rb strings.Builder
		for i, rec := range quote.Recommendations {
			if len(rec) > 52 {
				rec = rec[:49] + "..."
			}
			rb.WriteString(fmt.Sprintf("• %s", rec))
			if i < len(quote.Recommendations)-1 {
				rb.WriteString("\n")
			}
		}
		p.printBox("RECOMMENDATIONS", rb.String())
	}
}

// PrintWorkflowStatus outputs the step checklist for a workflow.
func (p *Printer) PrintWorkflowStatus(cfg *types.WorkflowConfig) {
	if cfg == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Project: %s\n", cfg.ProjectID))
	sb.WriteString(fmt.Sprintf("Service: %s\n\n", cfg.ServiceType))

	for _, step := range cfg.Steps {
		marker := "  "
		switch {
		case step.Completed:
			marker = "✓ "
		case step.ID == cfg.CurrentStep:
			marker = "→ "
		}
		sb.WriteString(fmt.Sprintf("%s%s\n", marker, step.Title))
	}

	p.printBox("WORKFLOW STATUS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScanVerdict outputs the scan result for an upload.
func (p *Printer) PrintScanVerdict(verdict *types.ScanVerdict) {
	if verdict == nil {
		return
	}

	if verdict.Clean {
		p.printBox("SECURITY SCAN", "✅ FILE IS CLEAN")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d threats:\n\n", len(verdict.Threats)))
	for i, threat := range verdict.Threats {
		if len(threat) > 50 {
			threat = threat[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s", threat))
		if i < len(verdict.Threats)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SECURITY SCAN", sb.String())
}
