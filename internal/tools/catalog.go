package tools

import "fmt"

// DefaultNames lists the catalog tools in registration order.
var DefaultNames = []string{
	SummaryToolName,
	SearchWebToolName,
	StatisticalAnalysisToolName,
	TaskManagementToolName,
	CodeToolName,
	DatabaseToolName,
	CalendarToolName,
}

// CatalogOptions configures the default catalog.
type CatalogOptions struct {
	Code     CodeOptions
	Disabled []string
}

// NewDefaultRegistry registers the seven mock tools.
func NewDefaultRegistry(opts CatalogOptions) (*Registry, error) {
	registry := NewRegistry()
	for _, tool := range []Tool{
		summaryTool(),
		searchWebTool(),
		statisticalAnalysisTool(),
		taskManagementTool(),
		codeTool(opts.Code),
		databaseTool(),
		calendarTool(),
	} {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	for _, name := range opts.Disabled {
		if err := registry.SetEnabled(name, false); err != nil {
			return nil, fmt.Errorf("disable tool: %w", err)
		}
	}
	return registry, nil
}
