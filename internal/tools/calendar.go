package tools

import (
	"context"
	"fmt"
)

// CalendarToolName names the calendar tool.
const CalendarToolName = "calendar_tool"

var calendarSummaries = map[string]string{
	"meetings":  "3 upcoming meetings",
	"personal":  "2 personal events",
	"deadlines": "1 project deadline",
}

func calendarTool() Tool {
	return Tool{
		Name:        CalendarToolName,
		Description: "Get calendar events for a specified date range, optionally filtered by category.",
		Parameters: ObjectSchema(map[string]Schema{
			"start_date": StringSchema("Start date for calendar events (YYYY-MM-DD)"),
			"days":       IntegerSchema("Number of days to look ahead").WithDefault(7),
			"category":   StringSchema("Optional category filter for events"),
		}, "start_date"),
		Metadata: Metadata{
			Capabilities: []string{
				"Retrieve events by date range",
				"Filter events by category",
				"Track meeting participants",
				"Manage event durations",
			},
			InputTypes:     []string{"dates", "time ranges", "event categories"},
			CommonUseCases: []string{"Meeting scheduling", "Event planning", "Availability checking"},
			InputFormat: `
- start_date: "2024-03-20" (YYYY-MM-DD)
- days: 7 (optional, default: 7)
- category: "meetings" (optional)`,
			OutputFormat: `Calendar Events (2024-03-20 to +7 days):
- Monday: Team Planning Meeting (9:00 AM) [category: meetings]
- Tuesday: Client Review (2:00 PM) [category: meetings]`,
		},
		Handler: handleCalendar,
	}
}

func handleCalendar(_ context.Context, args Args) (string, error) {
	start, err := args.RequiredString("start_date")
	if err != nil {
		return "", err
	}
	days := 7
	if value, err := args.OptionalInt("days"); err != nil {
		return "", err
	} else if value != nil {
		days = *value
	}
	category, _, err := args.OptionalString("category")
	if err != nil {
		return "", err
	}
	if summary, ok := calendarSummaries[category]; ok {
		return summary, nil
	}
	return fmt.Sprintf(`
Calendar Events (%s to +%d days):
- Monday: Team Planning Meeting (9:00 AM) [category: meetings]
- Tuesday: Client Review (2:00 PM) [category: meetings]
- Wednesday: Project Deadline (5:00 PM) [category: deadlines]
- Thursday: Dentist Appointment (11:00 AM) [category: personal]
- Friday: Team Retrospective (3:00 PM) [category: meetings]
`, start, days), nil
}
