package tools

import (
	"context"
	"fmt"
	"strings"
)

// TaskManagementToolName names the task management tool.
const TaskManagementToolName = "task_management_tool"

type mockTask struct {
	Title         string
	Time          string
	Category      string
	Priority      string
	Assignee      string
	Status        string
	DueWithinDays *int
}

var mockTasks = []mockTask{
	{Title: "Team standup", Time: "10:00 AM", Category: "meetings", Priority: "high"},
	{Title: "Client presentation", Time: "2:00 PM", Category: "meetings", Priority: "high"},
	{Title: "Project proposal deadline", Time: "5:00 PM", Category: "deadlines", Priority: "high"},
	{Title: "Review pull requests", Category: "todos", Priority: "medium"},
	{Title: "Update documentation", Category: "todos", Priority: "low"},
}

type taskFilter struct {
	category      string
	priority      string
	assignee      string
	status        string
	dueWithinDays *int
}

func (f taskFilter) match(task mockTask) bool {
	if f.category != "" && task.Category != f.category {
		return false
	}
	if f.priority != "" && task.Priority != f.priority {
		return false
	}
	if f.assignee != "" && task.Assignee != f.assignee {
		return false
	}
	if f.status != "" && task.Status != f.status {
		return false
	}
	if f.dueWithinDays != nil && *f.dueWithinDays > 0 {
		if task.DueWithinDays == nil || *task.DueWithinDays > *f.dueWithinDays {
			return false
		}
	}
	return true
}

func taskManagementTool() Tool {
	return Tool{
		Name: TaskManagementToolName,
		Description: "Task management tool with filtering and organization. Use it to manage tasks and to-do lists, " +
			"not for calendar management.",
		Parameters: ObjectSchema(map[string]Schema{
			"date":            StringSchema("The date to get tasks for (YYYY-MM-DD)"),
			"category":        StringSchema("Filter by category"),
			"priority":        StringSchema("Filter by priority"),
			"assignee":        StringSchema("Filter by assigned person"),
			"status":          StringSchema("Filter by task status"),
			"due_within_days": IntegerSchema("Filter tasks due within the given number of days"),
		}, "date"),
		Metadata: Metadata{
			Capabilities:   []string{"Create and track tasks", "Set priorities", "Manage deadlines", "Categorize tasks"},
			InputTypes:     []string{"task details", "priorities", "dates"},
			CommonUseCases: []string{"Project management", "Personal task tracking", "Team coordination"},
			InputFormat: `
- date: "2024-03-20" (YYYY-MM-DD)
- category: "meetings" (optional)
- priority: "high" | "medium" | "low" (optional)`,
			OutputFormat: `Task List for 2024-03-20:
- Team standup (10:00 AM) [category: meetings] [priority: high]
- Client presentation (2:00 PM) [category: meetings] [priority: high]`,
		},
		Handler: handleTasks,
	}
}

func handleTasks(_ context.Context, args Args) (string, error) {
	date, err := args.RequiredString("date")
	if err != nil {
		return "", err
	}
	var filter taskFilter
	for key, dst := range map[string]*string{
		"category": &filter.category,
		"priority": &filter.priority,
		"assignee": &filter.assignee,
		"status":   &filter.status,
	} {
		value, _, err := args.OptionalString(key)
		if err != nil {
			return "", err
		}
		*dst = value
	}
	if filter.dueWithinDays, err = args.OptionalInt("due_within_days"); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Task List for %s:", date)
	matched := 0
	for _, task := range mockTasks {
		if !filter.match(task) {
			continue
		}
		matched++
		timeInfo := ""
		if task.Time != "" {
			timeInfo = " (" + task.Time + ")"
		}
		fmt.Fprintf(&b, "\n- %s%s [category: %s] [priority: %s]", task.Title, timeInfo, task.Category, task.Priority)
	}
	if matched == 0 {
		return "No tasks found for this date", nil
	}
	return b.String(), nil
}
