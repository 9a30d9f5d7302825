package tools

import (
	"context"
	"strings"
)

// DatabaseToolName names the database tool.
const DatabaseToolName = "database_tool"

var databaseResults = map[string]string{
	"SELECT": `
| user_id | number_of_posts | country | city    |
|---------|----------------|---------|---------|
| 1       | 156            | USA     | Seattle |
| 2       | 89             | Canada  | Toronto |
| 3       | 234            | UK      | London  |
Total rows: 3
`,
	"INSERT": "Insert: Successfully inserted 1 row",
	"UPDATE": "Update: Successfully updated 5 rows",
	"DELETE": "Delete: Successfully deleted 2 rows",
	"error":  "Error: Invalid SQL query syntax",
}

var databaseResultOrder = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "error"}

func databaseTool() Tool {
	return Tool{
		Name: DatabaseToolName,
		Description: "Executes a SQL query on the users database. Available columns: user_id, number_of_posts, " +
			"registered_at, last_login, country, city, language, gender.",
		Parameters: ObjectSchema(map[string]Schema{
			"query": StringSchema("The SQL query to execute"),
		}, "query"),
		Metadata: Metadata{
			Capabilities:   []string{"Execute SQL queries", "Filter user data", "Generate reports", "Track user metrics"},
			InputTypes:     []string{"SQL queries", "user IDs", "metrics"},
			CommonUseCases: []string{"User analytics", "Data reporting", "Metric tracking"},
			InputFormat: `SQL Queries:
- SELECT: "SELECT * FROM users WHERE posts > 100"
- INSERT: "INSERT INTO users (name, posts) VALUES ('John', 120)"
- UPDATE: "UPDATE users SET posts = 150 WHERE id = 1"
- DELETE: "DELETE FROM users WHERE id = 1"`,
			OutputFormat: `user_id | posts | country | city
1       | 156   | USA     | Seattle
2       | 89    | Canada  | Toronto
Total rows: 2`,
		},
		Handler: handleDatabase,
	}
}

func handleDatabase(_ context.Context, args Args) (string, error) {
	query, err := args.RequiredString("query")
	if err != nil {
		return "", err
	}
	fields := strings.Fields(query)
	queryType := strings.ToUpper(fields[0])
	if result, ok := databaseResults[queryType]; ok {
		return result, nil
	}
	return "Invalid query type. Available types: " + strings.Join(databaseResultOrder, ", "), nil
}
