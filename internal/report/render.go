package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Render writes the report in the given format.
func Render(w io.Writer, report Report, format string) error {
	format, err := ParseFormat(format)
	if err != nil {
		return err
	}
	switch format {
	case "markdown":
		return writeMarkdown(report, w)
	case "json":
		return writeJSON(report, w)
	default:
		return writeTable(report, w)
	}
}

func writeTable(report Report, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tRESULTS\tSUCCESSFUL\tSUCCESS RATE\tAVG TIME")
	fmt.Fprintln(tw, strings.Repeat("-", 70))
	for _, m := range report.Models {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
			m.Model, m.Total, m.Successful, formatPercent(m.SuccessRate), formatSeconds(m.AvgTime))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "RUN\tMODEL\tAGENT\tSTARTED\tPROMPTS\tPASSED\tERRORED\tPASS RATE\tMEAN TIME")
	fmt.Fprintln(tw, strings.Repeat("-", 100))
	for _, r := range report.Runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			runLabel(r), r.Model, r.AgentType, formatStarted(r.StartedAt),
			r.Total, r.Passed, r.Errored, formatPercent(r.PassRate*100), formatSeconds(r.MeanTime))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, r := range report.Runs {
		if r.Total == 0 {
			continue
		}
		fmt.Fprintf(w, "\nRun %s\n", runLabel(r))
		for _, name := range sortedCategories(r.ByCategory) {
			c := r.ByCategory[name]
			fmt.Fprintf(w, "  %s: %d/%d (%s)\n", name, c.Passed, c.Total, formatPercent(c.PassRate*100))
		}
		fmt.Fprintf(w, "  missed tools: %s\n", formatMisses(r.Misses))
	}
	return nil
}

func writeMarkdown(report Report, w io.Writer) error {
	fmt.Fprintln(w, "## Models")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Model | Results | Successful | Success Rate | Avg Time |")
	fmt.Fprintln(w, "|---|---|---|---|---|")
	for _, m := range report.Models {
		fmt.Fprintf(w, "| %s | %d | %d | %s | %s |\n",
			m.Model, m.Total, m.Successful, formatPercent(m.SuccessRate), formatSeconds(m.AvgTime))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "## Runs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Run | Model | Agent | Started | Prompts | Passed | Errored | Pass Rate | Mean Time | Missed Tools |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|---|---|")
	for _, r := range report.Runs {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %d | %d | %d | %s | %s | %s |\n",
			runLabel(r), r.Model, r.AgentType, formatStarted(r.StartedAt),
			r.Total, r.Passed, r.Errored, formatPercent(r.PassRate*100), formatSeconds(r.MeanTime),
			formatMisses(r.Misses))
	}
	return nil
}

func writeJSON(report Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
