// Package metrics exports run counters and histograms in the Prometheus text format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"toolbench/internal/runner"
)

const namespace = "toolbench"

// Collector observes a run and accumulates Prometheus metrics on a private registry.
type Collector struct {
	registry         *prometheus.Registry
	promptsTotal     *prometheus.CounterVec
	toolCallsTotal   *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
	promptToolTime   prometheus.Histogram
}

var _ runner.RunObserver = (*Collector)(nil)

// NewCollector registers the toolbench metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		promptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prompts_total",
				Help:      "Total number of prompts processed",
			},
			[]string{"status"}, // status: pass, fail, error
		),
		toolCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool calls",
			},
			[]string{"tool", "outcome"}, // outcome: success, error
		),
		toolCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Duration of tool calls in seconds",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
			[]string{"tool"},
		),
		promptToolTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "prompt_tool_time_seconds",
				Help:      "Summed tool time per prompt in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	c.registry.MustRegister(c.promptsTotal, c.toolCallsTotal, c.toolCallDuration, c.promptToolTime)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) OnRunStart(runner.RunInfo) {}

func (c *Collector) OnPromptStart(runner.PromptEvent) {}

func (c *Collector) OnToolCall(event runner.ToolEvent) {
	outcome := "success"
	if event.Call.Failed {
		outcome = "error"
	}
	c.toolCallsTotal.WithLabelValues(event.Call.Tool, outcome).Inc()
	c.toolCallDuration.WithLabelValues(event.Call.Tool).Observe(event.Call.Seconds())
}

func (c *Collector) OnPromptEnd(result runner.PromptResult) {
	c.promptsTotal.WithLabelValues(result.Status()).Inc()
	if result.Error == "" {
		c.promptToolTime.Observe(result.TimeTaken)
	}
}

func (c *Collector) OnRunEnd(runner.Results) {}

// WriteFile writes every metric in the text exposition format.
func (c *Collector) WriteFile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
