package heapwatch

import (
	"fmt"
	"io"

	"github.com/ppiankov/heapwatch/internal/analyze"
	"github.com/ppiankov/heapwatch/internal/config"
	"github.com/ppiankov/heapwatch/internal/model"
	"github.com/ppiankov/heapwatch/internal/parse"
	"github.com/ppiankov/heapwatch/internal/query"
)

// Client holds the analysis pipeline configuration. Safe for concurrent
// Analyze calls; each run builds its own state.
type Client struct {
	cfg   *config.Config
	heap  string
	where *query.Filter
}

// New creates a Client with the given options. Without options it uses
// the built-in device defaults (600 MHz clock, 300 s horizon).
func New(opts ...Option) (*Client, error) {
	var cc clientConfig
	for _, o := range opts {
		o(&cc)
	}

	cfg, err := config.Load(cc.configPath)
	if err != nil {
		return nil, fmt.Errorf("heapwatch: failed to load config: %w", err)
	}
	if cc.clockHz != 0 {
		cfg.ClockHz = cc.clockHz
	}
	if cc.maxPlotSeconds != 0 {
		cfg.MaxPlotSeconds = cc.maxPlotSeconds
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("heapwatch: invalid config: %w", err)
	}

	c := &Client{cfg: cfg, heap: cc.heap}
	if cc.where != "" {
		f, err := query.Compile(cc.where)
		if err != nil {
			return nil, fmt.Errorf("heapwatch: invalid filter: %w", err)
		}
		c.where = f
	}
	return c, nil
}

// AnalyzeFile parses and analyzes a trace log file.
func (c *Client) AnalyzeFile(path string) (*Report, error) {
	ts, err := parse.LogFile(path, c.heap)
	if err != nil {
		return nil, err
	}
	return c.run(ts, path)
}

// Analyze parses and analyzes a trace log from a reader. Source names
// the input in the report.
func (c *Client) Analyze(r io.Reader, source string) (*Report, error) {
	ts, err := parse.Log(r, c.heap)
	if err != nil {
		return nil, err
	}
	return c.run(ts, source)
}

func (c *Client) run(ts *model.TraceSet, source string) (*Report, error) {
	rep, err := analyze.Run(ts, analyze.Params{
		Source:  source,
		ClockHz: c.cfg.ClockHz,
		Horizon: c.cfg.HorizonTicks(),
		Where:   c.where,
	})
	if err != nil {
		return nil, err
	}
	return toReport(rep), nil
}
