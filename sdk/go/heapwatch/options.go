package heapwatch

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	configPath     string
	clockHz        uint64
	maxPlotSeconds float64
	heap           string
	where          string
}

// WithConfig sets the path to a heapwatch YAML config file.
func WithConfig(path string) Option {
	return func(c *clientConfig) { c.configPath = path }
}

// WithClockHz overrides the device clock frequency used for tick to
// second conversion.
func WithClockHz(hz uint64) Option {
	return func(c *clientConfig) { c.clockHz = hz }
}

// WithMaxPlotSeconds overrides the session horizon in seconds.
func WithMaxPlotSeconds(seconds float64) Option {
	return func(c *clientConfig) { c.maxPlotSeconds = seconds }
}

// WithHeap restricts analysis to a single heap ID.
func WithHeap(id string) Option {
	return func(c *clientConfig) { c.heap = id }
}

// WithWhere sets an interval filter expression applied to report
// selections (e.g. `size > 1024 && leftover`).
func WithWhere(expr string) Option {
	return func(c *clientConfig) { c.where = expr }
}
