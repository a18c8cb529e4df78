package scenario

// ExpectInterval is one expected lifetime interval, in ticks.
type ExpectInterval struct {
	Address string `yaml:"address"`
	Alloc   uint64 `yaml:"alloc"`
	Free    uint64 `yaml:"free"`
	Size    uint64 `yaml:"size"`
}

// Expect lists the asserted analysis results for one case. Nil fields
// are not checked.
type Expect struct {
	Matched        *int             `yaml:"matched"`
	LeftoverAllocs *int             `yaml:"leftover_allocs"`
	LeftoverFrees  *int             `yaml:"leftover_frees"`
	PeakBytes      *int64           `yaml:"peak_bytes"`
	FinalBytes     *int64           `yaml:"final_bytes"`
	Intervals      []ExpectInterval `yaml:"intervals"`
	// ParseError asserts that the log fails to parse and that the
	// error contains this substring.
	ParseError *string `yaml:"parse_error"`
}

// Case is one inline trace with expectations.
type Case struct {
	Name string `yaml:"name"`
	// Heap names the heap the expectations address. May be omitted
	// when the log touches a single heap.
	Heap   string   `yaml:"heap,omitempty"`
	Log    []string `yaml:"log"`
	Expect Expect   `yaml:"expect"`
}

// Scenario is a named collection of trace cases.
type Scenario struct {
	Name string `yaml:"name"`
	// ClockHz and Horizon override the run defaults when set.
	ClockHz uint64 `yaml:"clock_hz,omitempty"`
	Horizon uint64 `yaml:"horizon_ticks,omitempty"`
	Cases   []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one case.
type CaseResult struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
