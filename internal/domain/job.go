package domain

import "time"

// JobStatus is the lifecycle state of the organize job.
//
// Transitions: idle → running → done | failed.
// A reset returns any terminal state to idle. Only one job may be
// running at a time.
type JobStatus string

const (
	JobIdle    JobStatus = "idle"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Strategy selects how the organize job materializes placements.
type Strategy string

const (
	// StrategyClone copies items into category folders and leaves
	// the originals untouched. Non-destructive, the default.
	StrategyClone Strategy = "clone"

	// StrategyMove relocates items into category folders.
	StrategyMove Strategy = "move"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyClone || s == StrategyMove
}

// JobState is the persisted progress record of the organize job.
//
// It is written after every processed item so that restarts and
// concurrent readers always see a coherent snapshot.
type JobState struct {
	// Status is the current lifecycle state.
	Status JobStatus `json:"status"`

	// Strategy the job was started with. Informational.
	Strategy Strategy `json:"strategy,omitempty"`

	// Provider names the classifier mode active when the job
	// started. Example: "rules", "ollama".
	Provider string `json:"provider,omitempty"`

	// Total is the number of items selected at job start.
	Total int `json:"total"`

	// Done is the number of items processed so far.
	// Monotonically non-decreasing within a run.
	Done int `json:"done"`

	// LastTitle is the title of the most recently processed item.
	LastTitle string `json:"lastTitle,omitempty"`

	// StartedAt is when the current (or last) run began.
	StartedAt time.Time `json:"startedAt,omitzero"`

	// CompletedAt is when the run reached a terminal state.
	CompletedAt time.Time `json:"completedAt,omitzero"`

	// Error holds the engine-level failure message when Status is
	// failed. Per-item failures never end up here.
	Error string `json:"error,omitempty"`
}

// Running reports whether a job is currently in flight.
func (s *JobState) Running() bool {
	return s.Status == JobRunning
}

// Stats is the aggregate snapshot rebuilt on every job run and
// adjusted incrementally by single-item additions.
type Stats struct {
	// TotalBookmarks is the number of leaf bookmarks considered by
	// the last run.
	TotalBookmarks int `json:"totalBookmarks"`

	// CategoriesCreated is the number of distinct categories that
	// received at least one item during the last run.
	CategoriesCreated int `json:"categoriesCreated"`

	// PerCategory maps category slug to placed item count.
	PerCategory map[string]int `json:"perCategory"`

	// RecentCount is the number of items added within the trailing
	// seven days at snapshot time.
	RecentCount int `json:"recentCount"`

	// UpdatedAt is when the snapshot was last rebuilt or adjusted.
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}
