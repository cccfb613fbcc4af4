package domain

import "time"

const (
	ModeAnalyze = "analyze"
	ModeCompare = "compare"
)

// Analysis is one recorded model call: a single-image analysis or a
// two-image comparison.
type Analysis struct {
	ID        int64
	Mode      string // ModeAnalyze or ModeCompare
	Images    string // image filename(s), comma-separated for compare
	Prompt    string
	Response  string
	Failed    bool
	CreatedAt time.Time
}
