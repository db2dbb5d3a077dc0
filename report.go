package dlt

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// RecordIssue describes a record that was excluded from statistics or that
// carried suspicious values
type RecordIssue struct {
	Index    int    `json:"index"`         // Position of the record in the fetched page (0-based)
	DrawID   string `json:"draw_id"`       // Draw id, if the record had one
	Error    error  `json:"-"`             // The split error, nil for warnings
	ErrorMsg string `json:"error_message"` // Error or warning text for serialization
	Excluded bool   `json:"excluded"`      // Whether the record was dropped from statistics
}

// MarshalJSON fills ErrorMsg from Error when it is empty
func (ri RecordIssue) MarshalJSON() ([]byte, error) {
	type plain RecordIssue
	temp := plain(ri)
	if temp.ErrorMsg == "" && ri.Error != nil {
		temp.ErrorMsg = ri.Error.Error()
	}
	return json.Marshal(temp)
}

// Report is the outcome of one refresh: the table, the two frequency tables
// and the message shown to the user. On fetch or parse failure it is empty
// and Err is set.
type Report struct {
	ID          string         `json:"id"`
	Query       Query          `json:"query"`
	Records     []DrawRecord   `json:"records"`
	Draws       []ParsedDraw   `json:"draws"`
	Front       FrequencyTable `json:"front"`
	Back        FrequencyTable `json:"back"`
	FetchedAt   time.Time      `json:"fetched_at"`
	FromCache   bool           `json:"from_cache"`
	NextRefresh time.Time      `json:"next_refresh"`
	Issues      []RecordIssue  `json:"issues,omitempty"`
	Message     string         `json:"message"`
	Err         error          `json:"-"`
	ErrorCode   ErrorCode      `json:"error_code,omitempty"`
}

// Empty reports whether there is no data to show
func (r *Report) Empty() bool { return len(r.Records) == 0 }

// ValidCount is the number of draws that contributed to statistics
func (r *Report) ValidCount() int {
	n := 0
	for _, d := range r.Draws {
		if d.Valid() {
			n++
		}
	}
	return n
}

// Malformed returns the issues that excluded a record
func (r *Report) Malformed() []RecordIssue {
	var out []RecordIssue
	for _, issue := range r.Issues {
		if issue.Excluded {
			out = append(out, issue)
		}
	}
	return out
}

// FrontHistogram returns one bucket per front number 1..35
func (r *Report) FrontHistogram() []Bucket { return r.Front.Dense(FrontMin, FrontMax) }

// BackHistogram returns one bucket per back number 1..12
func (r *Report) BackHistogram() []Bucket { return r.Back.Dense(BackMin, BackMax) }

func successMessage(n int, fetchedAt time.Time) string {
	return fmt.Sprintf("fetched %d draws (updated at %s)", n, fetchedAt.Format(time.DateTime))
}

const emptyMessage = "no data available, try again later or check the network connection"

func failureMessage(err error) string {
	switch {
	case IsParseError(err):
		return "draw data has an unexpected format: " + err.Error()
	case ErrorCodeOf(err) == ErrCodeCircuitBreakerOpen:
		return "draw source is temporarily suspended after repeated failures, try again later"
	default:
		return "failed to fetch draws: " + err.Error()
	}
}
