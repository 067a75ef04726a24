package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ironsheep/roster-attendance/internal/attendance"
)

// ErrNoImages is returned when a batch is started with no paths.
var ErrNoImages = errors.New("no images to process")

// Stage names the step at which an image was skipped.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageParse    Stage = "parse"
	StageCanceled Stage = "canceled"
)

// Failure records one skipped image.
type Failure struct {
	Path  string
	Stage Stage
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", f.Stage, f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// MarshalJSON renders the error as its message.
func (f Failure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Path  string `json:"path"`
		Stage Stage  `json:"stage"`
		Error string `json:"error"`
	}{f.Path, f.Stage, msg})
}

// Outcome is the progress signal for one completed path. Err is nil when
// the image was merged.
type Outcome struct {
	Path  string
	Err   error
	Done  int
	Total int
}

// Report is the result of one batch.
type Report struct {
	BatchID   string              `json:"batch_id"`
	Total     int                 `json:"total"`
	Processed int                 `json:"processed"`
	Failures  []Failure           `json:"failures,omitempty"`
	Statuses  map[string][]string `json:"-"`
	Counts    attendance.Counts   `json:"counts"`
	Elapsed   time.Duration       `json:"elapsed_ns"`

	// PeakAdmitted is the highest number of workers seen inside the
	// aggregator gate at once.
	PeakAdmitted int `json:"peak_admitted"`
}

// FailureCount returns the number of skipped images.
func (r *Report) FailureCount() int {
	return len(r.Failures)
}

// ExistingFiles splits paths into regular files that exist and the rest.
// Order is preserved in both results.
func ExistingFiles(paths []string) (kept, missing []string) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, missing
}
