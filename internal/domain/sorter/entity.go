package sorter

import "time"

// Criterion selects how files are grouped into categories
type Criterion string

const (
	CriterionType Criterion = "type"
	CriterionDate Criterion = "date"
	CriterionSize Criterion = "size"
	CriterionName Criterion = "name"
)

// Criteria lists every supported criterion
var Criteria = []Criterion{CriterionType, CriterionDate, CriterionSize, CriterionName}

// Valid reports whether c is one of the supported criteria
func (c Criterion) Valid() bool {
	for _, known := range Criteria {
		if c == known {
			return true
		}
	}
	return false
}

// Category is the destination folder a file is sorted into
type Category string

// CategoryOther is the fallback for anything no rule matches
const CategoryOther Category = "other"

// SortRequest describes one sort job
type SortRequest struct {
	SourceDir string
	DestDir   string
	Criterion Criterion
	Recursive bool
	DryRun    bool
}

// FileEntry is a regular file discovered while walking the source directory
type FileEntry struct {
	Path    string
	Name    string
	Ext     string
	Size    int64
	ModTime time.Time
	MIME    string
}

// FailureReason classifies why a single file was not placed
type FailureReason string

const (
	ReasonUnsupportedFileType  FailureReason = "unsupported-file-type"
	ReasonDestinationCollision FailureReason = "destination-collision"
	ReasonIOError              FailureReason = "io-error"
)

// Failure records a file that was skipped
type Failure struct {
	Path   string        `json:"path"`
	Reason FailureReason `json:"reason"`
	Detail string        `json:"detail,omitempty"`
}

// Move records where a file went (or would go on a dry run)
type Move struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Category    Category `json:"category"`
	Size        int64    `json:"size"`
}

// CategoryStats holds the aggregate for one category
type CategoryStats struct {
	Count     int    `json:"count"`
	TotalSize uint64 `json:"total_size"`
}

// SortResult is the outcome of a completed sort job
type SortResult struct {
	Statistics Statistics
	Failures   []Failure
	Moves      []Move
	StartedAt  time.Time
	FinishedAt time.Time
}

// Placed returns the number of files that were moved (or planned)
func (r *SortResult) Placed() int {
	return r.Statistics.TotalFiles
}

// Partial reports whether some files were placed and some failed
func (r *SortResult) Partial() bool {
	return len(r.Failures) > 0 && r.Statistics.TotalFiles > 0
}
