package compare

// DifferenceType is a coarse classification of a comparison outcome.
type DifferenceType string

const (
	DifferenceNone          DifferenceType = "no-change"
	DifferenceLayoutShift   DifferenceType = "layout-shift"
	DifferenceContentChange DifferenceType = "content-change"
)

// Stats is the common output of every comparison strategy and method:
// the fraction of counted pixels that differ, and the raw counts behind it.
// A fully-ignored comparison has CountedPixelCount == 0 and trivially matches.
type Stats struct {
	MismatchPercentage  float64 `json:"mismatchPercentage"`
	DifferentPixelCount int64   `json:"differentPixelCount"`
	CountedPixelCount   int64   `json:"countedPixelCount"`
}

// Metrics carries per-stage timings for one comparison. The engine fills
// ComparisonTimeMS and MemoryUsageMB; the remaining stage times belong to the
// surrounding capture/preprocess/postprocess stages and stay zero when those
// stages are absent.
type Metrics struct {
	CaptureTimeMS        uint32 `json:"captureTimeMs"`
	PreprocessingTimeMS  uint32 `json:"preprocessingTimeMs"`
	ComparisonTimeMS     uint32 `json:"comparisonTimeMs"`
	PostprocessingTimeMS uint32 `json:"postprocessingTimeMs"`
	MemoryUsageMB        uint32 `json:"memoryUsageMb"`
	ImageWidth           int    `json:"imageWidth"`
	ImageHeight          int    `json:"imageHeight"`
}

// TotalTimeMS is the sum of the four stage times.
func (m Metrics) TotalTimeMS() uint32 {
	return m.CaptureTimeMS + m.PreprocessingTimeMS + m.ComparisonTimeMS + m.PostprocessingTimeMS
}

// Result is the answer to one comparison, immutable once handed to the
// caller. The path fields are string identifiers, not necessarily filesystem
// paths; callers that own artifact storage fill them in.
type Result struct {
	IsMatch             bool           `json:"isMatch"`
	MismatchPercentage  float64        `json:"mismatchPercentage"`
	DifferentPixelCount int64          `json:"differentPixelCount"`
	CountedPixelCount   int64          `json:"countedPixelCount"`
	DifferenceType      DifferenceType `json:"differenceType"`
	BaselinePath        string         `json:"baselinePath,omitempty"`
	ActualPath          string         `json:"actualPath,omitempty"`
	DiffImagePath       string         `json:"diffImagePath,omitempty"`
	Metrics             Metrics        `json:"performanceMetrics"`
}
