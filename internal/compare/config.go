package compare

import "golang.org/x/xerrors"

// Method selects the comparison algorithm. Every method maps to a pure
// function with the same (images, config) -> Stats signature, so the
// dispatcher does not care how many methods exist.
type Method string

const (
	MethodPixelMatch  Method = "pixel-match"
	MethodSSIM        Method = "ssim"
	MethodLayoutAware Method = "layout-aware"
	MethodHybrid      Method = "hybrid"
)

// SensitivityProfile is a named preset a caller may use instead of hand-tuning
// threshold and tolerance values.
type SensitivityProfile string

const (
	SensitivityStrict   SensitivityProfile = "strict"
	SensitivityModerate SensitivityProfile = "moderate"
	SensitivityLenient  SensitivityProfile = "lenient"
)

const (
	// Per-channel slack applied to R/G/B when anti-aliasing tolerance is
	// enabled. Existing baselines depend on this value; do not change it.
	antiAliasingSlack = 10
	// Alpha channels are considered equal when both are at least this value.
	nearlyOpaqueAlpha = 250
)

// Config is a single comparison request. It is a plain value, constructed per
// call and never mutated mid-comparison.
type Config struct {
	Threshold             float64            `json:"threshold"`
	Method                Method             `json:"method"`
	IgnoreRegions         []Region           `json:"ignoreRegions,omitempty"`
	IncludeROI            *Region            `json:"includeRoi,omitempty"`
	AntiAliasingTolerance bool               `json:"antiAliasingTolerance"`
	LayoutShiftTolerance  int                `json:"layoutShiftTolerance"`
	SensitivityProfile    SensitivityProfile `json:"sensitivityProfile,omitempty"`
}

// DefaultConfig returns a pixel-match config with no tolerance and a zero
// threshold, i.e. any non-ignored difference fails the comparison.
func DefaultConfig() Config {
	return Config{
		Threshold: 0.0,
		Method:    MethodPixelMatch,
	}
}

// ConfigForProfile maps a sensitivity profile to concrete settings:
//
//	strict:   threshold 0.0,  no anti-aliasing slack, no layout slack
//	moderate: threshold 0.01, anti-aliasing slack,    2px layout slack
//	lenient:  threshold 0.05, anti-aliasing slack,    5px layout slack
func ConfigForProfile(profile SensitivityProfile) (Config, error) {
	switch profile {
	case SensitivityStrict:
		return Config{
			Threshold:          0.0,
			Method:             MethodPixelMatch,
			SensitivityProfile: profile,
		}, nil
	case SensitivityModerate:
		return Config{
			Threshold:             0.01,
			Method:                MethodPixelMatch,
			AntiAliasingTolerance: true,
			LayoutShiftTolerance:  2,
			SensitivityProfile:    profile,
		}, nil
	case SensitivityLenient:
		return Config{
			Threshold:             0.05,
			Method:                MethodPixelMatch,
			AntiAliasingTolerance: true,
			LayoutShiftTolerance:  5,
			SensitivityProfile:    profile,
		}, nil
	default:
		return Config{}, xerrors.Errorf("unknown sensitivity profile %q: %w", profile, ErrInvalidConfig)
	}
}

// Validate rejects malformed configs at the boundary, before any pixel work
// begins.
func (c Config) Validate() error {
	if c.Threshold < 0.0 || c.Threshold > 1.0 {
		return xerrors.Errorf("threshold %f outside [0, 1]: %w", c.Threshold, ErrInvalidConfig)
	}
	switch c.Method {
	case MethodPixelMatch, MethodSSIM, MethodLayoutAware, MethodHybrid:
	case "":
		return xerrors.Errorf("method not set: %w", ErrInvalidConfig)
	default:
		return xerrors.Errorf("unknown method %q: %w", c.Method, ErrInvalidConfig)
	}
	if c.LayoutShiftTolerance < 0 {
		return xerrors.Errorf("layout shift tolerance %d is negative: %w", c.LayoutShiftTolerance, ErrInvalidConfig)
	}
	return nil
}
