package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"image"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"visual-comparator/internal/compare"
	"visual-comparator/internal/monitor"
	"visual-comparator/internal/render"
	"visual-comparator/internal/storage"
)

func envOrDefaultValue[T any](key string, defaultValue T) T {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	switch any(defaultValue).(type) {
	case string:
		return any(value).(T)
	case int:
		if intValue, err := strconv.Atoi(value); err == nil {
			return any(intValue).(T)
		}
	case float64:
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return any(floatValue).(T)
		}
	case bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return any(boolValue).(T)
		}
	}

	return defaultValue
}

// parseRegions parses "x,y,wxh" rectangles separated by semicolons, e.g.
// "0,0,100x20;50,300,200x40".
func parseRegions(s string) ([]compare.Region, error) {
	if s == "" {
		return nil, nil
	}

	var regions []compare.Region
	for _, part := range strings.Split(s, ";") {
		var r compare.Region
		fields := strings.SplitN(part, ",", 3)
		if len(fields) != 3 {
			return nil, invalidRegionError(part)
		}
		size := strings.SplitN(fields[2], "x", 2)
		if len(size) != 2 {
			return nil, invalidRegionError(part)
		}
		var err error
		if r.X, err = strconv.Atoi(fields[0]); err != nil {
			return nil, invalidRegionError(part)
		}
		if r.Y, err = strconv.Atoi(fields[1]); err != nil {
			return nil, invalidRegionError(part)
		}
		if r.Width, err = strconv.Atoi(size[0]); err != nil {
			return nil, invalidRegionError(part)
		}
		if r.Height, err = strconv.Atoi(size[1]); err != nil {
			return nil, invalidRegionError(part)
		}
		regions = append(regions, r)
	}
	return regions, nil
}

type regionParseError string

func invalidRegionError(part string) error {
	return regionParseError(part)
}

func (e regionParseError) Error() string {
	return "invalid region: " + string(e)
}

func loadInput(ctx context.Context, path string) (*image.RGBA, error) {
	var backend storage.Storage
	var err error
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		backend, err = storage.NewHTTPStorage(ctx)
	} else {
		backend, err = storage.NewFileStorage(ctx, storage.FileConfig{})
	}
	if err != nil {
		return nil, err
	}

	data, err := backend.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	return compare.DecodeRGBA(data)
}

func main() {
	_ = godotenv.Load()

	var directory string
	var method string
	var profile string
	var threshold float64
	var antiAliasing bool
	var layoutShiftTolerance int
	var ignoreRegions string
	var roi string
	flag.StringVar(&directory, "directory", envOrDefaultValue("DIRECTORY", "/tmp"), "Output directory for diff artifacts")
	flag.StringVar(&method, "method", envOrDefaultValue("METHOD", string(compare.MethodPixelMatch)), "Comparison method (pixel-match, ssim, layout-aware, hybrid)")
	flag.StringVar(&profile, "profile", envOrDefaultValue("PROFILE", ""), "Sensitivity profile (strict, moderate, lenient); overrides individual tolerances")
	flag.Float64Var(&threshold, "threshold", envOrDefaultValue("THRESHOLD", 0.0), "Max acceptable mismatch fraction in [0, 1]")
	flag.BoolVar(&antiAliasing, "anti-aliasing", envOrDefaultValue("ANTI_ALIASING", false), "Tolerate small per-channel anti-aliasing differences")
	flag.IntVar(&layoutShiftTolerance, "layout-shift-tolerance", envOrDefaultValue("LAYOUT_SHIFT_TOLERANCE", 0), "Pixel slack for the layout-aware method")
	flag.StringVar(&ignoreRegions, "ignore-regions", envOrDefaultValue("IGNORE_REGIONS", ""), "Regions to exclude, e.g. 0,0,100x20;50,300,200x40")
	flag.StringVar(&roi, "roi", envOrDefaultValue("ROI", ""), "Restrict comparison to a single region, e.g. 0,0,800x600")

	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		log.Fatalf("baseline, actual not specified")
	}

	baselinePath := args[0]
	actualPath := args[1]

	ctx := context.Background()

	config := compare.DefaultConfig()
	if profile != "" {
		c, err := compare.ConfigForProfile(compare.SensitivityProfile(profile))
		if err != nil {
			log.Fatalf("Invalid profile: %v", err)
		}
		config = c
	} else {
		config.Threshold = threshold
		config.Method = compare.Method(method)
		config.AntiAliasingTolerance = antiAliasing
		config.LayoutShiftTolerance = layoutShiftTolerance
	}

	regions, err := parseRegions(ignoreRegions)
	if err != nil {
		log.Fatalf("Failed to parse ignore regions: %v", err)
	}
	config.IgnoreRegions = regions

	if roi != "" {
		roiRegions, err := parseRegions(roi)
		if err != nil || len(roiRegions) != 1 {
			log.Fatalf("Failed to parse roi: %v", err)
		}
		config.IncludeROI = &roiRegions[0]
	}

	var baseline, actual *image.RGBA
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		baseline, err = loadInput(egCtx, baselinePath)
		return err
	})
	eg.Go(func() error {
		var err error
		actual, err = loadInput(egCtx, actualPath)
		return err
	})
	if err := eg.Wait(); err != nil {
		log.Fatalf("Failed to load images: %v", err)
	}

	performanceMonitor := monitor.NewPerformanceMonitor(monitor.DefaultThresholds())
	engine := compare.NewEngine(performanceMonitor)

	result, err := engine.Compare(baseline, actual, config)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}

	result.BaselinePath = baselinePath
	result.ActualPath = actualPath

	if !result.IsMatch {
		artifacts, err := storage.NewFileStorage(ctx, storage.FileConfig{
			Directory: directory,
		})
		if err != nil {
			log.Fatalf("Failed to create storage backend: %v", err)
		}

		diff := render.Diff(baseline, actual, config)
		var buffer bytes.Buffer
		if err := png.Encode(&buffer, diff); err != nil {
			log.Fatalf("Failed to encode diff image: %v", err)
		}

		key := storage.DiffKey(baselinePath, actualPath, time.Now())
		diffPath, err := artifacts.Put(ctx, key, buffer.Bytes())
		if err != nil {
			log.Fatalf("Failed to save diff image: %v", err)
		}
		result.DiffImagePath = diffPath
	}

	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}

	if !result.IsMatch {
		os.Exit(1)
	}
}
