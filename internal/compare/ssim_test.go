package compare

import (
	"image/color"
	"testing"
)

func TestCompareSSIM(t *testing.T) {
	t.Run("IdenticalImages", func(t *testing.T) {
		baseline, _ := createNoisyPair(64, 64, 42)
		actual, _ := createNoisyPair(64, 64, 42)

		config := DefaultConfig()
		config.Method = MethodSSIM

		stats, err := compareSSIM(baseline, actual, config)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if stats.MismatchPercentage != 0.0 {
			t.Errorf("Expected 0%% mismatch for identical images, got %f", stats.MismatchPercentage)
		}
		if stats.CountedPixelCount != 64*64 {
			t.Errorf("Expected %d counted pixels, got %d", 64*64, stats.CountedPixelCount)
		}
	})

	t.Run("InvertedImagesScoreHigh", func(t *testing.T) {
		baseline := createTestImage(64, 64, color.RGBA{R: 0, G: 0, B: 0, A: 255})
		actual := createTestImage(64, 64, color.RGBA{R: 255, G: 255, B: 255, A: 255})

		config := DefaultConfig()
		config.Method = MethodSSIM

		stats, err := compareSSIM(baseline, actual, config)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if stats.MismatchPercentage < 0.9 {
			t.Errorf("Expected near-total mismatch for black vs white, got %f", stats.MismatchPercentage)
		}
	})

	t.Run("MismatchStaysInUnitRange", func(t *testing.T) {
		baseline, actual := createNoisyPair(64, 64, 7)

		config := DefaultConfig()
		config.Method = MethodSSIM

		stats, err := compareSSIM(baseline, actual, config)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if stats.MismatchPercentage < 0.0 || stats.MismatchPercentage > 1.0 {
			t.Errorf("Expected mismatch in [0, 1], got %f", stats.MismatchPercentage)
		}
		if stats.DifferentPixelCount > stats.CountedPixelCount {
			t.Errorf("Expected different <= counted, got %d > %d", stats.DifferentPixelCount, stats.CountedPixelCount)
		}
	})

	t.Run("IgnoreRegionMasksDifference", func(t *testing.T) {
		baseline, _ := createNoisyPair(64, 64, 42)
		actual, _ := createNoisyPair(64, 64, 42)
		fillRect(actual, Region{X: 16, Y: 16, Width: 8, Height: 8}, color.RGBA{R: 255, G: 0, B: 0, A: 255})

		config := DefaultConfig()
		config.Method = MethodSSIM
		config.IgnoreRegions = []Region{{X: 16, Y: 16, Width: 8, Height: 8}}

		stats, err := compareSSIM(baseline, actual, config)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if stats.MismatchPercentage != 0.0 {
			t.Errorf("Expected ignored difference to be invisible, got %f", stats.MismatchPercentage)
		}
	})

	t.Run("EveryPixelIgnored", func(t *testing.T) {
		baseline := createTestImage(16, 16, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		actual := createTestImage(16, 16, color.RGBA{R: 0, G: 0, B: 0, A: 255})

		config := DefaultConfig()
		config.Method = MethodSSIM
		config.IgnoreRegions = []Region{{X: 0, Y: 0, Width: 16, Height: 16}}

		stats, err := compareSSIM(baseline, actual, config)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if stats.CountedPixelCount != 0 || stats.MismatchPercentage != 0.0 {
			t.Errorf("Expected zero stats with nothing counted, got %+v", stats)
		}
	})
}
