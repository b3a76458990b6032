package compare

import (
	"errors"
	"image/color"
	"testing"
)

func TestStripComparator(t *testing.T) {
	t.Run("MatchesSequentialStats", func(t *testing.T) {
		baseline, actual := createNoisyPair(400, 300, 42)

		configs := map[string]Config{
			"Default": DefaultConfig(),
			"AntiAliasing": {
				Method:                MethodPixelMatch,
				AntiAliasingTolerance: true,
			},
			"IgnoreSpanningStrips": {
				Method:        MethodPixelMatch,
				IgnoreRegions: []Region{{X: 50, Y: 0, Width: 100, Height: 300}, {X: 0, Y: 140, Width: 400, Height: 20}},
			},
			"ROISpanningStrips": {
				Method:     MethodPixelMatch,
				IncludeROI: &Region{X: 20, Y: 30, Width: 300, Height: 200},
			},
		}

		sequential := NewPixelComparator()
		// Budget of 64KB forces a 400px wide image into 20-row strips.
		strip := NewStripComparator(64 * 1024)

		for name, config := range configs {
			t.Run(name, func(t *testing.T) {
				want, err := sequential.Compare(baseline, actual, config)
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				got, err := strip.Compare(baseline, actual, config)
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if got != want {
					t.Errorf("Expected identical stats, sequential %+v strip %+v", want, got)
				}
			})
		}
	})

	t.Run("SingleRowStrips", func(t *testing.T) {
		baseline, actual := createNoisyPair(100, 50, 3)

		want, err := NewPixelComparator().Compare(baseline, actual, DefaultConfig())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		// One row of 100 pixels needs exactly 800 bytes for both images.
		got, err := NewStripComparator(800).Compare(baseline, actual, DefaultConfig())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != want {
			t.Errorf("Expected identical stats, sequential %+v strip %+v", want, got)
		}
	})

	t.Run("BudgetBelowOneRow", func(t *testing.T) {
		baseline := createTestImage(100, 50, color.RGBA{A: 255})
		actual := createTestImage(100, 50, color.RGBA{A: 255})

		_, err := NewStripComparator(799).Compare(baseline, actual, DefaultConfig())
		if !errors.Is(err, ErrResourceExhausted) {
			t.Errorf("Expected ErrResourceExhausted, got %v", err)
		}
	})

	t.Run("NonFittingIgnoreRegionSkipped", func(t *testing.T) {
		baseline := createTestImage(100, 100, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		actual := createTestImage(100, 100, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		fillRect(actual, Region{X: 90, Y: 90, Width: 10, Height: 10}, color.RGBA{R: 0, G: 0, B: 0, A: 255})

		config := DefaultConfig()
		config.IgnoreRegions = []Region{{X: 90, Y: 90, Width: 20, Height: 20}}

		stats, err := NewStripComparator(8 * 1024).Compare(baseline, actual, config)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if stats.DifferentPixelCount != 100 {
			t.Errorf("Expected non-fitting region to be skipped and differences counted, got %d", stats.DifferentPixelCount)
		}
		if stats.CountedPixelCount != 10000 {
			t.Errorf("Expected 10000 counted pixels, got %d", stats.CountedPixelCount)
		}
	})
}

func TestEstimateMemoryUsage(t *testing.T) {
	t.Run("FullHDFitsDefaultBudget", func(t *testing.T) {
		estimate := EstimateMemoryUsage(1920, 1080)
		if estimate == 0 {
			t.Fatal("Expected non-zero estimate")
		}
		if estimate >= DefaultMemoryBudgetBytes {
			t.Errorf("Expected 1920x1080 estimate below the default budget, got %d", estimate)
		}
	})

	t.Run("Formula", func(t *testing.T) {
		// 2 RGBA buffers + mask + diff buffer for 10x10, plus 10%.
		base := uint64(2*100*4 + 100 + 100*4)
		want := base + base/10
		if got := EstimateMemoryUsage(10, 10); got != want {
			t.Errorf("Expected estimate %d, got %d", want, got)
		}
	})

	t.Run("ZeroForEmptyImage", func(t *testing.T) {
		if got := EstimateMemoryUsage(0, 0); got != 0 {
			t.Errorf("Expected 0 estimate for empty image, got %d", got)
		}
	})
}

func BenchmarkStripComparator(b *testing.B) {
	baseline := createTestImage(1920, 1080, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	actual := createTestImage(1920, 1080, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	fillRect(actual, Region{X: 100, Y: 100, Width: 200, Height: 200}, color.RGBA{R: 0, G: 0, B: 0, A: 255})

	// 1MB budget forces strip-wise processing of the full HD pair.
	comparator := NewStripComparator(1024 * 1024)
	config := DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := comparator.Compare(baseline, actual, config); err != nil {
			b.Fatal(err)
		}
	}
}
