package compare

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// createNoisyPair builds two images of the given size from a fixed seed, with
// roughly one pixel in sixteen perturbed, so strategy equivalence is exercised
// on irregular data rather than uniform fills.
func createNoisyPair(width int, height int, seed int64) (*image.RGBA, *image.RGBA) {
	r := rand.New(rand.NewSource(seed))

	baseline := image.NewRGBA(image.Rect(0, 0, width, height))
	actual := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{
				R: uint8(r.Intn(256)),
				G: uint8(r.Intn(256)),
				B: uint8(r.Intn(256)),
				A: 255,
			}
			baseline.SetRGBA(x, y, c)

			if r.Intn(16) == 0 {
				c.R = uint8(r.Intn(256))
				c.G ^= 0x04
			}
			actual.SetRGBA(x, y, c)
		}
	}

	return baseline, actual
}

func TestParallelComparator(t *testing.T) {
	t.Run("MatchesSequentialStats", func(t *testing.T) {
		baseline, actual := createNoisyPair(1000, 600, 42)

		configs := map[string]Config{
			"Default": DefaultConfig(),
			"AntiAliasing": {
				Method:                MethodPixelMatch,
				AntiAliasingTolerance: true,
			},
			"IgnoreAndROI": {
				Method:        MethodPixelMatch,
				IgnoreRegions: []Region{{X: 100, Y: 50, Width: 300, Height: 200}, {X: 0, Y: 580, Width: 1000, Height: 20}},
				IncludeROI:    &Region{X: 50, Y: 0, Width: 900, Height: 600},
			},
		}

		sequential := NewPixelComparator()
		parallel := NewParallelComparator()

		for name, config := range configs {
			t.Run(name, func(t *testing.T) {
				want, err := sequential.Compare(baseline, actual, config)
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				got, err := parallel.Compare(baseline, actual, config)
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if got != want {
					t.Errorf("Expected identical stats, sequential %+v parallel %+v", want, got)
				}
			})
		}
	})

	t.Run("SmallImageDelegatesToSequential", func(t *testing.T) {
		baseline := createTestImage(100, 100, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		actual := createTestImage(100, 100, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		fillRect(actual, Region{X: 0, Y: 0, Width: 10, Height: 10}, color.RGBA{R: 0, G: 0, B: 0, A: 255})

		stats, err := NewParallelComparator().Compare(baseline, actual, DefaultConfig())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if stats.DifferentPixelCount != 100 {
			t.Errorf("Expected 100 different pixels, got %d", stats.DifferentPixelCount)
		}
		if stats.CountedPixelCount != 10000 {
			t.Errorf("Expected 10000 counted pixels, got %d", stats.CountedPixelCount)
		}
	})

	t.Run("HeightNotDivisibleByBandCount", func(t *testing.T) {
		baseline, actual := createNoisyPair(997, 603, 7)

		want, err := NewPixelComparator().Compare(baseline, actual, DefaultConfig())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		got, err := NewParallelComparator().Compare(baseline, actual, DefaultConfig())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != want {
			t.Errorf("Expected identical stats, sequential %+v parallel %+v", want, got)
		}
	})
}

func BenchmarkParallelComparator(b *testing.B) {
	baseline := createTestImage(3840, 2160, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	actual := createTestImage(3840, 2160, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	fillRect(actual, Region{X: 100, Y: 100, Width: 400, Height: 400}, color.RGBA{R: 0, G: 0, B: 0, A: 255})

	comparator := NewParallelComparator()
	config := DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := comparator.Compare(baseline, actual, config); err != nil {
			b.Fatal(err)
		}
	}
}
