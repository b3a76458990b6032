package compare

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildIgnoreMask(t *testing.T) {
	t.Run("NoRegions", func(t *testing.T) {
		mask := BuildIgnoreMask(4, 4, nil, nil)

		for i, ignored := range mask {
			if ignored {
				t.Errorf("Expected pixel %d to be counted, got ignored", i)
			}
		}
	})

	t.Run("SingleRegion", func(t *testing.T) {
		mask := BuildIgnoreMask(4, 4, []Region{{X: 1, Y: 1, Width: 2, Height: 2}}, nil)

		ignoredCount := 0
		for _, ignored := range mask {
			if ignored {
				ignoredCount++
			}
		}
		if ignoredCount != 4 {
			t.Errorf("Expected 4 ignored pixels, got %d", ignoredCount)
		}
		if !mask[1*4+1] || !mask[2*4+2] {
			t.Errorf("Expected region interior to be ignored")
		}
		if mask[0] || mask[3*4+3] {
			t.Errorf("Expected corners outside region to be counted")
		}
	})

	t.Run("OverlappingRegionsORTogether", func(t *testing.T) {
		regions := []Region{
			{X: 0, Y: 0, Width: 2, Height: 2},
			{X: 1, Y: 1, Width: 2, Height: 2},
		}
		mask := BuildIgnoreMask(4, 4, regions, nil)

		ignoredCount := 0
		for _, ignored := range mask {
			if ignored {
				ignoredCount++
			}
		}
		if ignoredCount != 7 {
			t.Errorf("Expected 7 ignored pixels from overlapping regions, got %d", ignoredCount)
		}
	})

	t.Run("NonFittingRegionSkippedEntirely", func(t *testing.T) {
		mask := BuildIgnoreMask(4, 4, []Region{{X: 2, Y: 2, Width: 3, Height: 3}}, nil)

		for i, ignored := range mask {
			if ignored {
				t.Errorf("Expected non-fitting region to be skipped, pixel %d is ignored", i)
			}
		}
	})

	t.Run("ROIExcludesOutsidePixels", func(t *testing.T) {
		roi := Region{X: 1, Y: 1, Width: 2, Height: 2}
		mask := BuildIgnoreMask(4, 4, nil, &roi)

		countedCount := 0
		for _, ignored := range mask {
			if !ignored {
				countedCount++
			}
		}
		if countedCount != 4 {
			t.Errorf("Expected 4 counted pixels inside ROI, got %d", countedCount)
		}
		if mask[1*4+1] {
			t.Errorf("Expected ROI interior to be counted")
		}
		if !mask[0] {
			t.Errorf("Expected pixel outside ROI to be ignored")
		}
	})

	t.Run("NonFittingROIIsSkipped", func(t *testing.T) {
		roi := Region{X: 0, Y: 0, Width: 5, Height: 5}
		mask := BuildIgnoreMask(4, 4, nil, &roi)

		for i, ignored := range mask {
			if ignored {
				t.Errorf("Expected non-fitting ROI to impose no restriction, pixel %d is ignored", i)
			}
		}
	})

	t.Run("IgnoreInsideROI", func(t *testing.T) {
		roi := Region{X: 0, Y: 0, Width: 4, Height: 2}
		mask := BuildIgnoreMask(4, 4, []Region{{X: 0, Y: 0, Width: 2, Height: 1}}, &roi)

		countedCount := 0
		for _, ignored := range mask {
			if !ignored {
				countedCount++
			}
		}
		if countedCount != 6 {
			t.Errorf("Expected 6 counted pixels, got %d", countedCount)
		}
	})
}

func TestRegionFitsWithin(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		width  int
		height int
		want   bool
	}{
		{"ExactFit", Region{0, 0, 4, 4}, 4, 4, true},
		{"Interior", Region{1, 1, 2, 2}, 4, 4, true},
		{"TooWide", Region{2, 0, 3, 2}, 4, 4, false},
		{"TooTall", Region{0, 2, 2, 3}, 4, 4, false},
		{"NegativeOrigin", Region{-1, 0, 2, 2}, 4, 4, false},
		{"ZeroWidth", Region{0, 0, 0, 2}, 4, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.region.FitsWithin(tt.width, tt.height); got != tt.want {
				t.Errorf("FitsWithin(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestClipRegionToStrip(t *testing.T) {
	type in struct {
		region     Region
		stripStart int
		stripEnd   int
	}

	type want struct {
		region   Region
		overlaps bool
	}

	tests := []struct {
		name string
		in   in
		want want
	}{
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				Region{X: 2, Y: 10, Width: 5, Height: 4},
				8,
				20,
			},
			want{
				Region{X: 2, Y: 2, Width: 5, Height: 4},
				true,
			},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				Region{X: 0, Y: 0, Width: 3, Height: 8},
				8,
				16,
			},
			want{
				Region{},
				false,
			},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				Region{X: 0, Y: 16, Width: 3, Height: 2},
				8,
				16,
			},
			want{
				Region{},
				false,
			},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				Region{X: 1, Y: 5, Width: 2, Height: 10},
				8,
				12,
			},
			want{
				Region{X: 1, Y: 0, Width: 2, Height: 4},
				true,
			},
		},
		{
			func() string {
				_, _, line, _ := runtime.Caller(1)
				return fmt.Sprintf("L%d", line)
			}(),
			in{
				Region{X: 1, Y: 10, Width: 2, Height: 10},
				8,
				12,
			},
			want{
				Region{X: 1, Y: 2, Width: 2, Height: 2},
				true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, overlaps := ClipRegionToStrip(tt.in.region, tt.in.stripStart, tt.in.stripEnd)
			if overlaps != tt.want.overlaps {
				t.Errorf("overlaps = %v, want %v", overlaps, tt.want.overlaps)
			}
			if diff := cmp.Diff(tt.want.region, region); diff != "" {
				t.Errorf("region mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
