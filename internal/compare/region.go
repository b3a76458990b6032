package compare

// Region is an axis-aligned rectangle in pixel coordinates of the baseline
// image. Regions are plain values; consumers skip any region that does not fit
// the image it is applied to.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FitsWithin reports whether the region lies entirely inside an image of the
// given dimensions.
func (r Region) FitsWithin(width int, height int) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.Width > 0 && r.Height > 0 &&
		r.X+r.Width <= width && r.Y+r.Height <= height
}

// BuildIgnoreMask produces a width*height boolean mask where true marks a
// pixel excluded from comparison. Ignore regions OR together; overlapping
// regions are harmless. When roi is non-nil and fits, every pixel outside it
// is excluded the same way ignored pixels are. Regions that do not fit are
// skipped entirely, not clipped.
//
// Every comparison strategy consumes this mask so ignore semantics are
// identical regardless of how the work is partitioned.
func BuildIgnoreMask(width int, height int, regions []Region, roi *Region) []bool {
	mask := make([]bool, width*height)

	if roi != nil && roi.FitsWithin(width, height) {
		for y := 0; y < height; y++ {
			rowStart := y * width
			inRow := y >= roi.Y && y < roi.Y+roi.Height
			for x := 0; x < width; x++ {
				if !inRow || x < roi.X || x >= roi.X+roi.Width {
					mask[rowStart+x] = true
				}
			}
		}
	}

	for _, region := range regions {
		if !region.FitsWithin(width, height) {
			continue
		}
		for y := region.Y; y < region.Y+region.Height; y++ {
			rowStart := y * width
			for x := region.X; x < region.X+region.Width; x++ {
				mask[rowStart+x] = true
			}
		}
	}

	return mask
}

// ClipRegionToStrip remaps a region into the local coordinate space of a
// horizontal strip covering rows [stripYStart, stripYEnd). The second return
// value is false when the region does not overlap the strip at all. Regions
// partially overlapping the strip are clipped vertically; the horizontal
// extent is untouched.
func ClipRegionToStrip(region Region, stripYStart int, stripYEnd int) (Region, bool) {
	if region.Y >= stripYEnd || region.Y+region.Height <= stripYStart {
		return Region{}, false
	}

	top := region.Y
	if top < stripYStart {
		top = stripYStart
	}
	bottom := region.Y + region.Height
	if bottom > stripYEnd {
		bottom = stripYEnd
	}

	return Region{
		X:      region.X,
		Y:      top - stripYStart,
		Width:  region.Width,
		Height: bottom - top,
	}, true
}
