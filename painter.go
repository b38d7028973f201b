// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package photomosaic

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultMaxPhotoSize is the default maximal number of pixels of a (scaled)
	// target image.
	DefaultMaxPhotoSize = 10000 * 5000

	// DefaultGridWidth is the number of tiles in a row if neither the width
	// nor the height of the grid is given.
	DefaultGridWidth = 10

	// NoDimension is used for grid dimensions that are not given and should be
	// computed from the ratio of the target image.
	NoDimension = -1
)

var (
	// DefaultBackground is the color of a mosaic before the tiles are drawn.
	DefaultBackground color.Color = NewRGB(100, 100, 100)
)

// Painter creates photomosaics from a palette.
//
// The palette of a painter is never changed: for each mosaic a palette with
// the required tile size is derived from it. Thus a painter can be used
// concurrently as long as its fields are not changed.
type Painter struct {
	// Palette is the palette the tiles are chosen from.
	Palette *PaletteIndex

	// Resizer is used to scale down the target image.
	Resizer ImageResizer

	// MaxPhotoSize is the maximal number of pixels scale² * width * height of
	// a target image.
	MaxPhotoSize int

	// DefaultWidth is the number of tiles in a row if neither width nor height
	// is given.
	DefaultWidth int

	// Background is the color of the mosaic where no tile is drawn. Usually
	// it is not visible at all.
	Background color.Color

	// NumRoutines is the number of go routines used when filling the canvas.
	NumRoutines int
}

// NewPainter returns a new painter with default settings.
func NewPainter(palette *PaletteIndex) *Painter {
	numRoutines := runtime.NumCPU() * 2
	if numRoutines <= 0 {
		numRoutines = 4
	}
	return &Painter{
		Palette:      palette,
		Resizer:      DefaultResizer,
		MaxPhotoSize: DefaultMaxPhotoSize,
		DefaultWidth: DefaultGridWidth,
		Background:   DefaultBackground,
		NumRoutines:  numRoutines,
	}
}

// Mosaic is the result of creating a photomosaic.
type Mosaic struct {
	// Image is the stitched mosaic.
	Image *image.RGBA
	// Canvas contains the ids of the palette images used in each cell.
	Canvas *ImageCanvas
	// Palette is the palette (with the tile size of the mosaic) the ids in
	// canvas refer to.
	Palette *PaletteIndex

	GridWidth, GridHeight int
	TileWidth, TileHeight int
}

// ResolveGridDimensions computes the number of tiles in a row (width) and
// column (height) of a mosaic for a target image with the given pixel width
// and height.
//
// If width and height are both given (i.e. not negative) they are returned as
// they are. If only one of them is given the other one is computed s.t. the
// ratio of the target is retained. If neither is given the width is
// DefaultGridWidth.
//
// Computed values are rounded (half to even). If a dimension is not > 0 an
// error wrapping ErrInvalidGridDimension is returned.
func ResolveGridDimensions(targetWidth, targetHeight, width, height int) (int, int, error) {
	return resolveGridDimensions(targetWidth, targetHeight, width, height, DefaultGridWidth)
}

func resolveGridDimensions(targetWidth, targetHeight, width, height, defaultWidth int) (int, int, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return -1, -1, fmt.Errorf("%w: target image is empty (%dx%d)", ErrInvalidGridDimension,
			targetWidth, targetHeight)
	}
	if width < 0 && height < 0 {
		width = defaultWidth
	}
	switch {
	case width < 0:
		width = int(math.RoundToEven(float64(height) * float64(targetWidth) / float64(targetHeight)))
	case height < 0:
		height = int(math.RoundToEven(float64(width) * float64(targetHeight) / float64(targetWidth)))
	}
	if width <= 0 || height <= 0 {
		return -1, -1, fmt.Errorf("%w: grid would be %dx%d", ErrInvalidGridDimension, width, height)
	}
	return width, height, nil
}

// ComputeTileDimensions returns the width and height of each tile s.t. the
// mosaic has (roughly) the size of the target image multiplied by scale:
//
//	tileWidth = floor(scale * targetWidth / gridWidth)
//	tileHeight = floor(scale * targetHeight / gridHeight)
//
// If a tile dimension is not > 0 an error wrapping ErrInvalidGridDimension
// is returned.
func ComputeTileDimensions(targetWidth, targetHeight, gridWidth, gridHeight int, scale float64) (int, int, error) {
	if err := checkScale(scale); err != nil {
		return -1, -1, err
	}
	if gridWidth <= 0 || gridHeight <= 0 {
		return -1, -1, fmt.Errorf("%w: grid is %dx%d", ErrInvalidGridDimension, gridWidth, gridHeight)
	}
	tileWidth := int(math.Floor(scale * float64(targetWidth) / float64(gridWidth)))
	tileHeight := int(math.Floor(scale * float64(targetHeight) / float64(gridHeight)))
	if tileWidth <= 0 || tileHeight <= 0 {
		return -1, -1, fmt.Errorf("%w: tiles would be %dx%d pixels, use fewer tiles or a bigger scale",
			ErrInvalidGridDimension, tileWidth, tileHeight)
	}
	return tileWidth, tileHeight, nil
}

func checkScale(scale float64) error {
	if !(scale > 0) || math.IsInf(scale, 1) {
		return fmt.Errorf("%w, got %v", ErrInvalidScale, scale)
	}
	return nil
}

// CheckPhotoSize returns an error wrapping ErrPhotoTooLarge if
// scale² * targetWidth * targetHeight > maxPhotoSize.
func CheckPhotoSize(targetWidth, targetHeight int, scale float64, maxPhotoSize int) error {
	if err := checkScale(scale); err != nil {
		return err
	}
	size := scale * scale * float64(targetWidth) * float64(targetHeight)
	if size > float64(maxPhotoSize) {
		return fmt.Errorf("%w: px count %.0f > %d", ErrPhotoTooLarge, size, maxPhotoSize)
	}
	return nil
}

// CreatePhotomosaic creates a mosaic of the target image.
// width and height are the number of tiles in a row / column, NoDimension
// (or any negative value) means that the value is computed, see
// ResolveGridDimensions. scale is multiplied with the size of the target
// image to get the size of the mosaic.
//
// The following happens: The size is checked against MaxPhotoSize, the grid
// and tile dimensions are computed, a palette with this tile size is derived
// from p.Palette, the target is scaled down to one pixel per tile, for each
// of these pixels the closest palette image is selected and finally the
// tiles are stitched together.
func (p *Painter) CreatePhotomosaic(target image.Image, width, height int, scale float64) (*Mosaic, error) {
	start := time.Now()
	bounds := target.Bounds()
	targetWidth, targetHeight := bounds.Dx(), bounds.Dy()
	if err := CheckPhotoSize(targetWidth, targetHeight, scale, p.MaxPhotoSize); err != nil {
		return nil, err
	}
	gridWidth, gridHeight, gridErr := resolveGridDimensions(targetWidth, targetHeight, width, height, p.DefaultWidth)
	if gridErr != nil {
		return nil, gridErr
	}
	tileWidth, tileHeight, tileErr := ComputeTileDimensions(targetWidth, targetHeight, gridWidth, gridHeight, scale)
	if tileErr != nil {
		return nil, tileErr
	}
	logger := log.WithFields(log.Fields{
		"grid": fmt.Sprintf("%dx%d", gridWidth, gridHeight),
		"tile": fmt.Sprintf("%dx%d", tileWidth, tileHeight),
	})
	logger.Debug("Resizing palette")
	palette, resizeErr := p.Palette.ResizeAll(tileWidth, tileHeight)
	if resizeErr != nil {
		return nil, resizeErr
	}

	resizer := p.Resizer
	if resizer == nil {
		resizer = DefaultResizer
	}
	scaled := resizer.Resize(uint(gridWidth), uint(gridHeight), target)

	logger.Debug("Creating canvas")
	canvas := NewImageCanvas(gridWidth, gridHeight)
	if fillErr := FillCanvas(canvas, scaled, palette, p.NumRoutines, nil); fillErr != nil {
		return nil, fillErr
	}

	logger.Debug("Stitching together images")
	img, stitchErr := Stitch(canvas, palette, p.Background)
	if stitchErr != nil {
		return nil, stitchErr
	}
	logger.WithField("duration", time.Since(start)).Debug("Finished mosaic")
	return &Mosaic{
		Image:      img,
		Canvas:     canvas,
		Palette:    palette,
		GridWidth:  gridWidth,
		GridHeight: gridHeight,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
	}, nil
}

// CreatePhotomosaicFromFile reads the target image from path and calls
// CreatePhotomosaic.
func (p *Painter) CreatePhotomosaicFromFile(path string, width, height int, scale float64) (*Mosaic, error) {
	log.WithField("file", path).Debug("Reading target image")
	target, readErr := DecodeImage(path)
	if readErr != nil {
		return nil, readErr
	}
	return p.CreatePhotomosaic(target, width, height, scale)
}
