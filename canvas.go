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
	"strings"
)

// ImageCanvas is the grid of palette image ids a mosaic is composed of.
//
// Cells are not stored in the fashion (x, y) but (y, x). That means each entry
// in Cells describes one row of the mosaic.
// The get method does this correctly.
type ImageCanvas struct {
	// Width is the number of columns.
	Width int
	// Height is the number of rows.
	Height int
	Cells  [][]ImageID
}

// NewImageCanvas returns a canvas with the given number of columns (width) and
// rows (height). All cells are set to NoImageID.
func NewImageCanvas(width, height int) *ImageCanvas {
	cells := make([][]ImageID, height)
	for i := range cells {
		row := make([]ImageID, width)
		for j := range row {
			row[j] = NoImageID
		}
		cells[i] = row
	}
	return &ImageCanvas{Width: width, Height: height, Cells: cells}
}

// Get returns the id at position Cells[y][x], that is the id in row y and
// column x.
func (canvas *ImageCanvas) Get(x, y int) ImageID {
	return canvas.Cells[y][x]
}

// Set sets the id in row y and column x.
func (canvas *ImageCanvas) Set(x, y int, id ImageID) {
	canvas.Cells[y][x] = id
}

// Usage counts how often each image appears in the canvas.
func (canvas *ImageCanvas) Usage() map[ImageID]int {
	res := make(map[ImageID]int)
	for _, row := range canvas.Cells {
		for _, id := range row {
			res[id]++
		}
	}
	return res
}

func (canvas *ImageCanvas) String() string {
	var b strings.Builder
	for _, row := range canvas.Cells {
		for j, id := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", id)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FillCanvas sets each cell of the canvas to the id of the palette image that
// is closest to the pixel with the same position in scaled.
// scaled must have exactly canvas.Width x canvas.Height pixels, otherwise an
// error wrapping ErrDimensionMismatch is returned.
//
// The rows are processed concurrently by numRoutines go routines, progress is
// called after each row and may be nil.
func FillCanvas(canvas *ImageCanvas, scaled image.Image, palette *PaletteIndex, numRoutines int, progress ProgressFunc) error {
	bounds := scaled.Bounds()
	if bounds.Dx() != canvas.Width || bounds.Dy() != canvas.Height {
		return fmt.Errorf("%w: image is %dx%d, canvas is %dx%d", ErrDimensionMismatch,
			bounds.Dx(), bounds.Dy(), canvas.Width, canvas.Height)
	}
	if len(canvas.Cells) != canvas.Height {
		return fmt.Errorf("%w: canvas has %d rows, expected %d", ErrDimensionMismatch,
			len(canvas.Cells), canvas.Height)
	}
	for row, cells := range canvas.Cells {
		if len(cells) != canvas.Width {
			return fmt.Errorf("%w: row %d of canvas has %d columns, expected %d",
				ErrDimensionMismatch, row, len(cells), canvas.Width)
		}
	}
	if progress == nil {
		progress = ProgressIgnore
	}
	numRoutines = IntMax(1, IntMin(numRoutines, canvas.Height))
	target := ToRGBA(scaled)

	jobs := make(chan int, BufferSize)
	done := make(chan bool, BufferSize)

	for w := 0; w < numRoutines; w++ {
		go func() {
			for row := range jobs {
				cells := canvas.Cells[row]
				for col := range cells {
					pixel := target.RGBAAt(col, row)
					c := NewAverageColor(float64(pixel.R), float64(pixel.G), float64(pixel.B))
					cells[col] = palette.FindClosest(c)
				}
				done <- true
			}
		}()
	}

	go func() {
		for row := 0; row < canvas.Height; row++ {
			jobs <- row
		}
		close(jobs)
	}()

	for row := 0; row < canvas.Height; row++ {
		<-done
		progress(row + 1)
	}
	return nil
}
