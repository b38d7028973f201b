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
)

// AverageColor descibes the average of several RGB colors. The components
// are not rounded, they're in the range [0, 255].
type AverageColor [3]float64

// NewAverageColor returns the average color with the given components.
func NewAverageColor(r, g, b float64) AverageColor {
	return AverageColor{r, g, b}
}

// ColorVector converts a color to an AverageColor (that is the vector
// containing the r, g and b values).
func ColorVector(c color.Color) AverageColor {
	rgb := ConvertRGB(c)
	return AverageColor{float64(rgb.R), float64(rgb.G), float64(rgb.B)}
}

// ComputeAverageColor computes the average color of an image, that is the sum
// of all pixels divided by the number of pixels (for each component).
func ComputeAverageColor(img image.Image) AverageColor {
	// use the pixels directly if possible
	if rgba, ok := img.(*image.RGBA); ok {
		return averageRGBA(rgba)
	}
	bounds := img.Bounds()
	// don't do anything for empty images
	if bounds.Empty() {
		return AverageColor{}
	}
	var r, g, b uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgb := ConvertRGB(img.At(x, y))
			r += uint64(rgb.R)
			g += uint64(rgb.G)
			b += uint64(rgb.B)
		}
	}
	return sumToAverage(r, g, b, bounds.Dx()*bounds.Dy())
}

func averageRGBA(img *image.RGBA) AverageColor {
	bounds := img.Bounds()
	if bounds.Empty() {
		return AverageColor{}
	}
	var r, g, b uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):img.PixOffset(bounds.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			r += uint64(row[i])
			g += uint64(row[i+1])
			b += uint64(row[i+2])
		}
	}
	return sumToAverage(r, g, b, bounds.Dx()*bounds.Dy())
}

func sumToAverage(r, g, b uint64, numPixels int) AverageColor {
	n := float64(numPixels)
	return AverageColor{float64(r) / n, float64(g) / n, float64(b) / n}
}

// Vector returns the components as a slice.
func (c AverageColor) Vector() []float64 {
	return c[:]
}

// Dist returns the distance between the two average color vectors given the
// metric for the component vectors.
func (c AverageColor) Dist(other AverageColor, metric VectorMetric) float64 {
	return metric(c.Vector(), other.Vector())
}

func (c AverageColor) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", c[0], c[1], c[2])
}
