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
	"image"
	"image/color"
	"math"
	"testing"
)

func TestComputeAverageColorSolid(t *testing.T) {
	img := solidImage(4, 3, NewRGB(10, 20, 30))
	got := ComputeAverageColor(img)
	expected := NewAverageColor(10, 20, 30)
	if got != expected {
		t.Errorf("Expected average %s, got %s", expected, got)
	}
}

func TestComputeAverageColorExact(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, NewRGB(0, 0, 0))
	img.Set(1, 0, NewRGB(255, 255, 1))
	got := ComputeAverageColor(img)
	expected := NewAverageColor(127.5, 127.5, 0.5)
	if got != expected {
		t.Errorf("Expected average %s, got %s", expected, got)
	}
}

func TestComputeAverageColorGeneric(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	for y := 5; y < 7; y++ {
		for x := 5; x < 7; x++ {
			img.Set(x, y, color.NRGBA{R: 40, G: 80, B: 120, A: 255})
		}
	}
	img.Set(6, 6, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	got := ComputeAverageColor(img)
	expected := NewAverageColor(30, 60, 90)
	if got != expected {
		t.Errorf("Expected average %s, got %s", expected, got)
	}
}

func TestComputeAverageColorSubImage(t *testing.T) {
	img := solidImage(4, 4, NewRGB(200, 200, 200))
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)
	sub.Set(3, 3, NewRGB(0, 0, 0))
	got := ComputeAverageColor(sub)
	expected := NewAverageColor(150, 150, 150)
	if got != expected {
		t.Errorf("Expected average %s, got %s", expected, got)
	}
}

func TestAverageColorDist(t *testing.T) {
	a := NewAverageColor(0, 0, 0)
	b := NewAverageColor(3, 4, 12)
	if dist := a.Dist(b, EuclideanDistance); math.Abs(dist-13) > 1e-9 {
		t.Errorf("Expected distance 13, got %f", dist)
	}
}

func TestColorVector(t *testing.T) {
	got := ColorVector(color.RGBA{R: 1, G: 2, B: 3, A: 255})
	if got != NewAverageColor(1, 2, 3) {
		t.Errorf("Expected (1, 2, 3), got %s", got)
	}
}
