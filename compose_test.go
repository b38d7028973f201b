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
	"testing"
)

func TestStitch(t *testing.T) {
	palette := solidPalette(t, 50, 40, red, blue)
	canvas := NewImageCanvas(3, 2)
	ids := [][]ImageID{{0, 1, 0}, {1, 1, 0}}
	for y, row := range ids {
		for x, id := range row {
			canvas.Set(x, y, id)
		}
	}
	background := NewRGB(255, 0, 255)
	img, err := Stitch(canvas, palette, background)
	if err != nil {
		t.Fatal(err)
	}
	if bounds := img.Bounds(); bounds.Dx() != 150 || bounds.Dy() != 80 {
		t.Fatalf("Expected size 150x80, got %dx%d", bounds.Dx(), bounds.Dy())
	}
	colors := []RGB{red, blue}
	for y := 0; y < 80; y++ {
		for x := 0; x < 150; x++ {
			expected := colors[ids[y/40][x/50]]
			if got := ConvertRGB(img.At(x, y)); got != expected {
				t.Fatalf("Expected color %v at (%d, %d), got %v", expected, x, y, got)
			}
		}
	}
}

func TestStitchInvalidID(t *testing.T) {
	palette := solidPalette(t, 2, 2, red)
	canvas := NewImageCanvas(2, 1)
	canvas.Set(0, 0, 0)
	if _, err := Stitch(canvas, palette, nil); err == nil {
		t.Error("Expected error for empty cell")
	}
	canvas.Set(1, 0, 1)
	if _, err := Stitch(canvas, palette, nil); err == nil {
		t.Error("Expected error for id not in palette")
	}
}

func TestStitchEmptyCanvas(t *testing.T) {
	palette := solidPalette(t, 2, 2, red)
	img, err := Stitch(NewImageCanvas(0, 0), palette, color.Black)
	if err != nil {
		t.Fatal(err)
	}
	if !img.Bounds().Empty() {
		t.Errorf("Expected empty image, got bounds %v", img.Bounds())
	}
}

func TestImageCache(t *testing.T) {
	cache := NewImageCache(2)
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))
	c := image.NewRGBA(image.Rect(0, 0, 3, 3))

	if cache.Get(0, 1, 1) != nil {
		t.Fatal("Expected empty cache")
	}
	cache.Put(0, 1, 1, a)
	cache.Put(1, 1, 1, b)
	// already present, order must not change
	cache.Put(0, 1, 1, c)
	if cache.Get(0, 1, 1) != a {
		t.Error("Expected first image to be kept")
	}
	if cache.Len() != 2 {
		t.Errorf("Expected 2 images in cache, got %d", cache.Len())
	}
	cache.Put(0, 2, 2, c)
	if cache.Get(0, 1, 1) != nil {
		t.Error("Expected first inserted image to be removed")
	}
	if cache.Get(1, 1, 1) != b || cache.Get(0, 2, 2) != c {
		t.Error("Expected other images to remain in cache")
	}
	if cache.Len() != 2 {
		t.Errorf("Expected 2 images in cache, got %d", cache.Len())
	}
}
