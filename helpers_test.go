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
	"os"
	"path/filepath"
	"testing"
)

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := SaveImage(path, img, 100); err != nil {
		t.Fatalf("Can't write test image %s: %v", path, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Can't write test file %s: %v", path, err)
	}
}

// solidPalette returns a palette with one solid image for each color, the
// id of each image is its position in colors.
func solidPalette(t *testing.T, tileWidth, tileHeight int, colors ...color.Color) *PaletteIndex {
	t.Helper()
	images := make([]image.Image, len(colors))
	for i, c := range colors {
		images[i] = solidImage(8, 8, c)
	}
	palette, err := NewPaletteIndex(NewMemImageDB(images...), tileWidth, tileHeight, nil, 2, nil)
	if err != nil {
		t.Fatalf("Can't create palette: %v", err)
	}
	return palette
}

// paletteDir creates a directory containing a solid png for each name.
func paletteDir(t *testing.T, images map[string]color.Color) string {
	t.Helper()
	dir := t.TempDir()
	for name, c := range images {
		writePNG(t, filepath.Join(dir, name), solidImage(16, 16, c))
	}
	return dir
}

var (
	red   = NewRGB(255, 0, 0)
	green = NewRGB(0, 255, 0)
	blue  = NewRGB(0, 0, 255)
)

func TestIntMinMax(t *testing.T) {
	if got := IntMin(3, 1, 2); got != 1 {
		t.Errorf("IntMin(3, 1, 2) = %d, expected 1", got)
	}
	if got := IntMax(3, 1, 5); got != 5 {
		t.Errorf("IntMax(3, 1, 5) = %d, expected 5", got)
	}
	if got := IntMin(4); got != 4 {
		t.Errorf("IntMin(4) = %d, expected 4", got)
	}
}
