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
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFindClosest(t *testing.T) {
	palette := solidPalette(t, 4, 4, red, green, blue)
	tests := []struct {
		c        AverageColor
		expected ImageID
	}{
		{NewAverageColor(250, 5, 5), 0},
		{NewAverageColor(10, 200, 30), 1},
		{NewAverageColor(0, 0, 128), 2},
		{NewAverageColor(255, 0, 0), 0},
	}
	for _, tc := range tests {
		if got := palette.FindClosest(tc.c); got != tc.expected {
			t.Errorf("FindClosest(%s) = %d, expected %d", tc.c, got, tc.expected)
		}
	}
}

func TestFindClosestTie(t *testing.T) {
	// query has the same distance to both images
	palette := solidPalette(t, 2, 2, NewRGB(0, 0, 0), NewRGB(2, 0, 0))
	if got := palette.FindClosest(NewAverageColor(1, 0, 0)); got != 0 {
		t.Errorf("Expected first image on tie, got %d", got)
	}
	duplicates := solidPalette(t, 2, 2, green, red, red)
	if got := duplicates.FindClosest(NewAverageColor(255, 0, 0)); got != 1 {
		t.Errorf("Expected first red image, got %d", got)
	}
}

func TestPaletteAverages(t *testing.T) {
	palette := solidPalette(t, 4, 4, red, blue)
	if palette.Len() != 2 {
		t.Fatalf("Expected 2 images, got %d", palette.Len())
	}
	averages := palette.Averages()
	if averages[0] != NewAverageColor(255, 0, 0) || averages[1] != NewAverageColor(0, 0, 255) {
		t.Errorf("Unexpected averages %v", averages)
	}
	img := palette.Image(1)
	if img.Name != "image-1" {
		t.Errorf("Expected name image-1, got %s", img.Name)
	}
	if bounds := img.Tile.Bounds(); bounds.Dx() != 4 || bounds.Dy() != 4 {
		t.Errorf("Expected tile of size 4x4, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestNewPaletteIndexEmpty(t *testing.T) {
	_, err := NewPaletteIndex(NewMemImageDB(), 4, 4, nil, 2, nil)
	if !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Expected ErrEmptyPalette, got %v", err)
	}
}

func TestNewPaletteIndexInvalidTileSize(t *testing.T) {
	_, err := NewPaletteIndex(NewMemImageDB(solidImage(2, 2, red)), 0, 4, nil, 2, nil)
	if !errors.Is(err, ErrInvalidGridDimension) {
		t.Errorf("Expected ErrInvalidGridDimension, got %v", err)
	}
}

func TestBuildPalette(t *testing.T) {
	dir := paletteDir(t, map[string]color.Color{
		"red.png":  red,
		"blue.png": blue,
	})
	writeFile(t, filepath.Join(dir, "notes.txt"), "not an image")
	writeFile(t, filepath.Join(dir, "broken.png"), "not a png either")
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(sub, "green.png"), solidImage(16, 16, green))

	var progressCalls int
	palette, err := BuildPalette(dir, 4, 4, nil, 3, func(num int) { progressCalls++ })
	if err != nil {
		t.Fatalf("Can't build palette: %v", err)
	}
	if palette.Len() != 2 {
		t.Fatalf("Expected 2 images in palette, got %d", palette.Len())
	}
	if progressCalls != 2 {
		t.Errorf("Expected progress to be called twice, got %d", progressCalls)
	}
	// files are sorted by name
	if name := filepath.Base(palette.Image(0).Name); name != "blue.png" {
		t.Errorf("Expected blue.png at position 0, got %s", name)
	}
	if got := palette.FindClosest(NewAverageColor(250, 5, 5)); filepath.Base(palette.Image(got).Name) != "red.png" {
		t.Errorf("Expected red.png to be closest to (250, 5, 5), got %s", palette.Image(got).Name)
	}
	if got := palette.FindClosest(NewAverageColor(0, 255, 0)); got < 0 || got >= 2 {
		t.Errorf("Expected an id of the palette, got %d", got)
	}
}

func TestBuildPaletteNoImages(t *testing.T) {
	dir := t.TempDir()
	_, err := BuildPalette(dir, 4, 4, nil, 2, nil)
	if !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Expected ErrEmptyPalette for empty directory, got %v", err)
	}
	writeFile(t, filepath.Join(dir, "a.txt"), "foo")
	_, err = BuildPalette(dir, 4, 4, nil, 2, nil)
	if !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Expected ErrEmptyPalette for directory without images, got %v", err)
	}
}

func TestBuildPaletteMissingDirectory(t *testing.T) {
	_, err := BuildPalette(filepath.Join(t.TempDir(), "missing"), 4, 4, nil, 2, nil)
	if err == nil {
		t.Fatal("Expected error for missing directory")
	}
	if errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Expected I/O error, got %v", err)
	}
}

type failingStorage struct {
	*MemImageDB
	failing ImageID
	err     error
}

func (s failingStorage) LoadImage(id ImageID) (image.Image, error) {
	if id == s.failing {
		return nil, s.err
	}
	return s.MemImageDB.LoadImage(id)
}

func TestNewPaletteIndexSkipsDecodeErrors(t *testing.T) {
	storage := failingStorage{
		MemImageDB: NewMemImageDB(solidImage(2, 2, red), solidImage(2, 2, green), solidImage(2, 2, blue)),
		failing:    1,
		err:        &DecodeError{Path: "image-1", Err: errors.New("corrupted")},
	}
	palette, err := NewPaletteIndex(storage, 2, 2, nil, 2, nil)
	if err != nil {
		t.Fatalf("Expected decode error to be skipped, got %v", err)
	}
	if palette.Len() != 2 {
		t.Fatalf("Expected 2 images, got %d", palette.Len())
	}
	if palette.Image(1).Source != 2 {
		t.Errorf("Expected second image to be source 2, got %d", palette.Image(1).Source)
	}
}

func TestNewPaletteIndexFailsOnIOError(t *testing.T) {
	ioErr := errors.New("disk on fire")
	storage := failingStorage{
		MemImageDB: NewMemImageDB(solidImage(2, 2, red), solidImage(2, 2, green)),
		failing:    0,
		err:        ioErr,
	}
	_, err := NewPaletteIndex(storage, 2, 2, nil, 2, nil)
	if !errors.Is(err, ioErr) {
		t.Errorf("Expected I/O error, got %v", err)
	}
}

func TestResizeAll(t *testing.T) {
	palette := solidPalette(t, 4, 4, red, green, blue)
	same, err := palette.ResizeAll(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if same != palette {
		t.Error("Expected same palette when resizing to the current tile size")
	}

	resized, err := palette.ResizeAll(8, 6)
	if err != nil {
		t.Fatal(err)
	}
	if resized == palette {
		t.Fatal("Expected a new palette")
	}
	if w, h := resized.TileSize(); w != 8 || h != 6 {
		t.Errorf("Expected tile size 8x6, got %dx%d", w, h)
	}
	if w, h := palette.TileSize(); w != 4 || h != 4 {
		t.Errorf("Original palette was changed, tile size is %dx%d", w, h)
	}
	if resized.Len() != palette.Len() {
		t.Fatalf("Expected %d images, got %d", palette.Len(), resized.Len())
	}
	for i := 0; i < palette.Len(); i++ {
		id := ImageID(i)
		tile := resized.Image(id).Tile
		if bounds := tile.Bounds(); bounds.Dx() != 8 || bounds.Dy() != 6 {
			t.Errorf("Image %d has size %dx%d", i, bounds.Dx(), bounds.Dy())
		}
		before, after := palette.Image(id).Average, resized.Image(id).Average
		for c := 0; c < 3; c++ {
			if math.Abs(before[c]-after[c]) > 0.5 {
				t.Errorf("Average of image %d changed from %s to %s", i, before, after)
			}
		}
	}

	again, err := resized.ResizeAll(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	// tiles are cached, so the original tiles are reused
	if again.Image(0).Tile != palette.Image(0).Tile {
		t.Error("Expected cached tile to be reused")
	}
}

func TestResizeAllInvalid(t *testing.T) {
	palette := solidPalette(t, 4, 4, red)
	if _, err := palette.ResizeAll(0, 4); !errors.Is(err, ErrInvalidGridDimension) {
		t.Errorf("Expected ErrInvalidGridDimension, got %v", err)
	}
}
