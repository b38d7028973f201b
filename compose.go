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
	"sync"

	"golang.org/x/image/draw"
)

// ImageCache is used to cache resized versions of images. Resizing is the
// most expensive part of creating a mosaic and usually the palette is resized
// to the same size again and again (for example if several mosaics with the
// same dimensions are created).
//
// The cache has a fixed size, if it is full the element that was inserted
// first is removed.
//
// Caches are safe for concurrent use.
type ImageCache struct {
	m           *sync.Mutex
	size        int
	content     map[string]*image.RGBA
	insertOrder []string
}

// NewImageCache returns an empty image cache. size is the number of images that
// will be cached. size must be ≥ 1.
func NewImageCache(size int) *ImageCache {
	if size <= 0 {
		size = 1
	}
	var m sync.Mutex
	return &ImageCache{
		m:           &m,
		size:        size,
		content:     make(map[string]*image.RGBA, size),
		insertOrder: make([]string, 0, size),
	}
}

func (cache *ImageCache) keyFormat(id ImageID, width, height int) string {
	return fmt.Sprintf("%d-%d-%d", id, width, height)
}

// Put adds an image to the cache. Usually Put is called after Get: If the
// image was not found in the cache it is scaled and then added to the cache via
// Put.
func (cache *ImageCache) Put(id ImageID, width, height int, img *image.RGBA) {
	cache.m.Lock()
	defer cache.m.Unlock()
	keyFmt := cache.keyFormat(id, width, height)
	if _, has := cache.content[keyFmt]; has {
		return
	}
	if len(cache.insertOrder) >= cache.size {
		// cache full, remove first element form cache
		fst := cache.insertOrder[0]
		cache.insertOrder = cache.insertOrder[1:]
		delete(cache.content, fst)
	}
	cache.insertOrder = append(cache.insertOrder, keyFmt)
	cache.content[keyFmt] = img
}

// Get returns the image from the cache. If the return value is nil the image
// was not found in the cache and should be added to the cache by Put.
func (cache *ImageCache) Get(id ImageID, width, height int) *image.RGBA {
	cache.m.Lock()
	defer cache.m.Unlock()
	return cache.content[cache.keyFormat(id, width, height)]
}

// Len returns the number of images in the cache.
func (cache *ImageCache) Len() int {
	cache.m.Lock()
	defer cache.m.Unlock()
	return len(cache.insertOrder)
}

// Stitch composes the mosaic: For each cell of the canvas the palette tile
// with the id stored in the cell is drawn at the position of the cell.
// The result has size (canvas.Width * tileWidth) x (canvas.Height * tileHeight),
// before drawing the tiles it is filled with the background color.
func Stitch(canvas *ImageCanvas, palette *PaletteIndex, background color.Color) (*image.RGBA, error) {
	if background == nil {
		background = DefaultBackground
	}
	tileWidth, tileHeight := palette.TileSize()
	res := image.NewRGBA(image.Rect(0, 0, canvas.Width*tileWidth, canvas.Height*tileHeight))
	draw.Draw(res, res.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	if len(canvas.Cells) != canvas.Height {
		return nil, fmt.Errorf("%w: canvas has %d rows, expected %d", ErrDimensionMismatch,
			len(canvas.Cells), canvas.Height)
	}
	numImages := ImageID(palette.Len())
	for row, cols := range canvas.Cells {
		if len(cols) != canvas.Width {
			return nil, fmt.Errorf("%w: row %d of canvas has %d columns, expected %d",
				ErrDimensionMismatch, row, len(cols), canvas.Width)
		}
		for col, id := range cols {
			if id < 0 || id >= numImages {
				return nil, fmt.Errorf("Invalid image id %d in canvas at row %d, column %d", id, row, col)
			}
			area := image.Rect(col*tileWidth, row*tileHeight, (col+1)*tileWidth, (row+1)*tileHeight)
			draw.Draw(res, area, palette.Image(id).Tile, image.Point{}, draw.Src)
		}
	}
	return res, nil
}
