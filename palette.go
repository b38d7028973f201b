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
	"math"
	"sync"

	log "github.com/sirupsen/logrus"
)

// PaletteImage is one candidate tile of a palette: the image resized to the
// tile size of the palette and its average color.
//
// The tile must not be modified, it might be shared among palettes.
type PaletteImage struct {
	// Source is the id of the original image in the storage the palette was
	// created from. The tile is always computed from the original image.
	Source ImageID
	// Name identifies the original image, for example its path.
	Name string
	// Tile is the image resized to the tile size.
	Tile *image.RGBA
	// Average is the average color of Tile.
	Average AverageColor
}

// PaletteIndex is the set of images used to compose a mosaic.
// All tiles in the palette have the same size. The position of an image in the
// palette is its ImageID, the order never changes.
//
// A PaletteIndex is never modified after creation, resizing a palette returns
// a new palette. It is therefor safe for concurrent use.
type PaletteIndex struct {
	storage     ImageStorage
	resizer     ImageResizer
	cache       *ImageCache
	numRoutines int
	tileWidth   int
	tileHeight  int
	images      []PaletteImage
	// averages of the images as vectors, computed once to avoid allocations
	// in FindClosest
	averages [][]float64
}

// BuildPalette creates a palette from all images in dir (not recursive).
// Files that are not images are skipped, if no image remains an error
// wrapping ErrEmptyPalette is returned.
// Each image is resized to tileWidth x tileHeight, the computation happens
// concurrently with numRoutines go routines.
func BuildPalette(dir string, tileWidth, tileHeight int, resizer ImageResizer, numRoutines int, progress ProgressFunc) (*PaletteIndex, error) {
	storage, dbErr := GenFSImageDB(dir)
	if dbErr != nil {
		return nil, dbErr
	}
	return NewPaletteIndex(storage, tileWidth, tileHeight, resizer, numRoutines, progress)
}

// NewPaletteIndex creates a palette from all images in the storage.
// Images that can't be decoded (see DecodeError) are skipped, all other errors
// are returned. If no image remains an error wrapping ErrEmptyPalette is
// returned.
//
// If resizer is nil DefaultResizer is used, progress may be nil.
func NewPaletteIndex(storage ImageStorage, tileWidth, tileHeight int, resizer ImageResizer, numRoutines int, progress ProgressFunc) (*PaletteIndex, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidGridDimension, tileWidth, tileHeight)
	}
	if resizer == nil {
		resizer = DefaultResizer
	}
	numImages := int(storage.NumImages())
	palette := &PaletteIndex{
		storage:     storage,
		resizer:     resizer,
		cache:       NewImageCache(2 * numImages),
		numRoutines: IntMax(1, numRoutines),
	}
	images, createErr := palette.createImages(IDList(storage), tileWidth, tileHeight, true, progress)
	if createErr != nil {
		return nil, createErr
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: storage contains no decodable image", ErrEmptyPalette)
	}
	palette.setImages(images, tileWidth, tileHeight)
	return palette, nil
}

func (p *PaletteIndex) setImages(images []PaletteImage, tileWidth, tileHeight int) {
	p.images = images
	p.tileWidth = tileWidth
	p.tileHeight = tileHeight
	p.averages = make([][]float64, len(images))
	for i, img := range images {
		avg := img.Average
		p.averages[i] = []float64{avg[0], avg[1], avg[2]}
	}
}

// ResizeAll returns a palette containing the same images (in the same order)
// with the new tile size. The tiles are always computed from the original
// images, never from the current tiles.
// If the size is the tile size of p, p is returned.
//
// p itself is not changed.
func (p *PaletteIndex) ResizeAll(tileWidth, tileHeight int) (*PaletteIndex, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidGridDimension, tileWidth, tileHeight)
	}
	if tileWidth == p.tileWidth && tileHeight == p.tileHeight {
		return p, nil
	}
	sources := make([]ImageID, len(p.images))
	for i, img := range p.images {
		sources[i] = img.Source
	}
	images, createErr := p.createImages(sources, tileWidth, tileHeight, false, nil)
	if createErr != nil {
		return nil, createErr
	}
	res := &PaletteIndex{
		storage:     p.storage,
		resizer:     p.resizer,
		cache:       p.cache,
		numRoutines: p.numRoutines,
	}
	res.setImages(images, tileWidth, tileHeight)
	return res, nil
}

// createImages concurrently creates the palette images for all sources.
// The position of each result is the position in sources. If skipDecodeErrs
// is true images that can't be decoded are removed from the result, otherwise
// each error is returned.
func (p *PaletteIndex) createImages(sources []ImageID, tileWidth, tileHeight int, skipDecodeErrs bool, progress ProgressFunc) ([]PaletteImage, error) {
	if progress == nil {
		progress = ProgressIgnore
	}
	numSources := len(sources)
	res := make([]PaletteImage, numSources)
	errs := make([]error, numSources)

	jobs := make(chan int, BufferSize)
	done := make(chan bool, BufferSize)

	numWorkers := IntMax(1, IntMin(p.numRoutines, numSources))
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for next := range jobs {
				res[next], errs[next] = p.createImage(sources[next], tileWidth, tileHeight)
				done <- true
			}
		}()
	}

	go func() {
		for i := range sources {
			jobs <- i
		}
		close(jobs)
	}()

	for i := 0; i < numSources; i++ {
		<-done
		progress(i + 1)
	}
	wg.Wait()

	images := make([]PaletteImage, 0, numSources)
	for i, err := range errs {
		if err == nil {
			images = append(images, res[i])
			continue
		}
		if skipDecodeErrs && IsDecodeError(err) {
			log.WithFields(log.Fields{
				log.ErrorKey: err,
				"image":      p.storage.Name(sources[i]),
			}).Warn("Can't decode palette image, ignoring it")
			continue
		}
		return nil, err
	}
	return images, nil
}

func (p *PaletteIndex) createImage(source ImageID, tileWidth, tileHeight int) (PaletteImage, error) {
	tile := p.cache.Get(source, tileWidth, tileHeight)
	if tile == nil {
		img, loadErr := p.storage.LoadImage(source)
		if loadErr != nil {
			return PaletteImage{}, loadErr
		}
		tile = ToRGBA(p.resizer.Resize(uint(tileWidth), uint(tileHeight), img))
		p.cache.Put(source, tileWidth, tileHeight, tile)
	}
	return PaletteImage{
		Source:  source,
		Name:    p.storage.Name(source),
		Tile:    tile,
		Average: ComputeAverageColor(tile),
	}, nil
}

// Len returns the number of images in the palette.
func (p *PaletteIndex) Len() int {
	return len(p.images)
}

// TileSize returns the width and height of all tiles in the palette.
func (p *PaletteIndex) TileSize() (int, int) {
	return p.tileWidth, p.tileHeight
}

// Image returns the palette image with the given id. id must be valid, i.e.
// 0 ≤ id < Len().
func (p *PaletteIndex) Image(id ImageID) PaletteImage {
	return p.images[id]
}

// Averages returns the average colors of all images in the palette.
func (p *PaletteIndex) Averages() []AverageColor {
	res := make([]AverageColor, len(p.images))
	for i, img := range p.images {
		res[i] = img.Average
	}
	return res
}

// FindClosest returns the image whose average color has the smallest
// euclidean distance to c. If several images have the same distance the one
// with the smallest id is returned.
func (p *PaletteIndex) FindClosest(c AverageColor) ImageID {
	query := c.Vector()
	best := NoImageID
	bestDist := math.Inf(1)
	for i, avg := range p.averages {
		if dist := EuclideanDistance(query, avg); dist < bestDist {
			bestDist = dist
			best = ImageID(i)
		}
	}
	return best
}
