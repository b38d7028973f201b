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
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// SupportedImageFunc is a function that takes a file extension and decides if
// this file extension is supported.
//
// The extension passed to this function could be for example ".txt" or ".jpg".
// JPGAndPNG is an implementation accepting jpg and png files.
type SupportedImageFunc func(ext string) bool

// JPGAndPNG is an implementation of SupportedImageFunc accepting jpg and png
// file extensions. These are the formats mosaics can be saved in.
func JPGAndPNG(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// RGB is a color containing r, g and b components.
type RGB struct {
	R, G, B uint8
}

// NewRGB returns a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// ConvertRGB converts a generic color into the internal RGB representation.
func ConvertRGB(c color.Color) RGB {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return RGB{R: rgba.R, G: rgba.G, B: rgba.B}
}

// RGBA implements color.Color, the color is always opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// ToRGBA converts an image to an 8 bit RGB image, stored in an *image.RGBA
// with bounds starting at (0, 0). Transparent areas are drawn over black and
// the alpha channel of the result is always opaque.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	res := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(res, res.Bounds(), image.Black, image.Point{}, draw.Src)
	draw.Draw(res, res.Bounds(), img, bounds.Min, draw.Over)
	return res
}

// ImageResizer resizes an image to the given width and height.
//
// Implementations must be deterministic: resizing the same image to the same
// size must always return the same pixels.
type ImageResizer interface {
	Resize(width, height uint, img image.Image) image.Image
}

// NfntResizer uses the nfnt/resize package to resize an image.
type NfntResizer struct {
	// InterP is the interpolation function to use.
	InterP resize.InterpolationFunction
}

// NewNfntResizer returns a new resizer given the interpolation function.
func NewNfntResizer(interP resize.InterpolationFunction) NfntResizer {
	return NfntResizer{interP}
}

// GetInterP returns an interpolation function given a desired quality.
// The higher the quality the better the interpolation should be, but execution
// time is higher. Currently supported are values between 0 and 4, each
// selecting a different interpolation function. Values greater than 4 are
// treated as 5 (Lanczos3).
func GetInterP(quality uint) resize.InterpolationFunction {
	switch quality {
	case 0:
		return resize.NearestNeighbor
	case 1:
		return resize.Bilinear
	case 2:
		return resize.Bicubic
	case 3:
		return resize.MitchellNetravali
	case 4:
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

// InterPString returns a human readable name for an interpolation function.
func InterPString(interP resize.InterpolationFunction) string {
	switch interP {
	case resize.NearestNeighbor:
		return "nearest-neighbor"
	case resize.Bilinear:
		return "bilinear"
	case resize.Bicubic:
		return "bicubic"
	case resize.MitchellNetravali:
		return "mitchell-netravali"
	case resize.Lanczos2:
		return "lanczos2"
	case resize.Lanczos3:
		return "lanczos3"
	default:
		return fmt.Sprintf("InterpolationFunction(%d)", interP)
	}
}

// InterPFromString is the inverse of InterPString.
func InterPFromString(s string) (resize.InterpolationFunction, error) {
	switch strings.ToLower(s) {
	case "nearest-neighbor":
		return resize.NearestNeighbor, nil
	case "bilinear":
		return resize.Bilinear, nil
	case "bicubic":
		return resize.Bicubic, nil
	case "mitchell-netravali":
		return resize.MitchellNetravali, nil
	case "lanczos2":
		return resize.Lanczos2, nil
	case "lanczos3":
		return resize.Lanczos3, nil
	default:
		return resize.Bilinear, fmt.Errorf("Unkown interpolation function %s", s)
	}
}

var (
	// DefaultResizer is the resizer that is used by default. It uses linear
	// interpolation.
	DefaultResizer = NewNfntResizer(resize.Bilinear)
)

// Resize calls nfnt/resize methods.
func (resizer NfntResizer) Resize(width, height uint, img image.Image) image.Image {
	return resize.Resize(width, height, img, resizer.InterP)
}

// ImageID is used to unambiguously identify an image. Inside a palette the id
// is the position of the image.
type ImageID int

const (
	// NoImageID is used to signal errors etc. on images.
	NoImageID ImageID = -1
)

// ImageStorage is used to administrate an ordered collection of images.
// Images are not required to be stored in memory but are identified by an id
// and can be loaded into memory when required.
// All ids < NumImages are valid, the order of the images never changes.
//
// Implementations must be safe for concurrent use.
type ImageStorage interface {
	// NumImages returns the number of images in the storage as an ImageID.
	NumImages() ImageID

	// LoadImage loads an image into memory.
	LoadImage(id ImageID) (image.Image, error)

	// Name returns an identifier of the image (for example its path).
	Name(id ImageID) string
}

// IDList returns the list [0, 1, ..., storage.NumImages - 1].
func IDList(storage ImageStorage) []ImageID {
	numImages := storage.NumImages()
	res := make([]ImageID, numImages)
	var i ImageID
	for ; i < numImages; i++ {
		res[i] = i
	}
	return res
}

// MemImageDB is an ImageStorage that keeps all images in memory.
type MemImageDB struct {
	Names  []string
	Images []image.Image
}

// NewMemImageDB returns a new storage containing the images. Names are
// generated from the position of each image.
func NewMemImageDB(images ...image.Image) *MemImageDB {
	names := make([]string, len(images))
	for i := range images {
		names[i] = fmt.Sprintf("image-%d", i)
	}
	return &MemImageDB{Names: names, Images: images}
}

// NumImages returns the number of images.
func (db *MemImageDB) NumImages() ImageID {
	return ImageID(len(db.Images))
}

// LoadImage returns the image with the given id.
func (db *MemImageDB) LoadImage(id ImageID) (image.Image, error) {
	if id < 0 || id >= db.NumImages() {
		return nil, fmt.Errorf("Invalid image id: Not associated with an image %d", id)
	}
	return db.Images[id], nil
}

// Name returns the name of the image.
func (db *MemImageDB) Name(id ImageID) string {
	if id < 0 || int(id) >= len(db.Names) {
		return ""
	}
	return db.Names[id]
}
