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
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ListDirectoryFiles returns the names of all regular files in dir.
// Subdirectories are ignored (the directory is not scanned recursively).
// The names are sorted s.t. the order is the same across calls.
func ListDirectoryFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			res = append(res, entry.Name())
		}
	}
	sort.Strings(res)
	return res, nil
}

// DecodeImage reads the image stored in path.
// If the file can't be opened or read the error is returned as is (wrapped).
// If the content of the file is not an image a *DecodeError is returned.
func DecodeImage(path string) (image.Image, error) {
	r, openErr := os.Open(path)
	if openErr != nil {
		return nil, fmt.Errorf("Can't open image: %w", openErr)
	}
	defer r.Close()
	img, _, decodeErr := image.Decode(r)
	if decodeErr != nil {
		return nil, decodeFailure(path, decodeErr)
	}
	if img.Bounds().Empty() {
		return nil, &DecodeError{Path: path, Err: errors.New("image is empty")}
	}
	return img, nil
}

// ProbeImage checks if the file in path is an image without decoding the
// whole image. The errors are the same as in DecodeImage.
func ProbeImage(path string) (image.Config, error) {
	r, openErr := os.Open(path)
	if openErr != nil {
		return image.Config{}, fmt.Errorf("Can't open image: %w", openErr)
	}
	defer r.Close()
	config, _, decodeErr := image.DecodeConfig(r)
	if decodeErr != nil {
		return image.Config{}, decodeFailure(path, decodeErr)
	}
	if config.Width <= 0 || config.Height <= 0 {
		return image.Config{}, &DecodeError{Path: path, Err: errors.New("image is empty")}
	}
	return config, nil
}

// decodeFailure separates codec errors from read errors. Read errors other
// than an unexpected end of file (truncated image) are not decode errors.
func decodeFailure(path string, err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("Can't read image: %w", err)
	}
	return &DecodeError{Path: path, Err: err}
}

// EncodeImage writes the image to w. format must be "png", "jpg" or "jpeg".
// jpgQuality is only used for jpeg images.
func EncodeImage(w io.Writer, img image.Image, format string, jpgQuality int) error {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpgQuality})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("Unsupported file type: %s, expected jpg or png", format)
	}
}

// SaveImage stores the image in file, the format is determined by the file
// extension (see EncodeImage).
func SaveImage(file string, img image.Image, jpgQuality int) error {
	ext := filepath.Ext(file)
	if !JPGAndPNG(ext) {
		return fmt.Errorf("Unsupported file type: %s, expected .jpg or .png", ext)
	}
	outFile, outErr := os.Create(file)
	if outErr != nil {
		return outErr
	}
	if encErr := EncodeImage(outFile, img, ext, jpgQuality); encErr != nil {
		outFile.Close()
		return encErr
	}
	return outFile.Close()
}

// FSImageDB implements ImageStorage. It uses images stored on the filesystem
// and opens them on demand.
// The paths are stored relative to a Root directory.
type FSImageDB struct {
	Root  string
	Paths []string
}

// NewFSImageDB returns an empty database with the given root.
func NewFSImageDB(root string) *FSImageDB {
	return &FSImageDB{Root: root, Paths: nil}
}

// GetPath returns the absolute path of an image.
func (db *FSImageDB) GetPath(id ImageID) string {
	return filepath.Join(db.Root, db.Paths[id])
}

// NumImages returns the number of images.
func (db *FSImageDB) NumImages() ImageID {
	return ImageID(len(db.Paths))
}

// Name returns the absolute path of the image.
func (db *FSImageDB) Name(id ImageID) string {
	if id < 0 || id >= db.NumImages() {
		return ""
	}
	return db.GetPath(id)
}

// LoadImage decodes the image from the filesystem.
func (db *FSImageDB) LoadImage(id ImageID) (image.Image, error) {
	if id < 0 || id >= db.NumImages() {
		return nil, fmt.Errorf("Invalid image id: Not associated with an image %d", id)
	}
	return DecodeImage(db.GetPath(id))
}

// GenFSImageDB creates a database containing all images in root (not
// recursive). Each regular file is probed, files that are not images are
// skipped (and logged). Errors while reading a file are returned.
//
// If no image was found an error wrapping ErrEmptyPalette is returned.
func GenFSImageDB(root string) (*FSImageDB, error) {
	root, absErr := filepath.Abs(root)
	if absErr != nil {
		return nil, absErr
	}
	files, listErr := ListDirectoryFiles(root)
	if listErr != nil {
		return nil, listErr
	}
	result := NewFSImageDB(root)
	for _, file := range files {
		path := filepath.Join(root, file)
		if _, probeErr := ProbeImage(path); probeErr != nil {
			if IsDecodeError(probeErr) {
				log.WithFields(log.Fields{
					log.ErrorKey: probeErr,
					"file":       path,
				}).Info("Image is not available or corrupted, skipping it")
				continue
			}
			return nil, probeErr
		}
		result.Paths = append(result.Paths, file)
	}
	if len(result.Paths) == 0 {
		return nil, fmt.Errorf("%w in directory %s", ErrEmptyPalette, root)
	}
	return result, nil
}
