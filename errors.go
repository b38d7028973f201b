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
)

// All errors returned by the mosaic pipeline wrap one of the following errors,
// use errors.Is to test for them.
var (
	// ErrEmptyPalette is returned if a palette would contain no images, for
	// example because a directory contains no decodable image.
	ErrEmptyPalette = errors.New("No images found for palette")

	// ErrNotImage is returned if a file could not be decoded as an image.
	ErrNotImage = errors.New("File is not an image or corrupted")

	// ErrPhotoTooLarge is returned if the (scaled) target image exceeds the
	// configured maximal number of pixels.
	ErrPhotoTooLarge = errors.New("Picture is too big")

	// ErrInvalidGridDimension is returned if the grid or tile dimensions are not
	// positive.
	ErrInvalidGridDimension = errors.New("Invalid grid dimension")

	// ErrDimensionMismatch is returned if the downsampled target and the canvas
	// have different dimensions. It signals a bug, not a user error.
	ErrDimensionMismatch = errors.New("Dimension mismatch between scaled down image and image canvas")

	// ErrInvalidScale is returned if a scale factor is not > 0.
	ErrInvalidScale = errors.New("Scale factor must be > 0")
)

// DecodeError is returned when a file exists and could be read but its content
// is not a (supported) image. Errors while opening or reading the file are not
// wrapped in a DecodeError.
type DecodeError struct {
	Path string
	Err  error
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf("Can't decode image %s: %v", err.Path, err.Err)
}

// Unwrap returns the error returned by the codec.
func (err *DecodeError) Unwrap() error {
	return err.Err
}

// Is reports true for ErrNotImage.
func (err *DecodeError) Is(target error) bool {
	return target == ErrNotImage
}

// IsDecodeError returns true if err (or an error it wraps) is a DecodeError.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}
