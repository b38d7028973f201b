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

package web

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/photomosaic/photomosaic"
)

// EncodePNG returns the base64 encoding of the image as png.
func EncodePNG(image image.Image) (string, error) {
	var w strings.Builder
	encoder := base64.NewEncoder(base64.StdEncoding, &w)
	err := png.Encode(encoder, image)
	if err != nil {
		return "", err
	}
	err = encoder.Close()
	if err != nil {
		return "", err
	}
	return w.String(), nil
}

// EncodeJPEG returns the base64 encoding of the image as jpeg.
func EncodeJPEG(image image.Image, quality int) (string, error) {
	var w strings.Builder
	encoder := base64.NewEncoder(base64.StdEncoding, &w)
	err := jpeg.Encode(encoder, image, &jpeg.Options{Quality: quality})
	if err != nil {
		return "", err
	}
	err = encoder.Close()
	if err != nil {
		return "", err
	}
	return w.String(), nil
}

// EncodeBase64 encodes the image in the given format ("png" or "jpeg").
func EncodeBase64(img image.Image, format string, quality int) (string, error) {
	switch format {
	case "png":
		return EncodePNG(img)
	case "jpeg", "jpg":
		return EncodeJPEG(img, quality)
	default:
		return "", fmt.Errorf("Unsupported image format %s", format)
	}
}

// DecodeBase64 decodes a base64 encoded image. The string may be a data url
// like "data:image/png;base64,...". If s is no valid image the returned
// error wraps photomosaic.ErrNotImage.
func DecodeBase64(s string) (image.Image, error) {
	if strings.HasPrefix(s, "data:") {
		if pos := strings.Index(s, ","); pos >= 0 {
			s = s[pos+1:]
		}
	}
	data, decErr := base64.StdEncoding.DecodeString(s)
	if decErr != nil {
		return nil, fmt.Errorf("%w: invalid base64 encoding: %s", photomosaic.ErrNotImage, decErr.Error())
	}
	img, _, imgErr := image.Decode(bytes.NewReader(data))
	if imgErr != nil {
		return nil, fmt.Errorf("%w: %s", photomosaic.ErrNotImage, imgErr.Error())
	}
	return img, nil
}
