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
	"bytes"
	"strings"
	"testing"

	"github.com/nfnt/resize"
)

func TestParseDimensions(t *testing.T) {
	w, h, err := ParseDimensions("1024x768")
	if err != nil || w != 1024 || h != 768 {
		t.Errorf("Expected 1024x768, got %dx%d (error %v)", w, h, err)
	}
	for _, s := range []string{"1024", "x768", "ax2", "1x2x3", "-1x2"} {
		if _, _, err := ParseDimensions(s); err == nil {
			t.Errorf("Expected error for %q", s)
		}
	}
}

func TestParseDimensionsEmpty(t *testing.T) {
	tests := []struct {
		s                    string
		expectedW, expectedH int
	}{
		{"20x30", 20, 30},
		{"20x", 20, NoDimension},
		{"x30", NoDimension, 30},
		{"x", NoDimension, NoDimension},
		{" 5 x 6 ", 5, 6},
	}
	for _, tc := range tests {
		w, h, err := ParseDimensionsEmpty(tc.s)
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", tc.s, err)
			continue
		}
		if w != tc.expectedW || h != tc.expectedH {
			t.Errorf("Expected %d and %d for %q, got %d and %d", tc.expectedW, tc.expectedH, tc.s, w, h)
		}
	}
	for _, s := range []string{"", "20", "ax", "x-1"} {
		if _, _, err := ParseDimensionsEmpty(s); err == nil {
			t.Errorf("Expected error for %q", s)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#646464")
	if err != nil {
		t.Fatal(err)
	}
	if c != NewRGB(100, 100, 100) {
		t.Errorf("Expected (100, 100, 100), got %v", c)
	}
	if s := NewRGB(255, 0, 16).HexString(); s != "#ff0010" {
		t.Errorf("Expected #ff0010, got %s", s)
	}
	if _, err := ParseHexColor("not a color"); err == nil {
		t.Error("Expected error for invalid color")
	}
}

func TestInterPString(t *testing.T) {
	for _, interP := range []resize.InterpolationFunction{resize.NearestNeighbor, resize.Bilinear,
		resize.Bicubic, resize.MitchellNetravali, resize.Lanczos2, resize.Lanczos3} {
		parsed, err := InterPFromString(InterPString(interP))
		if err != nil {
			t.Errorf("Can't parse %s: %v", InterPString(interP), err)
			continue
		}
		if parsed != interP {
			t.Errorf("Expected %s, got %s", InterPString(interP), InterPString(parsed))
		}
	}
	if _, err := InterPFromString("foo"); err == nil {
		t.Error("Expected error for unknown interpolation function")
	}
}

func TestStdProgressFunc(t *testing.T) {
	var buf bytes.Buffer
	progress := StdProgressFunc(&buf, "Images", 4, 2)
	for i := 1; i <= 4; i++ {
		progress(i)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines of output, got %q", buf.String())
	}
	if lines[1] != "Images: 4 of 4 (100.0%)" {
		t.Errorf("Unexpected output %q", lines[1])
	}
}
