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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/photomosaic/photomosaic"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:", os.Args[0], "<IMAGE> [IMAGE...]")
		os.Exit(1)
	}
	exitCode := 0
	for _, path := range os.Args[1:] {
		start := time.Now()
		img, decodeErr := photomosaic.DecodeImage(path)
		if decodeErr != nil {
			fmt.Println("Error parsing image:")
			fmt.Println(decodeErr)
			exitCode = 1
			continue
		}
		avg := photomosaic.ComputeAverageColor(img)
		bounds := img.Bounds()
		r, g, b := avg[0], avg[1], avg[2]
		hex := photomosaic.NewRGB(uint8(r+0.5), uint8(g+0.5), uint8(b+0.5)).HexString()
		fmt.Printf("%s (%dx%d): %s %s\n", path, bounds.Dx(), bounds.Dy(), avg, hex)
		fmt.Println("Computed in", time.Since(start))
	}
	os.Exit(exitCode)
}
