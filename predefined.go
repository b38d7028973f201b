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

// This file contains some predefined scripts that can be executed. This way
// we have some easy way to crate mosaics without requiring the user to know
// any details.

var (
	// RunSimple contains script code that when executed loads the palette
	// images from a directory and then creates the mosaic.
	// It is parameterized by four parameters: First the directory containing
	// the palette images, second the name of the input file, third the name of
	// the output file and fourth the number of tiles in the mosaic.
	//
	// Example usage: RunSimple ~/Pictures/ input.jpg output.png 20x30
	//
	// This would create output.png with 20x30 tiles from input.jpg with images
	// from ~/Pictures/. The output image has (roughly) the same size as the
	// input image.
	RunSimple = `palette load $1
mosaic $2 $3 $4`

	// RunScaled is similar to RunSimple but takes an additional argument: The
	// scale factor applied to the size of the input image.
	//
	// Example usage: RunScaled ~/Pictures/ input.jpg output.png 20x30 2
	RunScaled = `palette load $1
mosaic $2 $3 $4 $5`

	// CompareGrids is similar to RunSimple but generates multiple output
	// images with a different number of tiles. Thus the third argument is not
	// a path for a file but a directory. In this directory multiple mosaics
	// will be generated.
	//
	// Example usage: CompareGrids ~/Pictures/ input.jpg ./output/
	CompareGrids = `palette load $1
mosaic $2 $3/mosaic-10.jpg 10x
mosaic $2 $3/mosaic-20.jpg 20x
mosaic $2 $3/mosaic-40.jpg 40x
mosaic $2 $3/mosaic-80.jpg 80x`
)

// PredefinedScripts maps the names of the predefined scripts to their source.
var PredefinedScripts = map[string]string{
	"simple":  RunSimple,
	"scaled":  RunScaled,
	"compare": CompareGrids,
}
