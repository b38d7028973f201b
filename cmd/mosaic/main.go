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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/photomosaic/photomosaic"
	log "github.com/sirupsen/logrus"
)

type Globals struct {
	Debug    bool `help:"Enable debug output"`
	Routines int  `help:"Number of go routines, 0 means twice the number of CPUs" default:"0"`
}

func (g *Globals) numRoutines() int {
	if g.Routines > 0 {
		return g.Routines
	}
	return photomosaic.NewPainter(nil).NumRoutines
}

type CreateCmd struct {
	Palette    string  `arg:"" help:"Directory containing the palette images" type:"path"`
	In         string  `arg:"" help:"Target image" type:"path"`
	Out        string  `arg:"" help:"Output image (.jpg or .png)" type:"path"`
	Grid       string  `help:"Number of tiles, for example 30x20, 30x or x20" default:"x"`
	Scale      float64 `help:"Scale factor applied to the size of the target image" default:"1.0"`
	Tile       string  `help:"Tile size used when loading the palette" default:"50x50"`
	Quality    int     `help:"JPEG quality between 1 and 100" default:"100"`
	Interp     string  `help:"Interpolation function used for resizing" default:"bilinear" enum:"nearest-neighbor,bilinear,bicubic,mitchell-netravali,lanczos2,lanczos3"`
	Background string  `help:"Background color of the mosaic" default:"#646464"`
	MaxSize    int     `help:"Maximal number of pixels of the scaled target image" default:"50000000"`
}

func (c *CreateCmd) Validate() error {
	if !photomosaic.JPGAndPNG(filepath.Ext(c.Out)) {
		return fmt.Errorf("Supported output files are .jpg and .png, got %s", c.Out)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("Quality must be between 1 and 100, got %d", c.Quality)
	}
	return nil
}

func (c *CreateCmd) Run(globals *Globals) error {
	start := time.Now()
	tileWidth, tileHeight, tileErr := photomosaic.ParseDimensions(c.Tile)
	if tileErr != nil {
		return tileErr
	}
	gridWidth, gridHeight, gridErr := photomosaic.ParseDimensionsEmpty(c.Grid)
	if gridErr != nil {
		return gridErr
	}
	background, colorErr := photomosaic.ParseHexColor(c.Background)
	if colorErr != nil {
		return colorErr
	}
	interP, interPErr := photomosaic.InterPFromString(c.Interp)
	if interPErr != nil {
		return interPErr
	}
	resizer := photomosaic.NewNfntResizer(interP)
	numRoutines := globals.numRoutines()

	log.WithField("dir", c.Palette).Info("Loading palette")
	storage, dbErr := photomosaic.GenFSImageDB(c.Palette)
	if dbErr != nil {
		return dbErr
	}
	palette, paletteErr := photomosaic.NewPaletteIndex(storage, tileWidth, tileHeight, resizer, numRoutines,
		photomosaic.LoggerProgressFunc("Palette", int(storage.NumImages()), 100))
	if paletteErr != nil {
		return paletteErr
	}
	log.WithField("images", palette.Len()).Info("Palette loaded")

	painter := photomosaic.NewPainter(palette)
	painter.Resizer = resizer
	painter.MaxPhotoSize = c.MaxSize
	painter.Background = background
	painter.NumRoutines = numRoutines
	mosaic, mosaicErr := painter.CreatePhotomosaicFromFile(c.In, gridWidth, gridHeight, c.Scale)
	if mosaicErr != nil {
		return mosaicErr
	}
	if saveErr := photomosaic.SaveImage(c.Out, mosaic.Image, c.Quality); saveErr != nil {
		return saveErr
	}
	log.WithFields(log.Fields{
		"file":     c.Out,
		"grid":     fmt.Sprintf("%dx%d", mosaic.GridWidth, mosaic.GridHeight),
		"tile":     fmt.Sprintf("%dx%d", mosaic.TileWidth, mosaic.TileHeight),
		"duration": time.Since(start),
	}).Info("Mosaic saved")
	return nil
}

type PaletteCmd struct {
	Dir  string `arg:"" help:"Directory containing the palette images" type:"path"`
	Tile string `help:"Tile size used when loading the palette" default:"50x50"`
}

func (c *PaletteCmd) Run(globals *Globals) error {
	tileWidth, tileHeight, tileErr := photomosaic.ParseDimensions(c.Tile)
	if tileErr != nil {
		return tileErr
	}
	palette, paletteErr := photomosaic.BuildPalette(c.Dir, tileWidth, tileHeight, nil,
		globals.numRoutines(), nil)
	if paletteErr != nil {
		return paletteErr
	}
	for i, avg := range palette.Averages() {
		fmt.Printf("%4d %s %s\n", i, avg, palette.Image(photomosaic.ImageID(i)).Name)
	}
	fmt.Println("Total:", palette.Len())
	return nil
}

type ReplCmd struct{}

func (c *ReplCmd) Run(globals *Globals) error {
	photomosaic.Execute(photomosaic.ReplHandler{}, photomosaic.DefaultCommands)
	return nil
}

type ScriptCmd struct {
	Script     string   `arg:"" help:"Script file, or the name of a predefined script (simple, scaled, compare) if --predefined is set"`
	Args       []string `arg:"" optional:"" help:"Arguments replacing $1, $2, ... in the script"`
	Predefined bool     `help:"Run a predefined script"`
}

func (c *ScriptCmd) Run(globals *Globals) error {
	var source string
	if c.Predefined {
		script, has := photomosaic.PredefinedScripts[c.Script]
		if !has {
			return fmt.Errorf("Unknown predefined script %s", c.Script)
		}
		source = script
	} else {
		path, pathErr := homedir.Expand(c.Script)
		if pathErr != nil {
			return pathErr
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		source = string(content)
	}
	r, paramErr := photomosaic.Parameterized(photomosaic.ReaderFromCmdLines([]string{source}), c.Args...)
	if paramErr != nil {
		return paramErr
	}
	handler := photomosaic.NewScriptHandler(r)
	photomosaic.Execute(handler, photomosaic.DefaultCommands)
	return handler.Err
}

var cli struct {
	Globals

	Create  CreateCmd  `cmd:"" help:"Create a mosaic"`
	Palette PaletteCmd `cmd:"" help:"Print the average colors of all palette images"`
	Repl    ReplCmd    `cmd:"" default:"1" help:"Run the interactive shell"`
	Script  ScriptCmd  `cmd:"" help:"Run a script of shell commands"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("mosaic"),
		kong.Description("Create photomosaics from a directory of images"),
		kong.UsageOnError(),
	)
	if cli.Debug {
		log.SetLevel(log.DebugLevel)
	}
	err := ctx.Run(&cli.Globals)
	if err != nil {
		if errors.Is(err, photomosaic.ErrEmptyPalette) {
			log.WithError(err).Error("No usable images found")
		} else {
			log.WithError(err).Error("Failed")
		}
		os.Exit(1)
	}
}
