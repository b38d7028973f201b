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
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/photomosaic/photomosaic"
	"github.com/photomosaic/photomosaic/web"
	log "github.com/sirupsen/logrus"
)

var cli struct {
	Palette    string        `help:"Directory containing the palette images" type:"path" required:""`
	Addr       string        `help:"Address to listen on" default:":8085"`
	Tile       string        `help:"Tile size used when loading the palette" default:"50x50"`
	MaxAge     time.Duration `help:"Connections without request for this duration are removed" default:"1h"`
	Background string        `help:"Background color of the mosaics" default:"#646464"`
	Routines   int           `help:"Number of go routines, 0 means twice the number of CPUs" default:"0"`
	Debug      bool          `help:"Enable debug output"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("backend"),
		kong.Description("HTTP backend for creating photomosaics"),
		kong.UsageOnError(),
	)
	if cli.Debug {
		log.SetLevel(log.DebugLevel)
	}
	tileWidth, tileHeight, tileErr := photomosaic.ParseDimensions(cli.Tile)
	if tileErr != nil {
		log.WithError(tileErr).Fatal("Invalid tile size")
	}
	background, colorErr := photomosaic.ParseHexColor(cli.Background)
	if colorErr != nil {
		log.WithError(colorErr).Fatal("Invalid background color")
	}

	context := web.NewContext(nil, web.NewMemStorage())
	if cli.Routines > 0 {
		context.NumRoutines = cli.Routines
	}
	context.Background = background

	log.WithField("dir", cli.Palette).Info("Loading palette")
	palette, paletteErr := photomosaic.BuildPalette(cli.Palette, tileWidth, tileHeight, nil,
		context.NumRoutines, nil)
	if paletteErr != nil {
		log.WithError(paletteErr).Fatal("Can't load palette")
	}
	context.Palette = palette
	log.WithField("images", palette.Len()).Info("Palette loaded")

	done := web.RunFilter(context.Storage, cli.MaxAge, cli.MaxAge/2)
	defer close(done)

	web.DefaultHandlers(context, nil)
	log.WithField("addr", cli.Addr).Info("Starting server")
	if err := http.ListenAndServe(cli.Addr, nil); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
