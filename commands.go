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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/nfnt/resize"
)

var (
	// ErrCmdSyntaxErr is returned by a CommandFunc if the syntax for the command
	// is invalid.
	ErrCmdSyntaxErr = errors.New("Invalid command syntax")
)

const (
	// DefaultTileSize is the width and height of the palette tiles directly
	// after loading a palette. Before a mosaic is created the tiles are resized
	// to the size required by the mosaic.
	DefaultTileSize = 50
)

// ExecutorState is the state during a CommandHandler execution, see that
// type for more details of the workflow.
//
// The variables in the state are shared among the executions of the command
// functions.
type ExecutorState struct {
	// WorkingDir is the current directory. It must always be an absolute path.
	WorkingDir string

	// Palette is the currently loaded palette, nil if no palette was loaded.
	Palette *PaletteIndex

	// PaletteDir is the directory the palette was loaded from.
	PaletteDir string

	// NumRoutines is the number of go routines used for different tasks during
	// mosaic generation.
	NumRoutines int

	// Verbose is true if detailed output should be generated.
	Verbose bool

	// In is the source to read commands from (line by line).
	In io.Reader

	// Out is used to write state information.
	Out io.Writer

	// Option / config part

	// JPGQuality is the quality between 1 and 100 used when storing images.
	JPGQuality int

	// InterP is the interpolation function used when resizing images.
	InterP resize.InterpolationFunction

	// Scale is the scale factor used if the mosaic command is called without
	// one.
	Scale float64

	// MaxPhotoSize is the maximal number of pixels of a scaled target image.
	MaxPhotoSize int

	// DefaultWidth is the number of tiles in a row if the grid dimensions are
	// omitted completely.
	DefaultWidth int

	// Background is the background color of the mosaic.
	Background RGB

	// TileWidth and TileHeight are used when a palette is loaded.
	TileWidth, TileHeight int
}

// NewExecutorState returns a state with default values, the working directory
// is the current directory.
// This method might panic if something with filepath is wrong, this should
// however usually not be the case.
func NewExecutorState(in io.Reader, out io.Writer) *ExecutorState {
	initialRoutines := runtime.NumCPU() * 2
	if initialRoutines <= 0 {
		initialRoutines = 4
	}
	dir, err := filepath.Abs(".")
	if err != nil {
		panic(fmt.Errorf("Unable to retrieve path: %s", err.Error()))
	}
	return &ExecutorState{
		WorkingDir:   dir,
		NumRoutines:  initialRoutines,
		Verbose:      true,
		In:           in,
		Out:          out,
		JPGQuality:   100,
		InterP:       resize.Bilinear,
		Scale:        1.0,
		MaxPhotoSize: DefaultMaxPhotoSize,
		DefaultWidth: DefaultGridWidth,
		Background:   ConvertRGB(DefaultBackground),
		TileWidth:    DefaultTileSize,
		TileHeight:   DefaultTileSize,
	}
}

// GetPath returns the absolute path given some other path.
// If the user inputs a path we have two cases:
// The user used an absolute path, in this case we use this absolute path.
// If it is a relative path we join the working directory with this path.
//
// The home directory can be used like on Unix: ~/Pictures is the Pictures
// directory in the home directory of the user.
func (state *ExecutorState) GetPath(path string) (string, error) {
	res, pathErr := homedir.Expand(path)
	if pathErr != nil {
		return "", pathErr
	}
	if !filepath.IsAbs(res) {
		res = filepath.Join(state.WorkingDir, res)
	}
	return filepath.Abs(res)
}

// NewPainter returns a painter for the current palette configured with the
// variables of the state.
func (state *ExecutorState) NewPainter() *Painter {
	painter := NewPainter(state.Palette)
	painter.Resizer = NewNfntResizer(state.InterP)
	painter.MaxPhotoSize = state.MaxPhotoSize
	painter.DefaultWidth = state.DefaultWidth
	painter.Background = state.Background
	painter.NumRoutines = state.NumRoutines
	return painter
}

// CommandFunc is a function that is applied to the current states and
// arguments to that command.
type CommandFunc func(state *ExecutorState, args ...string) error

// Command a command consists of a function to actually execute the command
// and some information about the command.
type Command struct {
	Exec        CommandFunc
	Usage       string
	Description string
}

// CommandMap maps command names to Commands.
type CommandMap map[string]Command

// DefaultCommands contains all commands of the mosaic shell.
var DefaultCommands CommandMap

// CommandHandler together with Execute implements a high-level command
// execution loop. CommandFuncs are applied to the current state until there
// are no more commands to execute (no more input).
//
// A command has the form "COMMAND ARG1 ... ARGN" where COMMAND is the command
// name and ARG1 to ARGN are the arguments for the command.
//
// Execute first creates the state with Init and calls Start. Then each line
// from the state's reader is parsed and executed. Before and After are called
// around each line. OnParseErr, OnInvalidCmd and OnError are called on the
// respective failures and return true if the execution should continue.
// Commands return ErrCmdSyntaxErr if they're called with invalid arguments.
// OnSuccess is called after each successful command, OnScanErr if reading
// from the input fails.
type CommandHandler interface {
	Init() *ExecutorState
	Start(s *ExecutorState)
	Before(s *ExecutorState)
	After(s *ExecutorState)
	OnParseErr(s *ExecutorState, err error) bool
	OnInvalidCmd(s *ExecutorState, cmd string) bool
	OnSuccess(s *ExecutorState, cmd Command)
	OnError(s *ExecutorState, err error, cmd Command) bool
	OnScanErr(s *ExecutorState, err error)
}

// Execute implements the high-level execution loop as described in the
// documentation of CommandHandler. commandMap is used to lookup commands.
// It returns the final state.
func Execute(handler CommandHandler, commandMap CommandMap) *ExecutorState {
	state := handler.Init()
	handler.Start(state)
	scanner := bufio.NewScanner(state.In)
	for scanner.Scan() {
		handler.Before(state)
		if !executeLine(handler, commandMap, state, scanner.Text()) {
			return state
		}
		handler.After(state)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		handler.OnScanErr(state, scanErr)
	}
	return state
}

// executeLine returns false if the execution should stop.
func executeLine(handler CommandHandler, commandMap CommandMap, state *ExecutorState, line string) bool {
	parsedCmd, parseErr := ParseCommand(line)
	if parseErr != nil {
		return handler.OnParseErr(state, parseErr)
	}
	if len(parsedCmd) == 0 || strings.HasPrefix(parsedCmd[0], "#") {
		return true
	}
	name := parsedCmd[0]
	cmd, ok := commandMap[name]
	if !ok {
		return handler.OnInvalidCmd(state, name)
	}
	if execErr := cmd.Exec(state, parsedCmd[1:]...); execErr != nil {
		return handler.OnError(state, execErr, cmd)
	}
	handler.OnSuccess(state, cmd)
	return true
}

func isEOF(r []rune, i int) bool {
	return i == len(r)
}

// ParseCommand parses a command of the form "COMMAND ARG1 ... ARGN".
// Arguments are separated by spaces, an argument containing spaces must be
// enclosed in quotes: foo "bar bar" is the command foo with the single
// argument bar bar. Quotes and backslashes inside an argument are escaped by
// a backslash.
func ParseCommand(s string) ([]string, error) {
	parseErr := errors.New("Error parsing command line")
	res := make([]string, 0)
	// states of the automaton:
	// 0: between arguments
	// 1: inside an argument without quotes
	// 2: after a backslash in an argument without quotes
	// 3: inside an argument enclosed in quotes
	// 4: after a backslash in an argument enclosed in quotes
	r := []rune(s)
	state := 0
	currentArg := make([]rune, 0)
L:
	for i := 0; i <= len(r); i++ {
		eof := isEOF(r, i)
		switch state {
		case 0:
			if eof {
				break L
			}
			switch r[i] {
			case ' ', '\t':
			case '\\':
				state = 2
			case '"':
				state = 3
			default:
				currentArg = append(currentArg, r[i])
				state = 1
			}
		case 1:
			if eof {
				break L
			}
			switch r[i] {
			case ' ', '\t':
				res = append(res, string(currentArg))
				currentArg = nil
				state = 0
			case '\\':
				state = 2
			case '"':
				return nil, parseErr
			default:
				currentArg = append(currentArg, r[i])
			}
		case 2, 4:
			if eof {
				return nil, parseErr
			}
			switch r[i] {
			case '\\', '"':
				currentArg = append(currentArg, r[i])
				// back to the state the backslash was read in
				state--
			default:
				return nil, parseErr
			}
		case 3:
			if eof {
				return nil, parseErr
			}
			switch r[i] {
			case '"':
				res = append(res, string(currentArg))
				currentArg = nil
				state = 0
			case '\\':
				state = 4
			default:
				currentArg = append(currentArg, r[i])
			}
		}
	}
	if len(currentArg) > 0 {
		res = append(res, string(currentArg))
	}
	return res, nil
}

// PwdCommand is a command that prints the current working directory.
func PwdCommand(state *ExecutorState, args ...string) error {
	fmt.Fprintln(state.Out, state.WorkingDir)
	return nil
}

func (state *ExecutorState) variables() map[string]interface{} {
	return map[string]interface{}{
		"routines":      state.NumRoutines,
		"verbose":       state.Verbose,
		"jpeg-quality":  state.JPGQuality,
		"interp":        InterPString(state.InterP),
		"scale":         state.Scale,
		"max-size":      state.MaxPhotoSize,
		"default-width": state.DefaultWidth,
		"background":    state.Background.HexString(),
		"tile":          fmt.Sprintf("%dx%d", state.TileWidth, state.TileHeight),
	}
}

// StatsCommand is a command that prints variable / value pairs.
func StatsCommand(state *ExecutorState, args ...string) error {
	m := state.variables()
	if len(args) == 1 {
		val, has := m[args[0]]
		if !has {
			return fmt.Errorf("Unkown variable %s", args[0])
		}
		fmt.Fprintf(state.Out, "%s ==> %v\n", args[0], val)
		return nil
	}
	// keep order deterministic
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, variable := range keys {
		fmt.Fprintf(state.Out, "%s ==> %v\n", variable, m[variable])
	}
	return nil
}

// SetVarCommand sets a variable to a new value.
func SetVarCommand(state *ExecutorState, args ...string) error {
	if len(args) != 2 {
		return errors.New("Invalid set syntax: Requires variable and value. For a list of variables use \"stats\"")
	}
	name, valueStr := args[0], args[1]
	switch name {
	case "routines":
		val, parseErr := strconv.Atoi(valueStr)
		if parseErr != nil || val <= 0 {
			return fmt.Errorf("Invalid value for routines (must be positive int): %s", valueStr)
		}
		state.NumRoutines = val
	case "verbose":
		val, parseErr := strconv.ParseBool(valueStr)
		if parseErr != nil {
			return fmt.Errorf("Invalid value for verbose (must be true or false): %s", parseErr.Error())
		}
		state.Verbose = val
	case "jpeg-quality":
		val, parseErr := strconv.Atoi(valueStr)
		if parseErr != nil || val < 1 || val > 100 {
			return fmt.Errorf("Invalid value for jpeg-quality (must be int between 1 and 100): %s", valueStr)
		}
		state.JPGQuality = val
	case "interp":
		// either a quality (number) or the name of the function
		if val, parseErr := strconv.Atoi(valueStr); parseErr == nil {
			if val < 0 {
				return fmt.Errorf("Invalid value for interpolation function, must be integer >= 0: %d", val)
			}
			state.InterP = GetInterP(uint(val))
			return nil
		}
		interP, interPErr := InterPFromString(valueStr)
		if interPErr != nil {
			return interPErr
		}
		state.InterP = interP
	case "scale":
		val, parseErr := strconv.ParseFloat(valueStr, 64)
		if parseErr != nil {
			return fmt.Errorf("Invalid value for scale (must be a number > 0): %s", valueStr)
		}
		if scaleErr := checkScale(val); scaleErr != nil {
			return scaleErr
		}
		state.Scale = val
	case "max-size":
		val, parseErr := strconv.Atoi(valueStr)
		if parseErr != nil || val <= 0 {
			return fmt.Errorf("Invalid value for max-size (must be positive int): %s", valueStr)
		}
		state.MaxPhotoSize = val
	case "default-width":
		val, parseErr := strconv.Atoi(valueStr)
		if parseErr != nil || val <= 0 {
			return fmt.Errorf("Invalid value for default-width (must be positive int): %s", valueStr)
		}
		state.DefaultWidth = val
	case "background":
		val, parseErr := ParseHexColor(valueStr)
		if parseErr != nil {
			return parseErr
		}
		state.Background = val
	case "tile":
		width, height, parseErr := ParseDimensions(valueStr)
		if parseErr != nil {
			return parseErr
		}
		if width == 0 || height == 0 {
			return fmt.Errorf("Tile dimensions must be positive, got %s", valueStr)
		}
		state.TileWidth, state.TileHeight = width, height
	default:
		return fmt.Errorf("Invalid variable \"%s\". For a list use \"stats\"", name)
	}
	return nil
}

// CdCommand is a command that changes the current directory.
func CdCommand(state *ExecutorState, args ...string) error {
	if len(args) != 1 {
		return ErrCmdSyntaxErr
	}
	path, pathErr := state.GetPath(args[0])
	if pathErr != nil {
		return fmt.Errorf("Changing directory failed: %s", pathErr.Error())
	}
	fi, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("Changing directory failed: %s", statErr.Error())
	}
	if !fi.IsDir() {
		return fmt.Errorf("Changing directory failed: \"%s\" is not a directory", path)
	}
	state.WorkingDir = path
	return nil
}

// PaletteCommand is a command that administrates the palette.
// Without arguments it prints the number of images in the palette.
// With the single argument "list" it prints the path and average color of each
// image in the palette.
// With the argument "load" the palette is created from all images in a
// directory (the working directory if no directory is given). The tile size
// may be given as third argument, otherwise the tile variable is used.
func PaletteCommand(state *ExecutorState, args ...string) error {
	switch {
	case len(args) == 0:
		if state.Palette == nil {
			fmt.Fprintln(state.Out, "No palette loaded")
			return nil
		}
		width, height := state.Palette.TileSize()
		fmt.Fprintf(state.Out, "Palette %s: %d images, tile size %dx%d\n",
			state.PaletteDir, state.Palette.Len(), width, height)
		return nil
	case args[0] == "list" && len(args) == 1:
		if state.Palette == nil {
			return errors.New("No palette loaded, use \"palette load\"")
		}
		for i := 0; i < state.Palette.Len(); i++ {
			img := state.Palette.Image(ImageID(i))
			fmt.Fprintf(state.Out, "  %4d %s %s\n", i, img.Average, img.Name)
		}
		fmt.Fprintln(state.Out, "Total:", state.Palette.Len())
		return nil
	case args[0] == "load" && len(args) <= 3:
		dir := state.WorkingDir
		if len(args) > 1 {
			var pathErr error
			dir, pathErr = state.GetPath(args[1])
			if pathErr != nil {
				return pathErr
			}
		}
		tileWidth, tileHeight := state.TileWidth, state.TileHeight
		if len(args) > 2 {
			var parseErr error
			tileWidth, tileHeight, parseErr = ParseDimensions(args[2])
			if parseErr != nil {
				return parseErr
			}
		}
		fmt.Fprintln(state.Out, "Loading images from", dir)
		state.Palette = nil
		state.PaletteDir = ""
		start := time.Now()
		palette, loadErr := BuildPalette(dir, tileWidth, tileHeight,
			NewNfntResizer(state.InterP), state.NumRoutines, nil)
		if loadErr != nil {
			return loadErr
		}
		state.Palette = palette
		state.PaletteDir = dir
		fmt.Fprintln(state.Out, "Successfully read", palette.Len(), "images")
		if state.Verbose {
			fmt.Fprintln(state.Out, "Loading took", time.Since(start))
		}
		return nil
	default:
		return ErrCmdSyntaxErr
	}
}

// MosaicCommand creates a mosaic image.
// Usage example: mosaic in.jpg out.jpg 20x30 2
// The grid dimensions might be omitted partially ("20x", "x30") or
// completely, the missing value is computed from the ratio of the input.
func MosaicCommand(state *ExecutorState, args ...string) error {
	if state.Palette == nil {
		return errors.New("No palette loaded, use \"palette load\"")
	}
	if len(args) < 2 || len(args) > 4 {
		return ErrCmdSyntaxErr
	}
	totalStart := time.Now()
	if !JPGAndPNG(filepath.Ext(args[1])) {
		return fmt.Errorf("Supported files are .jpg and .png, got file %s", args[1])
	}
	inPath, inPathErr := state.GetPath(args[0])
	if inPathErr != nil {
		return inPathErr
	}
	outPath, outPathErr := state.GetPath(args[1])
	if outPathErr != nil {
		return outPathErr
	}
	width, height := NoDimension, NoDimension
	if len(args) > 2 {
		var parseErr error
		width, height, parseErr = ParseDimensionsEmpty(args[2])
		if parseErr != nil {
			return parseErr
		}
	}
	scale := state.Scale
	if len(args) > 3 {
		var parseErr error
		scale, parseErr = strconv.ParseFloat(args[3], 64)
		if parseErr != nil {
			return fmt.Errorf("Invalid scale %s: %s", args[3], parseErr.Error())
		}
	}
	if state.Verbose {
		fmt.Fprintln(state.Out, "Reading image", inPath)
	}
	mosaic, mosaicErr := state.NewPainter().CreatePhotomosaicFromFile(inPath, width, height, scale)
	if mosaicErr != nil {
		return mosaicErr
	}
	if state.Verbose {
		fmt.Fprintf(state.Out, "Created mosaic with %dx%d tiles of size %dx%d\n",
			mosaic.GridWidth, mosaic.GridHeight, mosaic.TileWidth, mosaic.TileHeight)
		fmt.Fprintln(state.Out, "Saving image")
	}
	if writeErr := SaveImage(outPath, mosaic.Image, state.JPGQuality); writeErr != nil {
		return writeErr
	}
	fmt.Fprintln(state.Out, "Mosaic saved to", outPath)
	if state.Verbose {
		fmt.Fprintln(state.Out, "Total creation time:", time.Since(totalStart))
	}
	return nil
}

// HelpCommand prints the usage of all commands or a single command.
func HelpCommand(state *ExecutorState, args ...string) error {
	if len(args) == 1 {
		cmd, has := DefaultCommands[args[0]]
		if !has {
			return fmt.Errorf("Unkown command %s", args[0])
		}
		fmt.Fprintln(state.Out, "Usage:", cmd.Usage)
		fmt.Fprintln(state.Out, cmd.Description)
		return nil
	}
	names := make([]string, 0, len(DefaultCommands))
	for name := range DefaultCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(state.Out, "  %s\n", DefaultCommands[name].Usage)
	}
	return nil
}

func init() {
	DefaultCommands = make(map[string]Command, 10)
	DefaultCommands["pwd"] = Command{
		Exec:        PwdCommand,
		Usage:       "pwd",
		Description: "Show current working directory.",
	}
	DefaultCommands["cd"] = Command{
		Exec:        CdCommand,
		Usage:       "cd <dir>",
		Description: "Change working directory to the specified directory",
	}
	DefaultCommands["stats"] = Command{
		Exec:        StatsCommand,
		Usage:       "stats [var]",
		Description: "Show value of variables that can be changed via set, if var is given only value of that variable",
	}
	DefaultCommands["set"] = Command{
		Exec:  SetVarCommand,
		Usage: "set <variable> <value>",
		Description: "Set value for a variable. Variables are routines, verbose," +
			" jpeg-quality, interp, scale, max-size, default-width, background and tile.",
	}
	DefaultCommands["palette"] = Command{
		Exec:  PaletteCommand,
		Usage: "palette [list] or palette load [dir] [WxH]",
		Description: "This command controls the images that are used as tiles." +
			"\n\nIf \"list\" is used a list of all images with their average color" +
			" will be printed, note that this can be quite large.\n\n" +
			"If load is used the palette will be initialized with all images from" +
			" the directory (working directory if no directory provided). The" +
			" directory is not scanned recursively. The tiles have the size WxH" +
			" (variable tile if omitted), before creating a mosaic they are resized" +
			" to the size required by the mosaic.",
	}
	DefaultCommands["mosaic"] = Command{
		Exec:  MosaicCommand,
		Usage: "mosaic <in> <out> [grid] [scale]",
		Description: "Creates a mosaic with the images from the palette." +
			" in is the path to the target image, out the path to the output image" +
			" (.jpg or .png). grid describes the number of tiles in the mosaic," +
			" for example \"30x20\" creates 30 times 20 tiles (30 in x and 20 in y" +
			" direction). A value can be omitted and the ratio of the target image" +
			" is retained: \"30x\" means 30 tiles in a row and the number of rows" +
			" is computed. If the grid is omitted completely the default-width is" +
			" used. scale is multiplied with the size of the target image to get" +
			" the size of the mosaic.\n\n" +
			"Example Usage: \"mosaic in.jpg out.jpg 20x30 2\"",
	}
	DefaultCommands["help"] = Command{
		Exec:        HelpCommand,
		Usage:       "help [command]",
		Description: "Show all commands or the description of a command.",
	}
}

// ReplHandler implements CommandHandler by reading commands from stdin and
// writing output to stdout.
type ReplHandler struct{}

// Init creates an initial ExecutorState reading from stdin.
func (h ReplHandler) Init() *ExecutorState {
	return NewExecutorState(os.Stdin, os.Stdout)
}

func (h ReplHandler) Start(s *ExecutorState) {
	fmt.Fprintln(s.Out, "Welcome to the photomosaic generator, type \"help\" for a list of commands")
	fmt.Fprint(s.Out, ">>> ")
}

func (h ReplHandler) Before(s *ExecutorState) {}

func (h ReplHandler) After(s *ExecutorState) {
	fmt.Fprint(s.Out, ">>> ")
}

func (h ReplHandler) OnParseErr(s *ExecutorState, err error) bool {
	fmt.Fprintln(s.Out, "Syntax error", err)
	return true
}

func (h ReplHandler) OnInvalidCmd(s *ExecutorState, cmd string) bool {
	fmt.Fprintf(s.Out, "Invalid command \"%s\"\n", cmd)
	return true
}

func (h ReplHandler) OnSuccess(s *ExecutorState, cmd Command) {}

func (h ReplHandler) OnError(s *ExecutorState, err error, cmd Command) bool {
	if err == ErrCmdSyntaxErr {
		fmt.Fprintln(s.Out, "Invalid syntax for command.")
		fmt.Fprintln(s.Out, "Usage:", cmd.Usage)
	} else {
		fmt.Fprintln(s.Out, "Error while executing command:", err.Error())
	}
	return true
}

func (h ReplHandler) OnScanErr(s *ExecutorState, err error) {
	fmt.Fprintln(s.Out, "Error while reading:", err.Error())
}

// ScriptHandler implements CommandHandler. It reads commands from Source and
// writes output to Out, errors are written to ErrOut. It stops whenever an
// error is enountered, Err is set to this error.
type ScriptHandler struct {
	Source io.Reader
	Out    io.Writer
	ErrOut io.Writer
	Err    error
}

// NewScriptHandler returns a new script handler that reads input from the given
// source and writes to stdout / stderr.
func NewScriptHandler(source io.Reader) *ScriptHandler {
	return &ScriptHandler{Source: source, Out: os.Stdout, ErrOut: os.Stderr}
}

// Init creates an initial ExecutorState reading from Source.
func (h *ScriptHandler) Init() *ExecutorState {
	return NewExecutorState(h.Source, h.Out)
}

func (h *ScriptHandler) Start(s *ExecutorState) {}

func (h *ScriptHandler) Before(s *ExecutorState) {}

func (h *ScriptHandler) After(s *ExecutorState) {}

func (h *ScriptHandler) OnParseErr(s *ExecutorState, err error) bool {
	fmt.Fprintln(h.ErrOut, "Syntax error:", err)
	h.Err = err
	return false
}

func (h *ScriptHandler) OnInvalidCmd(s *ExecutorState, cmd string) bool {
	fmt.Fprintf(h.ErrOut, "Invalid command \"%s\"\n", cmd)
	h.Err = fmt.Errorf("Invalid command \"%s\"", cmd)
	return false
}

func (h *ScriptHandler) OnSuccess(s *ExecutorState, cmd Command) {}

func (h *ScriptHandler) OnError(s *ExecutorState, err error, cmd Command) bool {
	if err == ErrCmdSyntaxErr {
		fmt.Fprintln(h.ErrOut, "Error: Invalid syntax for command.")
		fmt.Fprintln(h.ErrOut, "Usage:", cmd.Usage)
	} else {
		fmt.Fprintln(h.ErrOut, "Error while executing command:", err.Error())
	}
	h.Err = err
	return false
}

func (h *ScriptHandler) OnScanErr(s *ExecutorState, err error) {
	fmt.Fprintln(h.ErrOut, "Error while reading:", err.Error())
	h.Err = err
}

// ReaderFromCmdLines returns a reader for a script source that reads the
// content of the combined lines.
func ReaderFromCmdLines(lines []string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n"))
}

// Parameterized is used to transform parameterized commands into executable
// commands, that means replacing variables $i with the provided argument.
// Example:
// The command "palette load $1" can be called with one argument that will
// replace the placeholder $1.
//
// The whole reader is read before the transformation, scripts are usually
// short.
func Parameterized(r io.Reader, args ...string) (io.Reader, error) {
	// replace $10 before $1
	replaceArgs := make([]string, 0, 2*len(args))
	for i := len(args) - 1; i >= 0; i-- {
		replaceArgs = append(replaceArgs, fmt.Sprintf("$%d", i+1), args[i])
	}
	replacer := strings.NewReplacer(replaceArgs...)
	lines := make([]string, 0, 20)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, replacer.Replace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ReaderFromCmdLines(lines), nil
}
