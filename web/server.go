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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/photomosaic/photomosaic"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyHandled is returned by a handler that already wrote an error
	// response.
	ErrAlreadyHandled = errors.New("Error was already handled")
)

const (
	VarKey        = "var"
	ValueKey      = "value"
	ConnectionKey = "connection"
	ImageKey      = "image"
)

// Context contains everything shared among the handlers.
type Context struct {
	// Palette is the palette all mosaics are created from.
	Palette     *photomosaic.PaletteIndex
	Storage     ConnectionStorage
	NumRoutines int
	// MaxPhotoSize is the maximal number of pixels of a scaled target image.
	MaxPhotoSize int
	// DefaultWidth is the number of tiles in a row if no grid is given.
	DefaultWidth int
	Background   photomosaic.RGB
}

// NewContext returns a context with default settings.
func NewContext(palette *photomosaic.PaletteIndex, storage ConnectionStorage) *Context {
	initialRoutines := runtime.NumCPU() * 2
	if initialRoutines <= 0 {
		initialRoutines = 4
	}
	return &Context{
		Palette:      palette,
		Storage:      storage,
		NumRoutines:  initialRoutines,
		MaxPhotoSize: photomosaic.DefaultMaxPhotoSize,
		DefaultWidth: photomosaic.DefaultGridWidth,
		Background:   photomosaic.ConvertRGB(photomosaic.DefaultBackground),
	}
}

// HandlerFunc is a handler that returns data that is encoded as JSON.
// If the returned error is ErrAlreadyHandled the handler already wrote the
// response, all other errors result in an internal server error.
type HandlerFunc func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error)

// ToHTTPFunc converts a HandlerFunc to an http.HandlerFunc.
func ToHTTPFunc(context *Context, handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jsonData, err := handler(context, w, r); err != nil {
			if err != ErrAlreadyHandled {
				log.WithError(err).Error("Error in request")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		} else {
			jData, jErr := json.Marshal(jsonData)
			if jErr != nil {
				log.WithError(jErr).Error("Internal error: Can't marshal json")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(jData)
		}
	}
}

// JSONMap is the decoded body of a request.
type JSONMap map[string]interface{}

func (m JSONMap) GetString(key string) (string, error) {
	val, has := m[key]
	if !has {
		return "", fmt.Errorf("Key not found: %s", key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("Entry for %s not of type string", key)
	}
	return str, nil
}

// GetInt returns the integer value of key. JSON numbers are decoded as
// float64, so the value must be a float64 without fractional part.
func (m JSONMap) GetInt(key string) (int, error) {
	asFloat, err := m.GetFloat(key)
	if err != nil {
		return -1, err
	}
	if asFloat != math.Trunc(asFloat) || math.IsInf(asFloat, 0) {
		return -1, fmt.Errorf("Entry for %s not of type int", key)
	}
	return int(asFloat), nil
}

func (m JSONMap) GetFloat(key string) (float64, error) {
	val, has := m[key]
	if !has {
		return -1.0, fmt.Errorf("Key not found: %s", key)
	}
	asFloat, ok := val.(float64)
	if !ok {
		return -1.0, fmt.Errorf("Entry for %s not of type number", key)
	}
	return asFloat, nil
}

func (m JSONMap) GetConnection() (ConnectionID, error) {
	str, lookupErr := m.GetString(ConnectionKey)
	var id ConnectionID
	if lookupErr != nil {
		return id, lookupErr
	}
	uid, parseErr := uuid.Parse(str)
	if parseErr != nil {
		return id, parseErr
	}
	id = ConnectionID(uid)
	return id, nil
}

// ProcessRequest decodes the JSON body of the request.
func ProcessRequest(w http.ResponseWriter, r *http.Request) (JSONMap, error) {
	if r.Body == nil {
		http.Error(w, "No request body given", http.StatusBadRequest)
		return nil, ErrAlreadyHandled
	}
	dec := json.NewDecoder(r.Body)
	m := make(map[string]interface{})
	err := dec.Decode(&m)
	if err != nil {
		http.Error(w,
			fmt.Sprintf("Invalid request, expected valid JSON, got: %s", err.Error()),
			http.StatusBadRequest)
		return nil, ErrAlreadyHandled
	}
	return m, nil
}

// StateHandlerFunc is a handler that operates on the state of the connection
// given in the request.
type StateHandlerFunc func(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error)

// StateHandlerToHTTPFunc looks up the state of the connection in the request
// body and calls handler with this state.
func StateHandlerToHTTPFunc(context *Context, handler StateHandlerFunc) http.HandlerFunc {
	stateHandler := func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
		json, jsonErr := ProcessRequest(w, r)
		if jsonErr != nil {
			return nil, jsonErr
		}
		connectionID, connectionKeyErr := json.GetConnection()
		if connectionKeyErr != nil {
			http.Error(w, connectionKeyErr.Error(), http.StatusBadRequest)
			return nil, ErrAlreadyHandled
		}
		state, connErr := context.Storage.Get(connectionID)
		if connErr != nil {
			http.Error(w, connErr.Error(), http.StatusBadRequest)
			return nil, ErrAlreadyHandled
		}
		state.Touch(time.Now().UTC())
		return handler(state, context, w, json)
	}
	return ToHTTPFunc(context, stateHandler)
}

// InitHandler creates a new connection with the default state.
func InitHandler(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	id, idErr := GenConnectionID()
	if idErr != nil {
		return nil, idErr
	}
	if setErr := context.Storage.Set(id, NewState()); setErr != nil {
		return nil, setErr
	}
	res := map[string]string{
		ConnectionKey: id.String(),
	}
	return res, nil
}

// CloseHandler removes the state of a connection.
func CloseHandler(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	json, jsonErr := ProcessRequest(w, r)
	if jsonErr != nil {
		return nil, jsonErr
	}
	connectionID, connectionKeyErr := json.GetConnection()
	if connectionKeyErr != nil {
		http.Error(w, connectionKeyErr.Error(), http.StatusBadRequest)
		return nil, ErrAlreadyHandled
	}
	if delErr := context.Storage.Delete(connectionID); delErr != nil {
		return nil, delErr
	}
	return map[string]bool{"success": true}, nil
}

func gridString(width, height int) string {
	res := ""
	if width >= 0 {
		res += fmt.Sprintf("%d", width)
	}
	res += "x"
	if height >= 0 {
		res += fmt.Sprintf("%d", height)
	}
	return res
}

// GetVarHandler returns the settings of the connection.
func GetVarHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	state.mutex.Lock()
	defer state.mutex.Unlock()
	res := map[string]interface{}{
		"scale":        state.scale,
		"jpeg-quality": state.jpgQuality,
		"format":       state.format,
		"grid":         gridString(state.gridWidth, state.gridHeight),
		"interp":       photomosaic.InterPString(state.interP),
	}
	return res, nil
}

// SetVarHandler sets a setting of the connection, the request must contain
// the variable name and its new value.
func SetVarHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	varName, varErr := jsonMap.GetString(VarKey)
	if varErr != nil {
		http.Error(w, varErr.Error(), http.StatusBadRequest)
		return nil, ErrAlreadyHandled
	}
	state.mutex.Lock()
	defer state.mutex.Unlock()
	var argErr error
	switch varName {
	case "scale":
		var val float64
		val, argErr = jsonMap.GetFloat(ValueKey)
		if argErr != nil {
			break
		}
		if !(val > 0) || math.IsInf(val, 1) {
			argErr = fmt.Errorf("scale must be a value > 0, got %v", val)
			break
		}
		state.scale = val
	case "jpeg-quality":
		var newQuality int
		newQuality, argErr = jsonMap.GetInt(ValueKey)
		if argErr != nil {
			break
		}
		if newQuality < 1 || newQuality > 100 {
			argErr = fmt.Errorf("jpeg-quality must be a value between 1 and 100, got %d", newQuality)
			break
		}
		state.jpgQuality = newQuality
	case "format":
		var format string
		format, argErr = jsonMap.GetString(ValueKey)
		if argErr != nil {
			break
		}
		switch format {
		case "png", "jpeg":
			state.format = format
		case "jpg":
			state.format = "jpeg"
		default:
			argErr = fmt.Errorf("format must be png or jpeg, got %s", format)
		}
	case "grid":
		var gridStr string
		gridStr, argErr = jsonMap.GetString(ValueKey)
		if argErr != nil {
			break
		}
		width, height, parseErr := photomosaic.ParseDimensionsEmpty(gridStr)
		if parseErr != nil {
			argErr = parseErr
			break
		}
		if width == 0 || height == 0 {
			argErr = fmt.Errorf("grid dimensions must be positive, got %s", gridStr)
			break
		}
		state.gridWidth, state.gridHeight = width, height
	case "interp":
		var interpName string
		interpName, argErr = jsonMap.GetString(ValueKey)
		if argErr != nil {
			break
		}
		interP, interPParseErr := photomosaic.InterPFromString(interpName)
		if interPParseErr != nil {
			argErr = interPParseErr
			break
		}
		state.interP = interP
	default:
		http.Error(w, fmt.Sprintf("Invalid variable name %s", varName), http.StatusBadRequest)
		return nil, ErrAlreadyHandled
	}
	if argErr != nil {
		http.Error(w, argErr.Error(), http.StatusBadRequest)
		return nil, ErrAlreadyHandled
	}
	res := map[string]bool{"success": true}
	return res, nil
}

// isClientError returns true if the error was caused by invalid input.
func isClientError(err error) bool {
	return errors.Is(err, photomosaic.ErrNotImage) ||
		errors.Is(err, photomosaic.ErrPhotoTooLarge) ||
		errors.Is(err, photomosaic.ErrInvalidGridDimension) ||
		errors.Is(err, photomosaic.ErrInvalidScale)
}

// MosaicHandler creates a mosaic from the base64 encoded image in the request.
// The response contains the base64 encoded mosaic in the format of the
// connection.
func MosaicHandler(state *State, context *Context, w http.ResponseWriter, jsonMap JSONMap) (interface{}, error) {
	if context.Palette == nil {
		http.Error(w, "No palette loaded", http.StatusServiceUnavailable)
		return nil, ErrAlreadyHandled
	}
	encoded, imgKeyErr := jsonMap.GetString(ImageKey)
	if imgKeyErr != nil {
		http.Error(w, imgKeyErr.Error(), http.StatusBadRequest)
		return nil, ErrAlreadyHandled
	}
	target, decodeErr := DecodeBase64(encoded)
	if decodeErr != nil {
		http.Error(w, decodeErr.Error(), http.StatusBadRequest)
		return nil, ErrAlreadyHandled
	}

	state.mutex.Lock()
	scale, format, quality := state.scale, state.format, state.jpgQuality
	gridWidth, gridHeight, interP := state.gridWidth, state.gridHeight, state.interP
	state.mutex.Unlock()

	painter := photomosaic.NewPainter(context.Palette)
	painter.Resizer = photomosaic.NewNfntResizer(interP)
	painter.MaxPhotoSize = context.MaxPhotoSize
	painter.DefaultWidth = context.DefaultWidth
	painter.Background = context.Background
	painter.NumRoutines = context.NumRoutines

	start := time.Now()
	mosaic, mosaicErr := painter.CreatePhotomosaic(target, gridWidth, gridHeight, scale)
	if mosaicErr != nil {
		if isClientError(mosaicErr) {
			http.Error(w, mosaicErr.Error(), http.StatusBadRequest)
			return nil, ErrAlreadyHandled
		}
		return nil, mosaicErr
	}
	log.WithFields(log.Fields{
		"grid":     gridString(mosaic.GridWidth, mosaic.GridHeight),
		"duration": time.Since(start),
	}).Info("Created mosaic")
	res, encodeErr := EncodeBase64(mosaic.Image, format, quality)
	if encodeErr != nil {
		return nil, encodeErr
	}
	return map[string]interface{}{
		ImageKey: res,
		"format": format,
		"grid":   gridString(mosaic.GridWidth, mosaic.GridHeight),
		"tile":   gridString(mosaic.TileWidth, mosaic.TileHeight),
	}, nil
}

// DefaultHandlers registers all handlers on mux, if mux is nil the handlers
// are registered on http.DefaultServeMux.
func DefaultHandlers(context *Context, mux *http.ServeMux) {
	if mux == nil {
		mux = http.DefaultServeMux
	}
	mux.Handle("/init/", ToHTTPFunc(context, InitHandler))
	mux.Handle("/close/", ToHTTPFunc(context, CloseHandler))
	mux.Handle("/get/", StateHandlerToHTTPFunc(context, GetVarHandler))
	mux.Handle("/set/", StateHandlerToHTTPFunc(context, SetVarHandler))
	mux.Handle("/mosaic/", StateHandlerToHTTPFunc(context, MosaicHandler))
}
