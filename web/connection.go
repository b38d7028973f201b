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
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/photomosaic/photomosaic"
	log "github.com/sirupsen/logrus"
)

// ConnectionID identifies a client, a new id is generated by the init
// handler.
type ConnectionID uuid.UUID

// GenConnectionID returns a new random connection id.
func GenConnectionID() (ConnectionID, error) {
	id, idErr := uuid.NewRandom()
	return ConnectionID(id), idErr
}

func (id ConnectionID) String() string {
	return uuid.UUID(id).String()
}

// State contains the settings of one client. All mosaics created for the
// client use these settings.
type State struct {
	mutex          *sync.Mutex
	created        time.Time
	lastConnection time.Time
	scale          float64
	jpgQuality     int
	format         string
	gridWidth      int
	gridHeight     int
	interP         resize.InterpolationFunction
}

// NewState returns a state with the default settings: png output, scale 1
// and the grid computed from the target image.
func NewState() *State {
	now := time.Now().UTC()

	return &State{
		mutex:          new(sync.Mutex),
		created:        now,
		lastConnection: now,
		scale:          1.0,
		jpgQuality:     100,
		format:         "png",
		gridWidth:      photomosaic.NoDimension,
		gridHeight:     photomosaic.NoDimension,
		interP:         resize.Bilinear,
	}
}

// Touch sets the time of the last connection to now.
func (s *State) Touch(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lastConnection = now
}

// Expired returns true if the last connection is at least maxAge ago.
func (s *State) Expired(now time.Time, maxAge time.Duration) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	age := now.Sub(s.lastConnection)
	return age >= maxAge
}

var (
	// ErrConnNotFound is returned by a ConnectionStorage if there is no state
	// for the connection.
	ErrConnNotFound = errors.New("Connection not found")
)

// ConnectionStorage stores the states of all clients.
type ConnectionStorage interface {
	Get(conn ConnectionID) (*State, error)
	Set(conn ConnectionID, state *State) error
	Delete(conn ConnectionID) error
	Filter(maxAge time.Duration) error
}

// MemStorage is a ConnectionStorage that keeps all states in memory.
type MemStorage struct {
	mutex   *sync.RWMutex
	connMap map[ConnectionID]*State
}

// NewMemStorage returns an empty storage.
func NewMemStorage() *MemStorage {
	m := new(sync.RWMutex)
	connMap := make(map[ConnectionID]*State, 1000)
	return &MemStorage{
		mutex:   m,
		connMap: connMap,
	}
}

func (s *MemStorage) Get(conn ConnectionID) (*State, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	state, has := s.connMap[conn]
	if has {
		return state, nil
	}
	return nil, ErrConnNotFound
}

func (s *MemStorage) Set(conn ConnectionID, state *State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.connMap[conn] = state
	return nil
}

func (s *MemStorage) Delete(conn ConnectionID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.connMap, conn)
	return nil
}

// Filter removes all expired states.
func (s *MemStorage) Filter(maxAge time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := time.Now().UTC()
	for id, state := range s.connMap {
		if state.Expired(now, maxAge) {
			delete(s.connMap, id)
		}
	}
	return nil
}

// Len returns the number of stored states.
func (s *MemStorage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.connMap)
}

// RunFilter calls storage.Filter(maxAge) every interval in a new go routine.
// Closing the returned channel stops the filtering.
func RunFilter(storage ConnectionStorage, maxAge, interval time.Duration) chan<- struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := storage.Filter(maxAge); err != nil {
					log.WithError(err).Error("Can't remove expired connections")
				}
			}
		}
	}()
	return done
}
