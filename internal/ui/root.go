// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ui

import (
	"context"
	"sync"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"github.com/jaycherian/claymotion-chronicle/internal/core/services"
)

// Phase is the lifecycle position of the selected award data.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseLoaded  Phase = "loaded"
)

// State is what observers of a Root receive.
type State struct {
	Phase      Phase            `json:"phase"`
	Year       int              `json:"year"`
	Award      model.AwardType  `json:"award"`
	Data       *model.AwardData `json:"data,omitempty"`
	Error      string           `json:"error,omitempty"`
	Generation uint64           `json:"generation"`
}

// Colors is the theme of the selected award.
type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Root owns the selection and the award data loaded for it. Every change of
// year or award starts a new fetch; results of superseded fetches are dropped
// so observers only ever see the data for the current selection.
type Root struct {
	ctx            context.Context
	fetcher        services.AwardFetcher
	loadingMessage string

	mu          sync.Mutex
	year        int
	award       model.AwardType
	generation  uint64
	state       State
	subscribers map[int]func(State)
	nextID      int

	notifyMu      sync.Mutex
	lastPublished uint64

	inflight sync.WaitGroup
}

// NewRoot selects model.DefaultYear and model.DefaultAward and starts loading.
// ctx bounds every fetch the root issues; once it is done, results are no
// longer published.
func NewRoot(ctx context.Context, fetcher services.AwardFetcher) *Root {
	return NewRootWithSelection(ctx, fetcher, model.DefaultYear, model.DefaultAward)
}

// NewRootWithSelection starts with the given selection.
func NewRootWithSelection(ctx context.Context, fetcher services.AwardFetcher, year int, award model.AwardType) *Root {
	r := &Root{
		ctx:            ctx,
		fetcher:        fetcher,
		loadingMessage: RandomLoadingMessage(),
		year:           year,
		award:          award,
		subscribers:    make(map[int]func(State)),
	}
	r.load()
	return r
}

// Subscribe registers fn and calls it at once with the current state. fn is
// called from the goroutine that produced the state and must not call back
// into the Root. The returned function unregisters fn.
func (r *Root) Subscribe(fn func(State)) (unsubscribe func()) {
	r.notifyMu.Lock()
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subscribers[id] = fn
	current := r.state
	r.mu.Unlock()
	fn(current)
	r.notifyMu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers, id)
	}
}

// SetYear changes the selected year. Setting the current year does nothing.
func (r *Root) SetYear(year int) {
	r.mu.Lock()
	if r.year == year {
		r.mu.Unlock()
		return
	}
	r.year = year
	r.mu.Unlock()
	r.load()
}

// SetAward changes the selected award. Setting the current award does nothing.
func (r *Root) SetAward(award model.AwardType) {
	r.mu.Lock()
	if r.award == award {
		r.mu.Unlock()
		return
	}
	r.award = award
	r.mu.Unlock()
	r.load()
}

// Retry fetches the current selection again.
func (r *Root) Retry() {
	r.load()
}

// State returns the latest state.
func (r *Root) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Root) Year() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.year
}

func (r *Root) Award() model.AwardType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.award
}

func (r *Root) AwardColors() Colors {
	meta := model.Meta(r.Award())
	return Colors{Primary: meta.PrimaryColor, Secondary: meta.SecondaryColor}
}

func (r *Root) AwardIcon() string {
	return model.Meta(r.Award()).Icon
}

func (r *Root) EraHue() int {
	return EraHue(r.Year())
}

// LoadingMessage is picked once per Root.
func (r *Root) LoadingMessage() string {
	return r.loadingMessage
}

// Wait blocks until every fetch started so far has returned.
func (r *Root) Wait() {
	r.inflight.Wait()
}

func (r *Root) load() {
	r.mu.Lock()
	r.generation++
	generation := r.generation
	year, award := r.year, r.award
	loading := State{Phase: PhaseLoading, Year: year, Award: award, Generation: generation}
	r.state = loading
	r.mu.Unlock()
	r.publish(loading)

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		data, err := r.fetcher.FetchAwardData(r.ctx, year, award)
		if r.ctx.Err() != nil {
			return
		}

		next := State{Phase: PhaseLoaded, Year: year, Award: award, Data: data, Generation: generation}
		if err != nil {
			next = State{Phase: PhaseError, Year: year, Award: award, Error: ErrorMessage(err), Generation: generation}
		}

		r.mu.Lock()
		if r.generation != generation {
			r.mu.Unlock()
			return
		}
		r.state = next
		r.mu.Unlock()
		r.publish(next)
	}()
}

// publish delivers s unless a newer state has been produced meanwhile.
// Deliveries are serialized so observers see generations in order.
func (r *Root) publish(s State) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()
	if s.Generation < r.lastPublished {
		return
	}

	r.mu.Lock()
	if s.Generation != r.generation {
		r.mu.Unlock()
		return
	}
	r.lastPublished = s.Generation
	subscribers := make([]func(State), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subscribers = append(subscribers, fn)
	}
	r.mu.Unlock()

	for _, fn := range subscribers {
		fn(s)
	}
}
