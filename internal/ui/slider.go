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
	"sync"
	"time"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
)

// ChangeFlagDelay is how long the slider stays in its changing state.
const ChangeFlagDelay = 150 * time.Millisecond

var quickJumpDecades = []int{1980, 1990, 2000, 2010, 2020}

// QuickJumpDecades returns the decades offered as shortcut buttons.
func QuickJumpDecades() []int {
	out := make([]int, len(quickJumpDecades))
	copy(out, quickJumpDecades)
	return out
}

// YearSlider holds the slider position and bounds. Methods never modify it;
// the ones that move the slider return the year to emit instead.
type YearSlider struct {
	Year int
	Min  int
	Max  int
}

// NewYearSlider returns a slider over the supported award years.
func NewYearSlider(year int) YearSlider {
	return YearSlider{Year: year, Min: model.MinYear, Max: model.MaxYear}
}

// ProgressPercent is the position of Year between Min and Max, from 0 to 100.
func (s YearSlider) ProgressPercent() float64 {
	return float64(s.Year-s.Min) / float64(s.Max-s.Min) * 100
}

func (s YearSlider) EraHue() int {
	return EraHue(s.Year)
}

func (s YearSlider) EraName() string {
	return EraName(s.Year)
}

// DecadeMarkers lists every decade start from the first one at or after Min up to Max.
func (s YearSlider) DecadeMarkers() []int {
	start := s.Min
	if r := start % 10; r != 0 {
		start += 10 - r
	}
	var markers []int
	for year := start; year <= s.Max; year += 10 {
		markers = append(markers, year)
	}
	return markers
}

// MarkerPosition is the position of decade along the track, in percent.
func (s YearSlider) MarkerPosition(decade int) float64 {
	return float64(decade-s.Min) / float64(s.Max-s.Min) * 100
}

// IsInDecade reports whether Year falls in [decade, decade+10).
func (s YearSlider) IsInDecade(decade int) bool {
	return s.Year >= decade && s.Year < decade+10
}

// Increment returns the next year and true, or false when already at Max.
func (s YearSlider) Increment() (int, bool) {
	if s.Year < s.Max {
		return s.Year + 1, true
	}
	return s.Year, false
}

// Decrement returns the previous year and true, or false when already at Min.
func (s YearSlider) Decrement() (int, bool) {
	if s.Year > s.Min {
		return s.Year - 1, true
	}
	return s.Year, false
}

// JumpToDecade always emits the decade, even when it is the current year.
func (s YearSlider) JumpToDecade(decade int) int {
	return decade
}

// Marker is a decade tick on the slider track.
type Marker struct {
	Decade   int     `json:"decade"`
	Position float64 `json:"position"`
	Active   bool    `json:"active"`
}

// SliderView is the serializable form of a slider.
type SliderView struct {
	Year             int      `json:"year"`
	Min              int      `json:"min"`
	Max              int      `json:"max"`
	ProgressPercent  float64  `json:"progressPercent"`
	EraHue           int      `json:"eraHue"`
	EraName          string   `json:"eraName"`
	Markers          []Marker `json:"markers"`
	QuickJumpDecades []int    `json:"quickJumpDecades"`
	CanIncrement     bool     `json:"canIncrement"`
	CanDecrement     bool     `json:"canDecrement"`
}

// View computes every derived value of the slider.
func (s YearSlider) View() SliderView {
	decades := s.DecadeMarkers()
	markers := make([]Marker, 0, len(decades))
	for _, d := range decades {
		markers = append(markers, Marker{Decade: d, Position: s.MarkerPosition(d), Active: s.IsInDecade(d)})
	}
	_, canIncrement := s.Increment()
	_, canDecrement := s.Decrement()
	return SliderView{
		Year:             s.Year,
		Min:              s.Min,
		Max:              s.Max,
		ProgressPercent:  s.ProgressPercent(),
		EraHue:           s.EraHue(),
		EraName:          s.EraName(),
		Markers:          markers,
		QuickJumpDecades: QuickJumpDecades(),
		CanIncrement:     canIncrement,
		CanDecrement:     canDecrement,
	}
}

// ChangeFlag is a boolean that clears itself a fixed delay after the last Set.
type ChangeFlag struct {
	mu      sync.Mutex
	delay   time.Duration
	set     bool
	timer   *time.Timer
	onClear func()
}

// NewChangeFlag returns a cleared flag. onClear, if not nil, runs after every
// automatic clear, outside the flag's lock.
func NewChangeFlag(delay time.Duration, onClear func()) *ChangeFlag {
	return &ChangeFlag{delay: delay, onClear: onClear}
}

// Set raises the flag and restarts the clear timer.
func (f *ChangeFlag) Set() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set = true
	if f.timer != nil {
		f.timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(f.delay, func() {
		f.mu.Lock()
		if f.timer != timer {
			f.mu.Unlock()
			return
		}
		f.set = false
		f.timer = nil
		f.mu.Unlock()
		if f.onClear != nil {
			f.onClear()
		}
	})
	f.timer = timer
}

// IsSet reports whether the flag is raised.
func (f *ChangeFlag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set
}

// Stop cancels a pending clear and lowers the flag.
func (f *ChangeFlag) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.set = false
}
