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
	"fmt"
	"strconv"
	"sync"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
)

const (
	tiltDamping = 20
	tiltScale   = 1.02
)

// Box is an element's bounding rectangle in client coordinates.
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Point is a pointer or touch position in client coordinates.
type Point struct {
	X float64
	Y float64
}

// Sheen is the highlight position, in percent of the card bounds.
type Sheen struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TiltState is the 3D transform applied to a card.
type TiltState struct {
	RotateX float64 `json:"rotateX"`
	RotateY float64 `json:"rotateY"`
	Scale   float64 `json:"scale"`
	Sheen   Sheen   `json:"sheen"`
}

// NeutralTilt is the resting state of a card.
func NeutralTilt() TiltState {
	return TiltState{Scale: 1, Sheen: Sheen{X: 50, Y: 0}}
}

// Tilt computes the transform for a pointer at (clientX, clientY) over box.
// The card leans towards the pointer, proportionally to its offset from the center.
func Tilt(box Box, clientX, clientY float64) TiltState {
	if box.Width <= 0 || box.Height <= 0 {
		return NeutralTilt()
	}
	x := clientX - box.Left
	y := clientY - box.Top
	centerX := box.Width / 2
	centerY := box.Height / 2

	return TiltState{
		RotateX: -(y - centerY) / tiltDamping,
		RotateY: (x - centerX) / tiltDamping,
		Scale:   tiltScale,
		Sheen:   Sheen{X: x / box.Width * 100, Y: y / box.Height * 100},
	}
}

// TiltTouch tilts for a single touch point. Multi touch gestures are ignored.
func TiltTouch(box Box, touches []Point) (TiltState, bool) {
	if len(touches) != 1 {
		return TiltState{}, false
	}
	return Tilt(box, touches[0].X, touches[0].Y), true
}

func cssNumber(v float64) string {
	// -0 prints as "-0".
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Transform renders the CSS transform value.
func (t TiltState) Transform() string {
	return fmt.Sprintf("rotateX(%sdeg) rotateY(%sdeg) scale(%s)", cssNumber(t.RotateX), cssNumber(t.RotateY), cssNumber(t.Scale))
}

// CreativeLabel names the lead creative role for awardType.
func CreativeLabel(awardType model.AwardType) string {
	switch awardType {
	case model.Tonys:
		return "Created by"
	case model.Emmys:
		return "Showrunner"
	default:
		return "Directed by"
	}
}

// Card is the winner card. Its tilt and image flag change with pointer and
// image events and are safe to update concurrently.
type Card struct {
	Title     string
	Creative  string
	Year      int
	AwardType model.AwardType
	Src       string

	mu          sync.Mutex
	tilt        TiltState
	imageLoaded bool
}

// NewCard builds the card for the winner of data.
func NewCard(data *model.AwardData, year int, awardType model.AwardType) *Card {
	return &Card{
		Title:     data.Winner.Title,
		Creative:  data.Winner.LeadCreative,
		Year:      year,
		AwardType: awardType,
		Src:       data.ImageURL,
		tilt:      NeutralTilt(),
	}
}

func (c *Card) Meta() model.AwardMeta {
	return model.Meta(c.AwardType)
}

func (c *Card) CreativeLabel() string {
	return CreativeLabel(c.AwardType)
}

// Tilt returns the current transform.
func (c *Card) Tilt() TiltState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tilt
}

func (c *Card) PointerMove(box Box, clientX, clientY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tilt = Tilt(box, clientX, clientY)
}

func (c *Card) TouchMove(box Box, touches []Point) {
	if t, ok := TiltTouch(box, touches); ok {
		c.mu.Lock()
		c.tilt = t
		c.mu.Unlock()
	}
}

// PointerLeave resets the card to NeutralTilt.
func (c *Card) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tilt = NeutralTilt()
}

func (c *Card) ImageLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.imageLoaded
}

func (c *Card) OnImageLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageLoaded = true
}

func (c *Card) OnImageError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageLoaded = false
}
