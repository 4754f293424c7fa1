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

// Package model defines the core data structures for the application.
// This file holds the closed set of award ceremonies, the static theming
// metadata attached to each of them, and the award data document produced
// by the generative model for a given ceremony and year.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AwardType identifies one of the supported award ceremonies.
type AwardType string

const (
	Oscars        AwardType = "Oscars"
	Emmys         AwardType = "Emmys"
	GoldenGlobes  AwardType = "Golden Globes"
	CriticsChoice AwardType = "Critics Choice"
	BAFTA         AwardType = "BAFTA"
	Tonys         AwardType = "Tonys"
)

// Year bounds of the slider. 1929 is the first Academy Awards ceremony.
const (
	MinYear      = 1929
	MaxYear      = 2024
	DefaultYear  = 2024
	DefaultAward = Oscars
)

// ErrUnknownAwardType is returned by ParseAwardType for values outside the enumeration.
var ErrUnknownAwardType = errors.New("unknown award type")

// awardTypes is kept in selector display order.
var awardTypes = []AwardType{Oscars, Emmys, GoldenGlobes, CriticsChoice, BAFTA, Tonys}

// AwardTypes returns every supported award type in display order.
// The returned slice is a copy and may be modified by the caller.
func AwardTypes() []AwardType {
	out := make([]AwardType, len(awardTypes))
	copy(out, awardTypes)
	return out
}

// Slug returns the URL friendly form of the award type (e.g. "golden-globes").
func (t AwardType) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(t)), " ", "-")
}

// Valid reports whether t belongs to the enumeration.
func (t AwardType) Valid() bool {
	_, ok := awardMetadata[t]
	return ok
}

// ParseAwardType resolves a display name or slug, ignoring case.
func ParseAwardType(in string) (AwardType, error) {
	needle := strings.ToLower(strings.TrimSpace(in))
	for _, t := range awardTypes {
		if strings.ToLower(string(t)) == needle || t.Slug() == needle {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAwardType, in)
}

// AwardMeta carries the theming information used by every view of an award type.
type AwardMeta struct {
	Type           AwardType `json:"type"`
	TopCategory    string    `json:"topCategory"`    // The headline category the model is asked about.
	PrimaryColor   string    `json:"primaryColor"`   // Accent color, hex with leading '#'.
	SecondaryColor string    `json:"secondaryColor"` // Background color, hex with leading '#'.
	Icon           string    `json:"icon"`
}

var awardMetadata = map[AwardType]AwardMeta{
	Oscars: {
		Type:           Oscars,
		TopCategory:    "Best Picture",
		PrimaryColor:   "#d4af37",
		SecondaryColor: "#1a1a2e",
		Icon:           "🏆",
	},
	Emmys: {
		Type:           Emmys,
		TopCategory:    "Outstanding Drama Series",
		PrimaryColor:   "#e0aa3e",
		SecondaryColor: "#16213e",
		Icon:           "📺",
	},
	GoldenGlobes: {
		Type:           GoldenGlobes,
		TopCategory:    "Best Motion Picture - Drama",
		PrimaryColor:   "#ffd700",
		SecondaryColor: "#0f0f23",
		Icon:           "🌐",
	},
	CriticsChoice: {
		Type:           CriticsChoice,
		TopCategory:    "Best Picture",
		PrimaryColor:   "#00d4ff",
		SecondaryColor: "#1a1a2e",
		Icon:           "⭐",
	},
	BAFTA: {
		Type:           BAFTA,
		TopCategory:    "Best Film",
		PrimaryColor:   "#e85d04",
		SecondaryColor: "#1d1d1d",
		Icon:           "🎭",
	},
	Tonys: {
		Type:           Tonys,
		TopCategory:    "Best Musical",
		PrimaryColor:   "#c0c0c0",
		SecondaryColor: "#2d132c",
		Icon:           "🎪",
	},
}

// Meta returns the metadata for t. Unknown types yield the zero value.
func Meta(t AwardType) AwardMeta {
	return awardMetadata[t]
}

// AwardWinner is the winning title of the top category for a ceremony.
type AwardWinner struct {
	Title                  string `json:"title"`
	LeadCreative           string `json:"leadCreative"`           // Director, showrunner or composer depending on the ceremony.
	IconicSceneDescription string `json:"iconicSceneDescription"` // Free text used to prompt the image model.
}

// Nominee is one of the titles nominated alongside the winner.
type Nominee struct {
	Title string `json:"title"`
}

// AwardData is the complete document shown for a ceremony and year. It is
// created once per cache key and never mutated after it has been stored.
type AwardData struct {
	Winner   AwardWinner `json:"winner"`
	Nominees []Nominee   `json:"nominees"`
	ImageURL string      `json:"imageUrl,omitempty"` // Data URI of the generated diorama or a placeholder URL.
}

// CacheKey builds the composite key under which the data for a ceremony is cached.
func CacheKey(t AwardType, year int) string {
	return string(t) + "-" + strconv.Itoa(year)
}

// YearInRange reports whether year lies within the supported slider bounds.
func YearInRange(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// AwardRequest identifies the ceremony and year a fetch is made for.
type AwardRequest struct {
	Type AwardType
	Year int
}

// CacheKey returns the cache key of the request.
func (r AwardRequest) CacheKey() string {
	return CacheKey(r.Type, r.Year)
}
