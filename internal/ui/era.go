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

// Package ui derives everything the pages and the session stream display from
// the current selection: slider geometry, card tilt, theme colors and the
// loading, error and loaded states of the selected award. Nothing in this
// package performs I/O except Root, which calls the award fetcher.
package ui

// eraBand maps the years before Until to a hue and an era name.
type eraBand struct {
	Until int
	Hue   int
	Name  string
}

var eraBands = []eraBand{
	{Until: 1950, Hue: 35, Name: "Golden Age of Hollywood"},
	{Until: 1970, Hue: 45, Name: "New Hollywood Era"},
	{Until: 1980, Hue: 25, Name: "Blockbuster Revolution"},
	{Until: 1990, Hue: 280, Name: "High Concept Decade"},
	{Until: 2000, Hue: 180, Name: "Independent Renaissance"},
	{Until: 2010, Hue: 210, Name: "Digital Transition"},
	{Until: 2020, Hue: 260, Name: "Streaming Wars Begin"},
}

const (
	modernEraHue  = 45
	modernEraName = "Modern Era"
)

// EraHue returns the background hue, in degrees, for the era containing year.
func EraHue(year int) int {
	for _, band := range eraBands {
		if year < band.Until {
			return band.Hue
		}
	}
	return modernEraHue
}

// EraName returns the display name of the era containing year.
func EraName(year int) string {
	for _, band := range eraBands {
		if year < band.Until {
			return band.Name
		}
	}
	return modernEraName
}
