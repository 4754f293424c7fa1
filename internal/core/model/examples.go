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
// This file provides a populated example document. It is serialized into the
// award prompt so the model sees the exact JSON shape it must return.
package model

// GetExampleAwardData returns a fully populated AwardData for the 1998 Oscars.
// ImageURL is left empty because the model never produces it.
func GetExampleAwardData() *AwardData {
	return &AwardData{
		Winner: AwardWinner{
			Title:        "Titanic",
			LeadCreative: "James Cameron",
			IconicSceneDescription: "At the bow of a great ocean liner at sunset, a young woman stands with arms " +
				"outstretched while a young man holds her waist from behind. Golden light washes over the " +
				"railings, the sea glitters below and the wind lifts her hair.",
		},
		Nominees: []Nominee{
			{Title: "As Good as It Gets"},
			{Title: "The Full Monty"},
			{Title: "Good Will Hunting"},
			{Title: "L.A. Confidential"},
		},
	}
}
