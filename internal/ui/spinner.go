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
	"math/rand/v2"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
)

// DefaultLoadingMessage is shown when no message is chosen.
const DefaultLoadingMessage = "Asking the jury"

var loadingMessages = []string{
	"Asking the jury",
	"Opening the envelope",
	"Consulting the archives",
	"Gathering the nominees",
	"Polishing the statuette",
}

// LoadingMessages returns every message the spinner may show.
func LoadingMessages() []string {
	out := make([]string, len(loadingMessages))
	copy(out, loadingMessages)
	return out
}

// RandomLoadingMessage picks one of LoadingMessages uniformly.
func RandomLoadingMessage() string {
	return loadingMessages[rand.IntN(len(loadingMessages))]
}

// Spinner is the loading indicator.
type Spinner struct {
	Message     string `json:"message"`
	AccentColor string `json:"accentColor"`
}

// NewSpinner builds a spinner themed for awardType. An empty message falls
// back to DefaultLoadingMessage and an unknown award type to the Oscars theme.
func NewSpinner(message string, awardType model.AwardType) Spinner {
	if message == "" {
		message = DefaultLoadingMessage
	}
	if !awardType.Valid() {
		awardType = model.DefaultAward
	}
	return Spinner{Message: message, AccentColor: model.Meta(awardType).PrimaryColor}
}
