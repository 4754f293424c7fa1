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

package model

import "time"

// AwardFetched is published after award data has been generated and cached.
// Cache hits do not produce an event.
type AwardFetched struct {
	AwardType      AwardType `json:"awardType"`
	Year           int       `json:"year"`
	CacheKey       string    `json:"cacheKey"`
	WinnerTitle    string    `json:"winnerTitle"`
	NomineeCount   int       `json:"nomineeCount"`
	GeneratedImage bool      `json:"generatedImage"` // False when the placeholder image was used.
	FetchedAt      time.Time `json:"fetchedAt"`
}
