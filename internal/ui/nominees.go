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

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
)

// NomineesList is the collapsible list of nominees. It starts closed.
type NomineesList struct {
	Nominees  []model.Nominee
	AwardType model.AwardType
	Year      int

	mu   sync.Mutex
	open bool
}

func NewNomineesList(nominees []model.Nominee, awardType model.AwardType, year int) *NomineesList {
	return &NomineesList{Nominees: nominees, AwardType: awardType, Year: year}
}

// Toggle flips the list open or closed and returns the new state.
func (n *NomineesList) Toggle() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.open = !n.open
	return n.open
}

func (n *NomineesList) IsOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.open
}

func (n *NomineesList) AccentColor() string {
	return model.Meta(n.AwardType).PrimaryColor
}

func (n *NomineesList) Icon() string {
	return model.Meta(n.AwardType).Icon
}
