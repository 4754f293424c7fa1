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

import "github.com/jaycherian/claymotion-chronicle/internal/core/model"

// SelectorItem is one button of the award selector.
type SelectorItem struct {
	Type     model.AwardType `json:"type"`
	Slug     string          `json:"slug"`
	Color    string          `json:"color"`
	Icon     string          `json:"icon"`
	Selected bool            `json:"selected"`
}

// SelectorItems lists every award type in display order, marking selected.
func SelectorItems(selected model.AwardType) []SelectorItem {
	types := model.AwardTypes()
	out := make([]SelectorItem, 0, len(types))
	for _, t := range types {
		meta := model.Meta(t)
		out = append(out, SelectorItem{
			Type:     t,
			Slug:     t.Slug(),
			Color:    meta.PrimaryColor,
			Icon:     meta.Icon,
			Selected: t == selected,
		})
	}
	return out
}
