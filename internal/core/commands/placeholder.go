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

package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
)

const placeholderSnippetLength = 30

// componentUnescaper restores the characters encodeURIComponent leaves as is
// but url.QueryEscape encodes.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes in the way browsers escape a URI component.
func EncodeURIComponent(in string) string {
	return componentUnescaper.Replace(url.QueryEscape(in))
}

// PlaceholderImageURL returns the placehold.co image used when no diorama could
// be generated. It uses the award colors and the start of the scene description.
func PlaceholderImageURL(description string, awardType model.AwardType) string {
	meta := model.Meta(awardType)
	bgColor := strings.TrimPrefix(meta.SecondaryColor, "#")
	textColor := strings.TrimPrefix(meta.PrimaryColor, "#")

	snippet := []rune(description)
	if len(snippet) > placeholderSnippetLength {
		snippet = snippet[:placeholderSnippetLength]
	}
	shortDesc := EncodeURIComponent(string(snippet) + "...")

	return fmt.Sprintf("https://placehold.co/600x800/%s/%s?text=%s&font=playfair-display", bgColor, textColor, shortDesc)
}
