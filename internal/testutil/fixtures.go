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

package test

// TestPNG is a 1x1 transparent PNG.
var TestPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x60, 0x00, 0x02, 0x00,
	0x00, 0x05, 0x00, 0x01, 0xe9, 0xfa, 0xdc, 0xd8, 0x00, 0x00, 0x00, 0x00,
	0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// GetTestAwardJSON returns a well formed answer of the award facts model for
// the 1977 Oscars.
func GetTestAwardJSON() string {
	return `{
  "winner": {
    "title": "Rocky",
    "leadCreative": "John G. Avildsen",
    "iconicSceneDescription": "A boxer in a grey sweatsuit raises both fists at the top of a long stone staircase at dawn, the city skyline glowing behind him."
  },
  "nominees": [
    { "title": "All the President's Men" },
    { "title": "Bound for Glory" },
    { "title": "Network" },
    { "title": "Taxi Driver" }
  ]
}`
}

// GetTestFencedAwardJSON wraps GetTestAwardJSON in a Markdown code fence.
func GetTestFencedAwardJSON() string {
	return "```json\n" + GetTestAwardJSON() + "\n```"
}
