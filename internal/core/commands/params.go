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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface used by the award fetch.
//
// The award fetch is a four step pipeline:
//  1. AwardPromptBuilder renders the text prompt for a ceremony and year.
//  2. AwardFactsGenerator sends it to the text model and strips Markdown fences.
//  3. AwardJsonToStruct decodes the answer into a model.AwardData.
//  4. FigurineImageGenerator attaches a generated diorama, or a placeholder.
package commands

// Well known context keys shared by the award commands and the workflow.
const (
	// AwardRequestParam holds the *model.AwardRequest being served. It stays in
	// the context for the whole chain so later steps can read the award metadata.
	AwardRequestParam = "__award_request__"
	// AwardDataParam receives the finished *model.AwardData.
	AwardDataParam = "__award_data__"
)
