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

// Package workflow combines commands into the pipelines run by the services.
// This file implements the award fetch: one text call for the facts and one
// image call for the diorama, in that order.
package workflow

import (
	"embed"
	"fmt"
	"text/template"

	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/commands"
	"github.com/jaycherian/claymotion-chronicle/internal/core/cor"
)

//go:embed prompts/*.tmpl
var promptFiles embed.FS

// Default prompts, used when prompt_templates leaves a template empty.
var (
	DefaultAwardPrompt    = mustReadPrompt("prompts/award.tmpl")
	DefaultFigurinePrompt = mustReadPrompt("prompts/figurine.tmpl")
)

func mustReadPrompt(name string) string {
	b, err := promptFiles.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// AwardFetchWorkflow turns a *model.AwardRequest stored under
// commands.AwardRequestParam into a *model.AwardData stored under
// commands.AwardDataParam.
type AwardFetchWorkflow struct {
	cor.BaseCommand
	factsModel       *cloud.GenerativeAIModel
	figurineModel    *cloud.GenerativeAIModel
	awardTemplate    *template.Template
	figurineTemplate *template.Template
	chain            *cor.BaseChain
}

// Execute runs the underlying chain.
func (w *AwardFetchWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// IsExecutable requires the request to be present.
func (w *AwardFetchWorkflow) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil && context.Get(commands.AwardRequestParam) != nil
}

// Commands lists the command names in execution order.
func (w *AwardFetchWorkflow) Commands() []string {
	return w.chain.Commands()
}

func (w *AwardFetchWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Render the facts prompt for the requested ceremony and year.
	out.AddCommand(commands.NewAwardPromptBuilder("award-prompt", w.awardTemplate))

	// Step 2: Ask the text model for the winner and nominees as JSON.
	out.AddCommand(commands.NewAwardFactsGenerator("generate-award-facts", w.factsModel))

	// Step 3: Decode and clean the JSON answer.
	out.AddCommand(commands.NewAwardJsonToStruct("convert-award-facts"))

	// Step 4: Attach the figurine diorama. Never fails; falls back to a placeholder.
	figurine := commands.NewFigurineImageGenerator("generate-figurine-image", w.figurineModel, w.figurineTemplate)
	figurine.OutputParamName = commands.AwardDataParam
	out.AddCommand(figurine)

	w.chain = out
}

func parsePrompt(name, configured, fallback string) (*template.Template, error) {
	source := configured
	if source == "" {
		source = fallback
	}
	t, err := template.New(name).Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid %s prompt template: %w", name, err)
	}
	return t, nil
}

// NewAwardFetchWorkflow builds the workflow from the prompt templates in
// config and the models registered as cloud.AwardFactsModel and
// cloud.FigurineModel.
func NewAwardFetchWorkflow(config *cloud.Config, agentModels map[string]*cloud.GenerativeAIModel) (*AwardFetchWorkflow, error) {
	awardTemplate, err := parsePrompt("award", config.PromptTemplates.AwardPrompt, DefaultAwardPrompt)
	if err != nil {
		return nil, err
	}
	figurineTemplate, err := parsePrompt("figurine", config.PromptTemplates.FigurinePrompt, DefaultFigurinePrompt)
	if err != nil {
		return nil, err
	}

	factsModel, ok := agentModels[cloud.AwardFactsModel]
	if !ok {
		return nil, fmt.Errorf("agent model %q is not configured", cloud.AwardFactsModel)
	}
	figurineModel, ok := agentModels[cloud.FigurineModel]
	if !ok {
		return nil, fmt.Errorf("agent model %q is not configured", cloud.FigurineModel)
	}

	w := &AwardFetchWorkflow{
		BaseCommand:      *cor.NewBaseCommand("award-fetch-workflow"),
		factsModel:       factsModel,
		figurineModel:    figurineModel,
		awardTemplate:    awardTemplate,
		figurineTemplate: figurineTemplate,
	}
	w.initializeChain()
	return w, nil
}
