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

package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"text/template"

	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/commands"
	"github.com/jaycherian/claymotion-chronicle/internal/core/cor"
	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	test "github.com/jaycherian/claymotion-chronicle/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const (
	textModel  = "text-model"
	imageModel = "image-model"
)

func newContext(key string, value interface{}) cor.Context {
	c := cor.NewBaseContext()
	c.SetContext(context.Background())
	c.Add(key, value)
	return c
}

func newModel(name string, gen cloud.ContentGenerator) *cloud.GenerativeAIModel {
	return cloud.NewGenerativeAIModel(&genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.5)}, name, gen)
}

func TestAwardPromptBuilder(t *testing.T) {
	tmpl := template.Must(template.New("award").Parse("{{.TYPE}}|{{.YEAR}}|{{.TOP_CATEGORY}}|{{.EXAMPLE_JSON}}"))
	cmd := commands.NewAwardPromptBuilder("award-prompt", tmpl)

	c := newContext(commands.AwardRequestParam, &model.AwardRequest{Type: model.Tonys, Year: 1976})
	require.True(t, cmd.IsExecutable(c))
	cmd.Execute(c)

	require.False(t, c.HasErrors())
	prompt := c.Get(cor.CtxOut).(string)
	parts := strings.SplitN(prompt, "|", 4)
	require.Len(t, parts, 4)
	assert.Equal(t, "Tonys", parts[0])
	assert.Equal(t, "1976", parts[1])
	assert.Equal(t, "Best Musical", parts[2])
	assert.Contains(t, parts[3], "\"iconicSceneDescription\"")
	assert.Contains(t, parts[3], "Titanic")
}

func TestAwardPromptBuilderWithoutRequest(t *testing.T) {
	tmpl := template.Must(template.New("award").Parse("x"))
	cmd := commands.NewAwardPromptBuilder("award-prompt", tmpl)
	assert.False(t, cmd.IsExecutable(newContext(cor.CtxIn, "unrelated")))
}

func TestAwardFactsGeneratorStripsFences(t *testing.T) {
	gen := test.NewFakeGenerator().On(textModel, test.TextResponse(test.GetTestFencedAwardJSON()), nil)
	cmd := commands.NewAwardFactsGenerator("generate-award-facts", newModel(textModel, gen))

	c := newContext(cor.CtxIn, "prompt text")
	cmd.Execute(c)

	require.False(t, c.HasErrors())
	assert.Equal(t, test.GetTestAwardJSON(), c.Get(cor.CtxOut))
	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "prompt text", calls[0].Prompt)
	assert.Equal(t, float32(0.5), calls[0].Temperature)
}

func TestAwardFactsGeneratorFailures(t *testing.T) {
	boom := errors.New("quota exceeded")
	gen := test.NewFakeGenerator().On(textModel, nil, boom)
	cmd := commands.NewAwardFactsGenerator("generate-award-facts", newModel(textModel, gen))

	c := newContext(cor.CtxIn, "prompt")
	cmd.Execute(c)
	require.True(t, c.HasErrors())
	assert.ErrorIs(t, c.GetErrors()["generate-award-facts"], boom)
	assert.Nil(t, c.Get(cor.CtxOut))

	gen.On(textModel, test.TextResponse("  "), nil)
	c = newContext(cor.CtxIn, "prompt")
	cmd.Execute(c)
	assert.True(t, c.HasErrors())
}

func TestAwardJsonToStruct(t *testing.T) {
	cmd := commands.NewAwardJsonToStruct("convert-award-facts")

	c := newContext(cor.CtxIn, test.GetTestAwardJSON())
	cmd.Execute(c)

	require.False(t, c.HasErrors())
	data := c.Get(cor.CtxOut).(*model.AwardData)
	assert.Equal(t, "Rocky", data.Winner.Title)
	assert.Equal(t, "John G. Avildsen", data.Winner.LeadCreative)
	assert.Len(t, data.Nominees, 4)
	assert.Equal(t, "All the President's Men", data.Nominees[0].Title)
	assert.Empty(t, data.ImageURL)
}

func TestAwardJsonToStructStripsMarkup(t *testing.T) {
	in := `{"winner":{"title":"<b>Guys &amp; Dolls</b>","leadCreative":"Frank Loesser<script>alert(1)</script>","iconicSceneDescription":"Dice in a sewer"},"nominees":[{"title":"<i>Call Me Madam</i>"}],"imageUrl":"javascript:alert(1)"}`
	cmd := commands.NewAwardJsonToStruct("convert-award-facts")

	c := newContext(cor.CtxIn, in)
	cmd.Execute(c)

	require.False(t, c.HasErrors())
	data := c.Get(cor.CtxOut).(*model.AwardData)
	assert.Equal(t, "Guys & Dolls", data.Winner.Title)
	assert.Equal(t, "Frank Loesser", data.Winner.LeadCreative)
	assert.Equal(t, "Call Me Madam", data.Nominees[0].Title)
	assert.Empty(t, data.ImageURL)
}

func TestAwardJsonToStructRejectsBadInput(t *testing.T) {
	cmd := commands.NewAwardJsonToStruct("convert-award-facts")

	c := newContext(cor.CtxIn, "Sorry, I cannot help with that.")
	cmd.Execute(c)
	assert.True(t, c.HasErrors())

	c = newContext(cor.CtxIn, `{"winner":{"title":""},"nominees":[]}`)
	cmd.Execute(c)
	require.True(t, c.HasErrors())
	assert.ErrorIs(t, c.GetErrors()["convert-award-facts"], commands.ErrMissingWinner)
}

func figurineContext(data *model.AwardData, awardType model.AwardType) cor.Context {
	c := newContext(cor.CtxIn, data)
	c.Add(commands.AwardRequestParam, &model.AwardRequest{Type: awardType, Year: 1977})
	return c
}

func TestFigurineImageGeneratorUsesInlineImage(t *testing.T) {
	gen := test.NewFakeGenerator().On(imageModel, test.ImageResponse("image/png", []byte("png")), nil)
	tmpl := template.Must(template.New("figurine").Parse("Scene to depict: {{.SCENE_DESCRIPTION}}"))
	cmd := commands.NewFigurineImageGenerator("generate-figurine-image", newModel(imageModel, gen), tmpl)

	data := &model.AwardData{Winner: model.AwardWinner{Title: "Rocky", IconicSceneDescription: "Steps at dawn"}}
	c := figurineContext(data, model.Oscars)
	cmd.Execute(c)

	require.False(t, c.HasErrors())
	assert.Empty(t, c.GetWarnings())
	assert.Equal(t, "data:image/png;base64,cG5n", data.ImageURL)
	assert.Same(t, data, c.Get(cor.CtxOut))
	assert.Equal(t, "Scene to depict: Steps at dawn", gen.Calls()[0].Prompt)
}

func TestFigurineImageGeneratorFallsBackToPlaceholder(t *testing.T) {
	tmpl := template.Must(template.New("figurine").Parse("{{.SCENE_DESCRIPTION}}"))
	description := "A boxer raises both fists at the top of a staircase."
	want := commands.PlaceholderImageURL(description, model.BAFTA)

	cases := map[string]*test.FakeGenerator{
		"call error":     test.NewFakeGenerator().On(imageModel, nil, errors.New("model not found")),
		"text only":      test.NewFakeGenerator().On(imageModel, test.TextResponse("I can only describe it."), nil),
		"non image mime": test.NewFakeGenerator().On(imageModel, test.ImageResponse("application/pdf", []byte("%PDF")), nil),
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := commands.NewFigurineImageGenerator("generate-figurine-image", newModel(imageModel, gen), tmpl)
			data := &model.AwardData{Winner: model.AwardWinner{Title: "Rocky", IconicSceneDescription: description}}
			c := figurineContext(data, model.BAFTA)
			cmd.Execute(c)

			assert.False(t, c.HasErrors())
			assert.Contains(t, c.GetWarnings(), "generate-figurine-image")
			assert.Equal(t, want, data.ImageURL)
		})
	}
}

func TestPlaceholderImageURL(t *testing.T) {
	got := commands.PlaceholderImageURL("A boxer raises both fists at the top of a staircase.", model.Oscars)
	assert.Equal(t,
		"https://placehold.co/600x800/1a1a2e/d4af37?text=A%20boxer%20raises%20both%20fists%20at%20t...&font=playfair-display",
		got)

	short := commands.PlaceholderImageURL("Tiny", model.Tonys)
	assert.Equal(t, "https://placehold.co/600x800/2d132c/c0c0c0?text=Tiny...&font=playfair-display", short)
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "Guys%20%26%20Dolls!%20(1951)%20*it's*%20~%2B", commands.EncodeURIComponent("Guys & Dolls! (1951) *it's* ~+"))
	assert.Equal(t, "caf%C3%A9%2Fbar%3F", commands.EncodeURIComponent("café/bar?"))
}
