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

package cloud_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	model  string
	config *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}}},
	}
}

func TestStripCodeFences(t *testing.T) {
	plain := `{"winner":{"title":"Rocky"},"nominees":[{"title":"Network"}]}`
	fenced := "```json\n" + plain + "\n```"
	bare := "```\n" + plain + "\n```\n"

	assert.Equal(t, plain, cloud.StripCodeFences(fenced))
	assert.Equal(t, plain, cloud.StripCodeFences(bare))
	assert.Equal(t, plain, cloud.StripCodeFences("  "+plain+"\n"))

	var a, b model.AwardData
	require.NoError(t, json.Unmarshal([]byte(cloud.StripCodeFences(fenced)), &a))
	require.NoError(t, json.Unmarshal([]byte(plain), &b))
	assert.Equal(t, b, a)
}

func TestResponseTextSkipsThoughts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
			{Text: "thinking...", Thought: true},
			{Text: "{\"a\":"},
			{Text: "1}"},
		}}}},
	}
	assert.Equal(t, "{\"a\":1}", cloud.ResponseText(resp))
	assert.Equal(t, "", cloud.ResponseText(nil))
	assert.Equal(t, "", cloud.ResponseText(&genai.GenerateContentResponse{}))
}

func TestResponseTextReadsFirstCandidateOnly(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "{\"a\":1}"}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "{\"a\":2}"}}}},
		},
	}
	assert.Equal(t, "{\"a\":1}", cloud.ResponseText(resp))
}

func TestFirstImagePartAndDataURI(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
			{Text: "here is your figurine"},
			{InlineData: &genai.Blob{MIMEType: "application/octet-stream", Data: []byte{1}}},
			{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("png")}},
			{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("jpg")}},
		}}}},
	}
	blob := cloud.FirstImagePart(resp)
	require.NotNil(t, blob)
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.Equal(t, "data:image/png;base64,cG5n", cloud.DataURI(blob))

	assert.Nil(t, cloud.FirstImagePart(textResponse("no image")))
	assert.Nil(t, cloud.FirstImagePart(&genai.GenerateContentResponse{}))
	assert.Nil(t, cloud.FirstImagePart(nil))
}

func TestGenerateTextUsesModelSettings(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("```json\n{}\n```")}
	m := cloud.NewGenerativeAIModel(cloud.NewGenerateContentConfig(cloud.GenerativeModel{Temperature: 0.5}), "gemini-2.5-flash", gen)

	out, err := cloud.GenerateText(context.Background(), m, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, "gemini-2.5-flash", gen.model)
	require.NotNil(t, gen.config.Temperature)
	assert.Equal(t, float32(0.5), *gen.config.Temperature)
	assert.Nil(t, gen.config.TopK)
	assert.Nil(t, gen.config.SystemInstruction)
}

func TestGenerateTextPropagatesError(t *testing.T) {
	boom := errors.New("unavailable")
	m := cloud.NewGenerativeAIModel(&genai.GenerateContentConfig{}, "m", &fakeGenerator{err: boom})
	_, err := cloud.GenerateText(context.Background(), m, "prompt")
	assert.ErrorIs(t, err, boom)
}

func TestLoadConfigOverridesBaseWithRuntime(t *testing.T) {
	dir := t.TempDir()
	base := `
[application]
name = "base"
backend = "gemini"

[server]
addr = ":9000"

[agent_models.award-facts]
model = "base-model"
temperature = 0.5
`
	override := `
[server]
addr = ":9100"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.unit.toml"), []byte(override), 0o600))
	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "unit")

	config := cloud.NewConfig()
	require.NoError(t, cloud.LoadConfig(config))

	assert.Equal(t, "base", config.Application.Name)
	assert.Equal(t, ":9100", config.Server.Addr)
	assert.Equal(t, "base-model", config.AgentModels[cloud.AwardFactsModel].Model)
	// Defaults survive for sections the files do not mention.
	assert.Equal(t, "gemini-3-pro-image-preview", config.AgentModels[cloud.FigurineModel].Model)
	assert.Equal(t, float32(0.8), config.AgentModels[cloud.FigurineModel].Temperature)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte("[application\nname="), 0o600))
	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "unit")

	assert.Error(t, cloud.LoadConfig(cloud.NewConfig()))
}

func TestResolveAPIKey(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("CHRONICLE_TEST_KEY=from-file\n"), 0o600))

	config := cloud.NewConfig()
	config.Application.APIKeyEnv = "CHRONICLE_TEST_KEY"
	config.Application.DotEnvFile = dotenv

	t.Setenv("CHRONICLE_TEST_KEY", "from-env")
	key, err := cloud.ResolveAPIKey(config)
	require.NoError(t, err)
	assert.Equal(t, "from-env", key, "process environment wins over the dotenv file")

	config.Application.APIKeyEnv = "CHRONICLE_MISSING_KEY"
	config.Application.DotEnvFile = ""
	_, err = cloud.ResolveAPIKey(config)
	assert.ErrorIs(t, err, cloud.ErrMissingAPIKey)

	config.Application.Backend = cloud.BackendVertex
	_, err = cloud.ResolveAPIKey(config)
	assert.NoError(t, err)
}

func TestNewEventMessage(t *testing.T) {
	msg, err := cloud.NewEventMessage(model.AwardFetched{AwardType: model.GoldenGlobes, Year: 1999, CacheKey: "Golden Globes-1999"})
	require.NoError(t, err)
	assert.Equal(t, "golden-globes", msg.Attributes["award_type"])
	assert.Equal(t, "1999", msg.Attributes["year"])

	var decoded model.AwardFetched
	require.NoError(t, json.Unmarshal(msg.Data, &decoded))
	assert.Equal(t, "Golden Globes-1999", decoded.CacheKey)
}

func TestNewAgentModelsAndClientConfig(t *testing.T) {
	config := cloud.NewConfig()
	models := cloud.NewAgentModels(config, &fakeGenerator{})
	require.Contains(t, models, cloud.AwardFactsModel)
	require.Contains(t, models, cloud.FigurineModel)
	assert.Equal(t, []string{"TEXT", "IMAGE"}, models[cloud.FigurineModel].GenerativeContentConfig.ResponseModalities)

	cc := cloud.NewGenAIClientConfig(config, "k")
	assert.Equal(t, genai.BackendGeminiAPI, cc.Backend)
	assert.Equal(t, "k", cc.APIKey)

	config.Application.Backend = cloud.BackendVertex
	config.Application.GoogleProjectId = "p"
	cc = cloud.NewGenAIClientConfig(config, "ignored")
	assert.Equal(t, genai.BackendVertexAI, cc.Backend)
	assert.Empty(t, cc.APIKey)
}
