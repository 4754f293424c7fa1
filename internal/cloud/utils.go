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

// Package cloud provides components for interacting with Google Cloud services.
// This file contains the helpers shared by the configuration loader and the
// commands that talk to Gemini.
//
// Functions:
//   - LoadConfig: Hierarchical TOML loading (.env.toml, then .env.<runtime>.toml).
//   - ResolveAPIKey: Reads the Gemini API key, optionally from a dotenv file.
//   - GenerateText: One text generation call with Markdown fences removed.
//   - ResponseText, StripCodeFences, FirstImagePart, DataURI: response helpers.
package cloud

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test", "prod").
)

// ErrMissingAPIKey is returned by ResolveAPIKey when the Gemini backend is
// selected and no key is present in the environment.
var ErrMissingAPIKey = errors.New("gemini api key is not set")

// fenceMarkers matches the Markdown code fence markers models like to wrap JSON in.
var fenceMarkers = regexp.MustCompile("```(?:json)?\\n?")

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig decodes the base configuration file and then the runtime specific
// file over it. Missing files are skipped; malformed files are an error.
// The directory comes from GCP_CONFIG_PREFIX and the runtime from GCP_RUNTIME
// (default "test").
func LoadConfig(baseConfig interface{}) error {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	for _, name := range []string{baseConfigFileName, envConfigFileName} {
		if !fileExists(name) {
			slog.Debug("configuration file not found, skipping", "file", name)
			continue
		}
		if _, err := toml.DecodeFile(name, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", name, err)
		}
		slog.Info("loaded configuration file", "file", name)
	}
	return nil
}

// ResolveAPIKey returns the Gemini API key named by Application.APIKeyEnv.
// Variables already set in the process environment take precedence over the
// dotenv file. The Vertex backend authenticates with ADC and needs no key.
func ResolveAPIKey(config *Config) (string, error) {
	if config.Application.DotEnvFile != "" && fileExists(config.Application.DotEnvFile) {
		if err := godotenv.Load(config.Application.DotEnvFile); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", config.Application.DotEnvFile, err)
		}
	}
	key := os.Getenv(config.Application.APIKeyEnv)
	if key == "" && config.Application.Backend != BackendVertex {
		return "", fmt.Errorf("%w: %s", ErrMissingAPIKey, config.Application.APIKeyEnv)
	}
	return key, nil
}

// ResponseText concatenates the text parts of the first candidate, skipping
// thoughts.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// StripCodeFences removes every ```json and ``` marker (with the newline
// that follows it) and trims the result.
func StripCodeFences(in string) string {
	return strings.TrimSpace(fenceMarkers.ReplaceAllString(in, ""))
}

// GenerateText sends a single text prompt and returns the cleaned response text.
// There is no retry: a failed call is returned to the caller as is.
func GenerateText(ctx context.Context, model *GenerativeAIModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return StripCodeFences(ResponseText(resp)), nil
}

// FirstImagePart returns the first inline part of the first candidate whose
// declared MIME type is an image type, or nil.
func FirstImagePart(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		if strings.HasPrefix(part.InlineData.MIMEType, "image/") {
			return part.InlineData
		}
	}
	return nil
}

// DataURI encodes an inline blob as data:<mime>;base64,<payload>.
func DataURI(blob *genai.Blob) string {
	return fmt.Sprintf("data:%s;base64,%s", blob.MIMEType, base64.StdEncoding.EncodeToString(blob.Data))
}
