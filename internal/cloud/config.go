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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients used to reach Google services.
//
// Structs:
//   - Application: Identity of the deployment and how to reach the Gemini backend.
//   - Server: HTTP listener settings and the inbound API rate limit.
//   - Telemetry: Whether traces and metrics are exported to Google Cloud.
//   - PromptTemplates: Text templates for the award and figurine prompts.
//   - GenerativeModel: Configuration for one Gemini model.
//   - Events: Pub/Sub topic receiving award fetch events.
//   - Config: The top-level struct that aggregates all other configuration structs.
package cloud

import (
	"time"

	"google.golang.org/genai"
)

// Logical names of the models in Config.AgentModels.
const (
	AwardFactsModel = "award-facts"
	FigurineModel   = "figurine-diorama"
)

// Supported values of Application.Backend.
const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// DefaultSafetySettings leaves every harm category unblocked. Award scenes
// routinely describe violence and peril that the default thresholds reject.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Application holds general application settings.
type Application struct {
	Name            string `toml:"name"`              // Service name reported to telemetry.
	GoogleProjectId string `toml:"google_project_id"` // Required for the Vertex backend, Pub/Sub and exporters.
	GoogleLocation  string `toml:"location"`          // Vertex AI region.
	Backend         string `toml:"backend"`           // "gemini" (API key) or "vertex" (ADC).
	APIKeyEnv       string `toml:"api_key_env"`       // Environment variable holding the Gemini API key.
	DotEnvFile      string `toml:"dot_env_file"`      // Optional file loaded into the environment before reading secrets.
}

// Server represents the HTTP listener configuration.
type Server struct {
	Addr              string   `toml:"addr"`
	ReadTimeoutSecs   int      `toml:"read_timeout_seconds"`
	WriteTimeoutSecs  int      `toml:"write_timeout_seconds"` // Must cover two sequential model calls.
	RequestsPerSecond float64  `toml:"requests_per_second"`   // Inbound limit for /api; 0 disables it.
	Burst             int      `toml:"burst"`
	AllowedOrigins    []string `toml:"allowed_origins"` // e.g. "https://example.com". Empty limits websocket sessions to the serving host.
}

// ReadTimeout returns the configured read timeout as a duration.
func (s Server) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the configured write timeout as a duration.
func (s Server) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSecs) * time.Second
}

// Telemetry toggles the Google Cloud exporters. Local runs keep it off.
type Telemetry struct {
	Enabled bool `toml:"enabled"`
}

// PromptTemplates holds the text/template sources for both model calls.
// Empty values fall back to the templates compiled into the binary.
type PromptTemplates struct {
	AwardPrompt    string `toml:"award"`
	FigurinePrompt string `toml:"figurine"`
}

// GenerativeModel represents the configuration for a Gemini model.
type GenerativeModel struct {
	Model              string   `toml:"model"`
	SystemInstructions string   `toml:"system_instructions"`
	Temperature        float32  `toml:"temperature"`
	TopP               float32  `toml:"top_p"`
	TopK               float32  `toml:"top_k"`
	MaxTokens          int32    `toml:"max_tokens"`
	OutputFormat       string   `toml:"output_format"`       // Response MIME type, e.g. "application/json".
	ResponseModalities []string `toml:"response_modalities"` // e.g. ["TEXT", "IMAGE"] for image models.
}

// Events configures the optional Pub/Sub publisher.
type Events struct {
	Topic string `toml:"topic"` // Empty disables publishing.
}

// Config represents the overall configuration for the application.
type Config struct {
	Application     Application                `toml:"application"`
	Server          Server                     `toml:"server"`
	Telemetry       Telemetry                  `toml:"telemetry"`
	PromptTemplates PromptTemplates            `toml:"prompt_templates"`
	AgentModels     map[string]GenerativeModel `toml:"agent_models"` // Keyed by AwardFactsModel and FigurineModel.
	Events          Events                     `toml:"events"`
}

// NewConfig creates a Config holding the defaults used when no file overrides
// them. The temperatures match the behavior the UI was tuned against: factual
// lookups at 0.5, image generation at 0.8.
func NewConfig() *Config {
	return &Config{
		Application: Application{
			Name:           "claymotion-chronicle",
			GoogleLocation: "us-central1",
			Backend:        BackendGemini,
			APIKeyEnv:      "GEMINI_API_KEY",
			DotEnvFile:     ".env",
		},
		Server: Server{
			Addr:              ":8080",
			ReadTimeoutSecs:   20,
			WriteTimeoutSecs:  180,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		AgentModels: map[string]GenerativeModel{
			AwardFactsModel: {
				Model:       "gemini-2.5-flash",
				Temperature: 0.5,
			},
			FigurineModel: {
				Model:              "gemini-3-pro-image-preview",
				Temperature:        0.8,
				ResponseModalities: []string{"TEXT", "IMAGE"},
			},
		},
	}
}
