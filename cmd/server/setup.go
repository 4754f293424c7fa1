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

package main

import (
	"context"
	"os"

	"github.com/jaycherian/claymotion-chronicle/internal/cloud"
	"github.com/jaycherian/claymotion-chronicle/internal/core/services"
	"github.com/jaycherian/claymotion-chronicle/internal/core/workflow"
)

type StateManager struct {
	config        *cloud.Config
	cloud         *cloud.ServiceClients
	awardsService *services.AwardsService
}

var state = &StateManager{}

// SetupOS defaults the configuration directory and runtime for local runs.
// Values already present in the environment win.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

func GetConfig() (*cloud.Config, error) {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			return nil, err
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			return nil, err
		}
		state.config = config
	}
	return state.config, nil
}

// InitState connects to Gemini and the optional event topic and assembles
// the award fetch workflow and its caching service.
func InitState(ctx context.Context, config *cloud.Config) error {
	apiKey, err := cloud.ResolveAPIKey(config)
	if err != nil {
		return err
	}

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config, apiKey)
	if err != nil {
		return err
	}
	state.cloud = cloudClients

	fetchWorkflow, err := workflow.NewAwardFetchWorkflow(config, cloudClients.AgentModels)
	if err != nil {
		cloudClients.Close()
		return err
	}
	state.awardsService = services.NewAwardsService(fetchWorkflow, cloudClients.Events)
	return nil
}
