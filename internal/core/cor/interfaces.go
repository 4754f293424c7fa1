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

// Package cor (Chain of Responsibility) provides the building blocks used to
// express the award fetch as a sequence of small, individually traced commands.
// This file defines the interfaces shared by commands, chains and the context
// that carries state between them.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// CtxIn is the default key for the primary input of a command. The BaseChain
	// fills it with the output of the previous command.
	CtxIn = "__IN__"
	// CtxOut is the default key where a command places its primary output.
	CtxOut = "__OUT__"
)

// Context is the property bag passed through a chain.
type Context interface {
	// SetContext replaces the Go context used for cancellation and tracing.
	SetContext(context context.Context)

	// GetContext returns the current Go context.
	GetContext() context.Context

	// Add stores a value and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records a fatal error, keyed by the name of the command that failed.
	AddError(key string, err error)

	// GetErrors returns all recorded fatal errors.
	GetErrors() map[string]error

	// AddWarning records a recovered failure. Warnings never stop a chain.
	AddWarning(key string, err error)

	// GetWarnings returns all recorded warnings.
	GetWarnings() map[string]error

	// Get retrieves a value by key, nil when absent.
	Get(key string) interface{}

	// Remove deletes a value.
	Remove(key string)

	// HasErrors reports whether any fatal error was recorded.
	HasErrors() bool
}

// Executable is anything that can run against a Context.
type Executable interface {
	Execute(context Context)
}

// Command is a single named step of a chain.
type Command interface {
	Executable

	GetName() string

	// GetInputParam returns the key holding the command's primary input.
	GetInputParam() string

	// GetOutputParam returns the key where the command stores its primary output.
	GetOutputParam() string

	// IsExecutable is the precondition checked before Execute is called.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command composed of other commands executed in order.
type Chain interface {
	Command

	// ContinueOnFailure controls whether later commands run after a fatal error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
