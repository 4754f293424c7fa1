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

package ui

const (
	DefaultErrorTitle   = "Apologies, the envelope was lost"
	DefaultErrorMessage = "We couldn't retrieve the award data. The Academy archives might be temporarily unavailable."
)

// ErrorPanel is shown in place of the card when a fetch fails. It offers a retry.
type ErrorPanel struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewErrorPanel uses the default title, and the default message when message is empty.
func NewErrorPanel(message string) ErrorPanel {
	if message == "" {
		message = DefaultErrorMessage
	}
	return ErrorPanel{Title: DefaultErrorTitle, Message: message}
}

// ErrorMessage returns the text shown for err.
func ErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return DefaultErrorMessage
	}
	return err.Error()
}
