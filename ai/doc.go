// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the language-model services used by jobmatch.
//
// The package defines the capabilities the rest of the module depends on,
// so routing, extraction and profiling code never import a vendor SDK.
//
// # Interfaces
//
//   - Embedder: Generates vector embeddings from text
//   - ChatModel: Free-text completion and JSON-constrained completion
//   - AIProvider: Aggregates both for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs through langchaingo (OpenAI, Ollama, vLLM)
//   - ai/gemini: Google Gemini through the genai SDK
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, gemini.NewChatModel, ...) return
// interface types. Mock constructors return concrete types so tests can inject
// behavior and assert call counts.
//
// # Structured Output
//
// JSON-constrained answers are decoded with DecodeJSON, which strips markdown
// fences and repairs the unquoted-key slips small local models tend to make.
//
//	var out struct {
//	    Route string `json:"route"`
//	}
//	answer, err := provider.ChatModel().CompleteJSON(ctx, messages)
//	if err == nil {
//	    err = ai.DecodeJSON(answer, &out)
//	}
package ai
