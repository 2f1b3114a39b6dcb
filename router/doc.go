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


// Package router classifies an instruction into a retrieval route and runs
// the matching extraction and retrieval.
//
// Classification sits behind the Classifier interface. LLMClassifier asks a
// chat model, KeywordClassifier applies fixed rules without any model call,
// and ClassifierFunc adapts a plain function.
//
// Dispatch is linear: classify, extract, retrieve. Nothing is retried and
// nothing loops back. A failed or ambiguous classification becomes
// core.RouteNone, a failed extraction becomes an empty filter, and a failed
// retrieval becomes an empty job list. Each step appends to the request trace.
package router
