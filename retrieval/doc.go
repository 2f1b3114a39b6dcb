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


// Package retrieval implements the three job retrieval strategies.
//
//   - Refine narrows a job list the caller already holds. It is pure and
//     never touches a store.
//   - SemanticSearcher runs a similarity search against a storage.VectorIndex,
//     constrained by listing metadata.
//   - StructuredSearcher runs an attribute search against a storage.JobStore
//     and returns the best paid matches first.
//
// Store failures are wrapped in core.ErrRetrieval. Callers are expected to
// degrade to an empty result list rather than abort the request.
//
// Salary constraints are deliberately asymmetric: Refine compares the job's
// advertised minimum while StructuredSearcher compares the stored maximum.
package retrieval
