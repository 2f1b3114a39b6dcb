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


// Package storage provides the storage abstraction layer for jobmatch.
//
// This package defines the store interfaces that decouple retrieval and
// session handling from concrete backends. Backends live in subpackages:
//
//   - storage/badger: embedded vector index, session store and ingest checkpoints
//   - storage/qdrant: vector index on a Qdrant collection
//   - storage/sqlite: relational job store on an embedded SQLite file
//   - storage/postgres: relational job store on PostgreSQL
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction and allow
// backends to be swapped through configuration:
//
//	jobs, err := sqlite.NewJobStore(ctx, path)  // returns storage.JobStore
//
// Internal package constructors (newJobStore, newBackend, etc.) may return
// concrete types since they're only used within the implementation package.
//
// # Architecture
//
//   - VectorIndex: similarity search over listing documents with a metadata filter
//   - JobStore: attribute search over the fixed jobs table
//   - SessionStore: per-user session persistence
//   - CheckpointStore: ingest progress
//
// Relational backends share BuildSelect, which renders a JobQuery into a
// parameterized SELECT for a given placeholder dialect. Only whitelisted
// columns can appear in a query.
//
// # Thread Safety
//
// All store implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All store methods accept context.Context for cancellation
// and timeout support.
package storage
