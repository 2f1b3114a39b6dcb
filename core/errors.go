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


package core

import "errors"

var (
	// ErrExtraction indicates a schema-constrained model call failed or returned
	// a value outside the schema. Callers degrade to null filter fields.
	ErrExtraction = errors.New("filter extraction failed")

	// ErrModelInvocation indicates an unconstrained model call failed. It has no
	// degraded behavior and is returned to the caller.
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrRetrieval indicates a backing store was unreachable or rejected the query.
	// Callers degrade to an empty result list.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrRoutingAmbiguous indicates a classifier answer matched no known route.
	ErrRoutingAmbiguous = errors.New("ambiguous routing decision")

	// ErrEmptyInstruction indicates a request without instruction text.
	ErrEmptyInstruction = errors.New("instruction cannot be empty")

	// ErrInvalidJob indicates a Job failed validation.
	ErrInvalidJob = errors.New("invalid job")

	// ErrEmptyTitle indicates the job Title field is empty.
	ErrEmptyTitle = errors.New("job title cannot be empty")

	// ErrInvalidWorkStyle indicates an unknown work arrangement.
	ErrInvalidWorkStyle = errors.New("invalid work style")

	// ErrInvalidWorkType indicates an unknown employment type.
	ErrInvalidWorkType = errors.New("invalid work type")

	// ErrInvalidSession indicates a Session failed validation.
	ErrInvalidSession = errors.New("invalid session")

	// ErrEmptySessionID indicates the session ID field is empty.
	ErrEmptySessionID = errors.New("session id cannot be empty")

	// ErrInvalidCheckpoint indicates an ingest checkpoint without a source or
	// with a negative offset.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
)
