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


package storage

import "errors"

var (
	// ErrNotFound is returned when a session or checkpoint does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidQuery is returned by BuildSelect for a predicate on a column
	// outside the jobs whitelist or with a value of the wrong type.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrInvalidDocument is returned for a listing document that cannot be indexed.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrSerializationFailed wraps every codec failure for sessions and
	// indexed documents.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData is returned when a stored value ends before its
	// last field.
	ErrTruncatedData = errors.New("truncated data")
)
