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


// Package ingest loads a scraped job-listing corpus into the two search
// backends: the relational jobs table and the vector index.
//
// # Cleaning
//
// Raw listings are read from JSON lines with ReadListings and normalized by
// Clean: salaries become integer bounds, the work arrangement is detected
// from the location text and the location is reduced to its first line.
//
// # Loading
//
// Pipeline.Run writes both backends concurrently. Relational inserts run
// chunk by chunk on one goroutine; vector indexing submits chunks to an ants
// worker pool, rate limited and retried with exponential backoff. Once a
// chunk is committed to both backends its end offset is saved to a
// storage.CheckpointStore, so a rerun resumes where the previous one stopped.
//
//	p, err := ingest.NewPipeline(jobs, index,
//	    ingest.WithCheckpoints(checkpoints),
//	    ingest.WithProgress(os.Stderr),
//	)
//	if err != nil {
//	    return err
//	}
//	defer p.Release()
//	stats, err := p.Run(ctx, "jobs.jsonl", listings, false)
package ingest
