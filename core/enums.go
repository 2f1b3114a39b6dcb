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

import (
	"fmt"
	"strings"
)

// WorkStyle is the work arrangement of a job.
type WorkStyle string

const (
	WorkStyleOnSite WorkStyle = "On-site"
	WorkStyleHybrid WorkStyle = "Hybrid"
	WorkStyleRemote WorkStyle = "Remote"
)

// WorkStyles lists every valid work arrangement in display order.
var WorkStyles = []WorkStyle{WorkStyleOnSite, WorkStyleHybrid, WorkStyleRemote}

var workStyleAliases = map[string]WorkStyle{
	"on-site":    WorkStyleOnSite,
	"onsite":     WorkStyleOnSite,
	"on site":    WorkStyleOnSite,
	"office":     WorkStyleOnSite,
	"hybrid":     WorkStyleHybrid,
	"hibrid":     WorkStyleHybrid,
	"remote":     WorkStyleRemote,
	"jarak jauh": WorkStyleRemote,
	"wfh":        WorkStyleRemote,
}

// ParseWorkStyle maps a label (canonical, English or Indonesian) to a WorkStyle.
// Matching is case-insensitive.
func ParseWorkStyle(s string) (WorkStyle, error) {
	if ws, ok := workStyleAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return ws, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWorkStyle, s)
}

// Valid reports whether ws is one of the known work arrangements.
func (ws WorkStyle) Valid() bool {
	switch ws {
	case WorkStyleOnSite, WorkStyleHybrid, WorkStyleRemote:
		return true
	}
	return false
}

// WorkType is the employment type of a job. Values are the labels used by
// the listing corpus.
type WorkType string

const (
	WorkTypeFullTime WorkType = "Full time"
	WorkTypePartTime WorkType = "Paruh waktu"
	WorkTypeCasual   WorkType = "Kasual"
	WorkTypeContract WorkType = "Kontrak/Temporer"
)

// WorkTypes lists every valid employment type in display order.
var WorkTypes = []WorkType{WorkTypeFullTime, WorkTypePartTime, WorkTypeCasual, WorkTypeContract}

var workTypeAliases = map[string]WorkType{
	"full time":        WorkTypeFullTime,
	"full-time":        WorkTypeFullTime,
	"fulltime":         WorkTypeFullTime,
	"penuh waktu":      WorkTypeFullTime,
	"paruh waktu":      WorkTypePartTime,
	"part time":        WorkTypePartTime,
	"part-time":        WorkTypePartTime,
	"parttime":         WorkTypePartTime,
	"kasual":           WorkTypeCasual,
	"casual":           WorkTypeCasual,
	"kontrak/temporer": WorkTypeContract,
	"kontrak":          WorkTypeContract,
	"temporer":         WorkTypeContract,
	"contract":         WorkTypeContract,
	"temporary":        WorkTypeContract,
}

// ParseWorkType maps a label (corpus, English or Indonesian) to a WorkType.
// Matching is case-insensitive.
func ParseWorkType(s string) (WorkType, error) {
	if wt, ok := workTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return wt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWorkType, s)
}

// Valid reports whether wt is one of the known employment types.
func (wt WorkType) Valid() bool {
	switch wt {
	case WorkTypeFullTime, WorkTypePartTime, WorkTypeCasual, WorkTypeContract:
		return true
	}
	return false
}
