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


package ai

import "strings"

// repairJSON fixes the formatting slips small models make when asked for a
// filter or route object:
//
//	{route": "refine"}            missing opening quote on a key
//	{route: "refine"}             unquoted key
//	{'work_style': 'Hybrid'}      single-quoted strings
//	{"salary": None}              Python literals
//	{"location": "Jakarta",}      trailing comma
//
// Text inside double-quoted strings is copied unchanged.
func repairJSON(s string) string {
	in := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)

	for i := 0; i < len(in); i++ {
		r := in[i]
		switch {
		case r == '"' || r == '\'':
			i = copyString(&b, in, i)
		case r == ',' && closesNext(in, i+1):
			// drop the trailing comma
		case isLetter(r):
			i = copyWord(&b, in, i)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// copyString writes the string literal opening at in[start] with double
// quotes and returns the index of its closing quote.
func copyString(b *strings.Builder, in []rune, start int) int {
	quote := in[start]
	b.WriteByte('"')
	for i := start + 1; i < len(in); i++ {
		r := in[i]
		switch {
		case r == '\\' && i+1 < len(in):
			if quote == '\'' && in[i+1] == '\'' {
				b.WriteRune('\'')
			} else {
				b.WriteRune(r)
				b.WriteRune(in[i+1])
			}
			i++
		case r == quote:
			b.WriteByte('"')
			return i
		case r == '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return len(in)
}

// copyWord handles a bare word outside any string: a key missing one or both
// quotes, or a literal.
func copyWord(b *strings.Builder, in []rune, start int) int {
	end := start
	for end < len(in) && (isLetter(in[end]) || in[end] == '_' || (in[end] >= '0' && in[end] <= '9')) {
		end++
	}
	word := string(in[start:end])

	if end+1 < len(in) && in[end] == '"' && in[end+1] == ':' {
		b.WriteString(`"` + word + `"`)
		return end
	}
	if next := nextNonSpace(in, end); next < len(in) && in[next] == ':' {
		b.WriteString(`"` + word + `"`)
		return end - 1
	}

	switch word {
	case "None", "NULL", "Null":
		word = "null"
	case "True", "TRUE":
		word = "true"
	case "False", "FALSE":
		word = "false"
	}
	b.WriteString(word)
	return end - 1
}

func closesNext(in []rune, from int) bool {
	next := nextNonSpace(in, from)
	return next < len(in) && (in[next] == '}' || in[next] == ']')
}

func nextNonSpace(in []rune, from int) int {
	for from < len(in) && (in[from] == ' ' || in[from] == '\n' || in[from] == '\t' || in[from] == '\r') {
		from++
	}
	return from
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
