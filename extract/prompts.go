package extract

import (
	"fmt"
	"strings"

	"github.com/poiesic/jobmatch/core"
)

const refineSchema = `{
  "type": "object",
  "properties": {
    "work_style": {"enum": [%[1]s, null]},
    "work_type": {"enum": [%[2]s, null]},
    "min_salary": {"type": ["integer", "null"]},
    "location": {"type": ["string", "null"]}
  },
  "required": ["work_style", "work_type", "min_salary", "location"],
  "additionalProperties": false
}`

const semanticSchema = `{
  "type": "object",
  "properties": {
    "work_style": {"enum": [%[1]s, null]},
    "work_type": {"enum": [%[2]s, null]},
    "location": {"type": ["string", "null"]}
  },
  "required": ["work_style", "work_type", "location"],
  "additionalProperties": false
}`

const structuredSchema = `{
  "type": "object",
  "properties": {
    "job_title": {"type": ["string", "null"]},
    "company_name": {"type": ["string", "null"]},
    "work_style": {"enum": [%[1]s, null]},
    "work_type": {"enum": [%[2]s, null]},
    "location": {"type": ["string", "null"]},
    "salary": {"type": ["integer", "null"]}
  },
  "required": ["job_title", "company_name", "work_style", "work_type", "location", "salary"],
  "additionalProperties": false
}`

const promptTemplate = `Read the user's job search instruction and output a JSON object that captures its
specifications as a filter%s.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble or
explanation. Start your response directly with the opening brace { and end with the closing brace }.

%s

Rules:
- Only populate a field if it is explicitly stated; otherwise use null.
- Do not infer missing values.
- Use the exact enum values for work_style and work_type.
%s
Example:
Instruction: %q
Output:
%s`

const refineRules = `- Normalize locations to the least specific valid form (Jakarta Selatan becomes Jakarta),
  unless the instruction explicitly requires the specific area.
- min_salary is a monthly amount in Rupiah written as a plain integer (10 juta is 10000000).
`

const semanticRules = `- Locations are case-sensitive. Correct: "Jakarta Selatan". Incorrect: "jakarta selatan".
- Generalize locations. Prefer "Jakarta" over "Jakarta Selatan" unless the specific area is requested.
`

const structuredRules = `- Locations are case-sensitive. Correct: "Jakarta Selatan". Incorrect: "jakarta selatan".
- Generalize locations. Prefer "Jakarta" over "Jakarta Selatan" unless the specific area is requested.
- Use the common denominator for job titles and treat it as a keyword. For data analysis jobs "data" is
  enough, since "Data Analyst", "Data Analysis Specialist" and "Data Engineer" are all valid matches.
- salary is the minimum monthly amount in Rupiah written as a plain integer.
`

type prompt struct {
	purpose  string
	schema   string
	rules    string
	example  string
	expected string
}

var (
	refinePrompt = prompt{
		purpose:  " for narrowing the jobs the user already has",
		schema:   refineSchema,
		rules:    refineRules,
		example:  "Keep only the hybrid ones in Jakarta Selatan paying at least 8 juta",
		expected: `{"work_style": "Hybrid", "work_type": null, "min_salary": 8000000, "location": "Jakarta"}`,
	}
	semanticPrompt = prompt{
		purpose:  " for a similarity search over job listings",
		schema:   semanticSchema,
		rules:    semanticRules,
		example:  "Find new jobs that match my CV but only remote contract roles",
		expected: `{"work_style": "Remote", "work_type": "Kontrak/Temporer", "location": null}`,
	}
	structuredPrompt = prompt{
		purpose:  " made for SQL querying",
		schema:   structuredSchema,
		rules:    structuredRules,
		example:  "Search for new data analysis jobs in Bandung paying 12 juta or more",
		expected: `{"job_title": "data", "company_name": null, "work_style": null, "work_type": null, "location": "Bandung", "salary": 12000000}`,
	}
)

func (p prompt) system() string {
	return fmt.Sprintf(promptTemplate,
		p.purpose,
		fmt.Sprintf(p.schema, enumList(core.WorkStyles), enumList(core.WorkTypes)),
		p.rules,
		p.example,
		p.expected,
	)
}

func (p prompt) messages(instruction string) []core.Message {
	return []core.Message{
		{Role: core.RoleSystem, Content: p.system()},
		{Role: core.RoleUser, Content: instruction},
	}
}

func enumList[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", string(v))
	}
	return strings.Join(quoted, ", ")
}
