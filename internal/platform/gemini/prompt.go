package gemini

// defaultPromptTemplate is used when no prompt template path is configured.
// The model is instructed to answer with a bare JSON object so the response
// can be unmarshalled directly into responseSchema.
const defaultPromptTemplate = `You are a language tutor writing a short reading passage for a learner
at proficiency level {{.Level}} on a 1-6 scale.

Write a short, natural passage that uses every one of the following
vocabulary items at least once:
{{range .Items}}
- {{.Text}}{{if .Reading}} ({{.Reading}}){{end}}: {{.Gloss}}{{end}}

Keep all other vocabulary and grammar at or below the learner's level.

Respond with a single JSON object and nothing else:
{"title": "<short title>", "body": "<the passage>"}`
