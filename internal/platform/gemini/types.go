package gemini

// promptVocab is a single vocabulary entry rendered into the prompt template.
type promptVocab struct {
	Text    string
	Reading string
	Gloss   string
}

// promptData represents the data passed to the prompt template
type promptData struct {
	Level int
	Items []promptVocab
}

// responseSchema represents the expected structure of a passage from the
// Gemini API.
type responseSchema struct {
	// Title is a short heading for the passage
	Title string `json:"title"`

	// Body is the passage text containing the target vocabulary
	Body string `json:"body"`
}
