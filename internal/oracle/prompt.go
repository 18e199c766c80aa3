package oracle

import "strings"

// OutlinePrompt is sent ahead of every chunk. It asks for JSON only, which generators
// do not always honor; see outline.Recover.
const OutlinePrompt = `Extract structured data from this textbook chapter text into JSON format.
ONLY return valid JSON, no other text. Format:

{
  "Chapter": "Exact Chapter Title",
  "Topics": [
    {
      "Topic": "Main Topic Name",
      "Subtopics": [
        {
          "Sub-topic": "Subtopic Name",
          "Figures": ["Figure 1: Description", "Figure 2: Description"],
          "Tables": ["Table 1: Description", "Table 2: Description"],
          "Examples": ["Example 1: Description", "Example 2: Description"],
          "Exercises": ["Exercise 1", "Exercise 2"],
          "Activities": ["Activity 1: Description", "Activity 2: Description"]
        }
      ]
    }
  ]
}

Text to analyze:
`

// BuildPrompt returns the full prompt for one chunk of document text.
func BuildPrompt(chunkText string) string {
	var sb strings.Builder
	sb.Grow(len(OutlinePrompt) + len(chunkText))
	sb.WriteString(OutlinePrompt)
	sb.WriteString(chunkText)
	return sb.String()
}
