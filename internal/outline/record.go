// Package outline turns raw oracle answers into chapter outlines and table rows.
//
// Oracle output is treated as untrusted: values are decoded into a loose JSON tree and
// only their structural shape is checked. Recover finds a candidate record in noisy text,
// Merge folds per-chunk records into one document record, and Flatten projects that record
// onto the fixed row schema.
package outline

// JSON keys of the structured record the oracle is asked to produce.
const (
	KeyChapter    = "Chapter"
	KeyTopics     = "Topics"
	KeyTopic      = "Topic"
	KeySubtopics  = "Subtopics"
	KeySubTopic   = "Sub-topic"
	KeyFigures    = "Figures"
	KeyTables     = "Tables"
	KeyExamples   = "Examples"
	KeyExercises  = "Exercises"
	KeyActivities = "Activities"
)

// UnknownChapter is the chapter label used when no recovered record names one.
const UnknownChapter = "Unknown Chapter"

// Columns is the header of every row table, in order.
var Columns = []string{
	"Chapter", "Topic", "Sub-topic", "Figures", "Tables", "Examples", "Exercises", "Activities",
}

// Response is the oracle's raw answer for one chunk.
type Response struct {
	Chunk  int    // Index of the chunk that produced it
	Text   string // Trimmed oracle output
	Absent bool   // The invocation failed or timed out
}

// Record is the document-level outline built by Merge.
//
// Topics holds the raw decoded topic entries; their shape is only checked when flattening.
// TopicsOK is false when the seeding record had no Topics array.
type Record struct {
	Chapter    string
	HasChapter bool
	Topics     []any
	TopicsOK   bool
}

// Row is one flattened (Topic, Sub-topic) pair.
type Row struct {
	Chapter    string `json:"chapter"`
	Topic      string `json:"topic"`
	SubTopic   string `json:"sub_topic"`
	Figures    string `json:"figures"`
	Tables     string `json:"tables"`
	Examples   string `json:"examples"`
	Exercises  string `json:"exercises"`
	Activities string `json:"activities"`
}

// Values returns the row's cells in Columns order.
func (r Row) Values() []string {
	return []string{r.Chapter, r.Topic, r.SubTopic, r.Figures, r.Tables, r.Examples, r.Exercises, r.Activities}
}
