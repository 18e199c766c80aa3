package outline

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
)

// ListSeparator joins list-valued fields into one cell.
const ListSeparator = ", "

// Flatten projects a merged record onto rows, one per well-formed sub-topic, in topic then
// sub-topic order. Malformed topics and sub-topics are skipped with a log line; a nil record
// or a record without a topics array yields no rows.
func Flatten(rec *Record, log *slog.Logger) []Row {
	if rec == nil {
		log.Warn("no merged record to flatten")
		return nil
	}
	if !rec.TopicsOK {
		log.Warn("topics is not a list", "chapter", rec.Chapter)
		return nil
	}

	chapter := UnknownChapter
	if rec.HasChapter {
		chapter = rec.Chapter
	}

	var rows []Row
	for i, t := range rec.Topics {
		topic, ok := t.(map[string]any)
		if !ok {
			log.Warn("invalid topic format", "index", i, "type", typeName(t))
			continue
		}
		topicName := field(topic, KeyTopic)

		subtopics, ok := topic[KeySubtopics].([]any)
		if !ok {
			log.Warn("subtopics is not a list", "topic", topicName)
			continue
		}
		for j, s := range subtopics {
			sub, ok := s.(map[string]any)
			if !ok {
				log.Warn("invalid subtopic format", "topic", topicName, "index", j, "type", typeName(s))
				continue
			}
			rows = append(rows, Row{
				Chapter:    chapter,
				Topic:      topicName,
				SubTopic:   field(sub, KeySubTopic),
				Figures:    joinList(sub[KeyFigures]),
				Tables:     joinList(sub[KeyTables]),
				Examples:   joinList(sub[KeyExamples]),
				Exercises:  joinList(sub[KeyExercises]),
				Activities: joinList(sub[KeyActivities]),
			})
		}
	}
	return rows
}

// Text coerces a decoded JSON value to display text.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return compact(x)
	}
}

func field(m map[string]any, key string) string {
	return Text(m[key])
}

// joinList renders a list field; anything that is not an array renders empty.
func joinList(v any) string {
	items, ok := v.([]any)
	if !ok {
		return ""
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Text(item)
	}
	return strings.Join(parts, ListSeparator)
}
