package outline

import "log/slog"

// Merge folds per-chunk oracle responses into one document record.
//
// Absent responses are skipped, as are responses that do not recover to an object carrying
// both Chapter and Topics. The first record seeds the chapter title and topic list; every
// later one only appends its Topics array. Topics are never consolidated by name, so a topic
// whose sub-topics straddle a chunk boundary shows up once per chunk. Merge returns nil when no response yields a record.
func Merge(responses []Response, log *slog.Logger) *Record {
	var merged *Record
	for _, resp := range responses {
		if resp.Absent {
			continue
		}
		v, ok := Recover(resp.Text)
		if !ok {
			log.Warn("no structured record in oracle response", "chunk", resp.Chunk)
			continue
		}
		obj, ok := v.(map[string]any)
		if !ok {
			log.Warn("recovered value is not an object", "chunk", resp.Chunk, "type", typeName(v))
			continue
		}
		if !isRecord(obj) {
			log.Warn("recovered object is not an outline record", "chunk", resp.Chunk, "keys", len(obj))
			continue
		}

		topics, topicsOK := obj[KeyTopics].([]any)
		if merged == nil {
			merged = &Record{Topics: topics, TopicsOK: topicsOK}
			if c, present := obj[KeyChapter]; present && c != nil {
				merged.Chapter, merged.HasChapter = Text(c), true
			}
			if !topicsOK {
				log.Warn("seed record has no topics array", "chunk", resp.Chunk)
			}
			continue
		}
		if !topicsOK {
			log.Warn("chunk topics are not an array, skipping", "chunk", resp.Chunk)
			continue
		}
		if !merged.TopicsOK {
			log.Warn("merged record has no topics array, dropping chunk topics", "chunk", resp.Chunk, "topics", len(topics))
			continue
		}
		merged.Topics = append(merged.Topics, topics...)
	}
	return merged
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	default:
		return "number"
	}
}
