package outline

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func record(t *testing.T, raw string) *Record {
	t.Helper()
	rec := Merge([]Response{{Text: raw}}, discard)
	if rec == nil {
		t.Fatalf("fixture did not merge: %s", raw)
	}
	return rec
}

func TestFlatten_TwoSubtopics(t *testing.T) {
	rec := record(t, `{"Chapter":"Motion","Topics":[{"Topic":"Speed","Subtopics":[
		{"Sub-topic":"Uniform","Figures":["Fig 8.1","Fig 8.2"],"Tables":["Table 8.1"],"Examples":[],"Exercises":["Q1","Q2"],"Activities":["Activity 8.1"]},
		{"Sub-topic":"Non-uniform","Figures":[],"Tables":[],"Examples":["Example 8.2"],"Exercises":[],"Activities":[]}
	]}]}`)
	rows := Flatten(rec, discard)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := []Row{
		{Chapter: "Motion", Topic: "Speed", SubTopic: "Uniform", Figures: "Fig 8.1, Fig 8.2", Tables: "Table 8.1", Exercises: "Q1, Q2", Activities: "Activity 8.1"},
		{Chapter: "Motion", Topic: "Speed", SubTopic: "Non-uniform", Examples: "Example 8.2"},
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d:\n got %+v\nwant %+v", i, rows[i], want[i])
		}
	}
}

func TestFlatten_MalformedListFields(t *testing.T) {
	rec := record(t, `{"Chapter":"C","Topics":[{"Topic":"T","Subtopics":[
		{"Sub-topic":"S","Figures":"Figure 1","Tables":{"a":1},"Examples":null}
	]}]}`)
	rows := Flatten(rec, discard)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Figures != "" || r.Tables != "" || r.Examples != "" || r.Exercises != "" || r.Activities != "" {
		t.Errorf("expected empty list fields, got %+v", r)
	}
}

func TestFlatten_CoercesElementsToText(t *testing.T) {
	rec := record(t, `{"Chapter":"C","Topics":[{"Topic":5,"Subtopics":[
		{"Sub-topic":"S","Figures":[1, 2.50, true, null, "x", {"n":1}, ["a"]]}
	]}]}`)
	rows := Flatten(rec, discard)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Topic != "5" {
		t.Errorf("expected topic %q, got %q", "5", rows[0].Topic)
	}
	want := `1, 2.50, true, , x, {"n":1}, ["a"]`
	if rows[0].Figures != want {
		t.Errorf("expected figures %q, got %q", want, rows[0].Figures)
	}
}

func TestFlatten_SkipsMalformedEntries(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	rec := record(t, `{"Chapter":"C","Topics":[
		"not a topic",
		{"Topic":"NoSubs"},
		{"Topic":"BadSubs","Subtopics":"nope"},
		{"Topic":"Mixed","Subtopics":[42, {"Sub-topic":"Good"}, "bad"]}
	]}`)
	rows := Flatten(rec, log)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d: %+v", len(rows), rows)
	}
	if rows[0].Topic != "Mixed" || rows[0].SubTopic != "Good" {
		t.Errorf("unexpected row %+v", rows[0])
	}
	out := buf.String()
	for _, msg := range []string{"invalid topic format", "subtopics is not a list", "invalid subtopic format"} {
		if !strings.Contains(out, msg) {
			t.Errorf("expected log %q, got %q", msg, out)
		}
	}
}

func TestFlatten_NilAndTopicsNotList(t *testing.T) {
	if rows := Flatten(nil, discard); len(rows) != 0 {
		t.Errorf("expected no rows for nil record, got %d", len(rows))
	}
	rec := &Record{Chapter: "C", HasChapter: true, TopicsOK: false}
	if rows := Flatten(rec, discard); len(rows) != 0 {
		t.Errorf("expected no rows when topics is not a list, got %d", len(rows))
	}
}

func TestFlatten_UnknownChapter(t *testing.T) {
	rec := record(t, `{"Chapter":null,"Topics":[{"Topic":"T","Subtopics":[{"Sub-topic":"S"}]}]}`)
	rows := Flatten(rec, discard)
	if len(rows) != 1 || rows[0].Chapter != UnknownChapter {
		t.Fatalf("expected one row with chapter %q, got %+v", UnknownChapter, rows)
	}
}

func TestFlatten_PreservesOrder(t *testing.T) {
	rec := Merge([]Response{
		{Chunk: 0, Text: `{"Chapter":"C","Topics":[{"Topic":"T1","Subtopics":[{"Sub-topic":"a"},{"Sub-topic":"b"}]}]}`},
		{Chunk: 1, Text: `{"Chapter":"C","Topics":[{"Topic":"T2","Subtopics":[{"Sub-topic":"c"}]},{"Topic":"T1","Subtopics":[{"Sub-topic":"d"}]}]}`},
	}, discard)
	var got []string
	for _, r := range Flatten(rec, discard) {
		got = append(got, r.Topic+"/"+r.SubTopic)
	}
	if strings.Join(got, " ") != "T1/a T1/b T2/c T1/d" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestRowValuesMatchColumns(t *testing.T) {
	r := Row{Chapter: "1", Topic: "2", SubTopic: "3", Figures: "4", Tables: "5", Examples: "6", Exercises: "7", Activities: "8"}
	vals := r.Values()
	if len(vals) != len(Columns) {
		t.Fatalf("expected %d values, got %d", len(Columns), len(vals))
	}
	if strings.Join(vals, "") != "12345678" {
		t.Errorf("unexpected value order %v", vals)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{json.Number("3.0"), "3.0"},
		{1.5, "1.5"},
		{false, "false"},
		{[]any{"a", json.Number("1")}, `["a",1]`},
		{map[string]any{"k": "<v>"}, `{"k":"<v>"}`},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
