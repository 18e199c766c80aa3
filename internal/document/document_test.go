package document

import "testing"

func TestTitleFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"science/ch01.pdf", "ch01"},
		{"/abs/path/Light Reflection.pdf", "Light Reflection"},
		{"notes.v2.md", "notes.v2"},
		{"README", "README"},
	}
	for _, tt := range tests {
		if got := TitleFromPath(tt.path); got != tt.want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
