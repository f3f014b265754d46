package sourcemap

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeVLQ(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{15, "e"},
		{16, "gB"},
		{511, "+f"},
		{512, "ggB"},
	}
	for _, tt := range tests {
		var sb strings.Builder
		encodeVLQ(&sb, tt.value)
		if got := sb.String(); got != tt.want {
			t.Errorf("encodeVLQ(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestBuilder_String(t *testing.T) {
	b := NewBuilder("out.js")
	b.AddMapping(Mapping{GenLine: 0, GenCol: 0, SrcLine: 0, SrcCol: 0, Source: "in.ts"})
	b.AddMapping(Mapping{GenLine: 0, GenCol: 5, SrcLine: 0, SrcCol: 5, Source: "in.ts"})
	b.AddMapping(Mapping{GenLine: 2, GenCol: 0, SrcLine: 1, SrcCol: 0, Source: "in.ts"})

	var m struct {
		Version  int      `json:"version"`
		File     string   `json:"file"`
		Sources  []string `json:"sources"`
		Mappings string   `json:"mappings"`
	}
	if err := json.Unmarshal([]byte(b.String()), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m.Version != 3 {
		t.Errorf("version = %d, want 3", m.Version)
	}
	if m.File != "out.js" {
		t.Errorf("file = %q, want out.js", m.File)
	}
	if len(m.Sources) != 1 || m.Sources[0] != "in.ts" {
		t.Errorf("sources = %v, want [in.ts]", m.Sources)
	}
	// two line separators for the skipped line, a comma between the two
	// segments on line 0
	if !strings.Contains(m.Mappings, ";;") {
		t.Errorf("mappings %q should skip line 1 with ;;", m.Mappings)
	}
	if !strings.Contains(m.Mappings, ",") {
		t.Errorf("mappings %q should separate segments on line 0", m.Mappings)
	}
}

func TestBuilder_EmptyMap(t *testing.T) {
	b := NewBuilder("out.js")
	out := b.String()
	if !strings.Contains(out, `"mappings":""`) {
		t.Errorf("empty builder should serialize empty mappings, got %s", out)
	}
}
