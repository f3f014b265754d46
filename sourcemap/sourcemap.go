// Package sourcemap builds source-map v3 files mapping generated output
// positions back to input positions.
package sourcemap

import (
	"encoding/json"
	"strings"
)

// Mapping relates a generated position to an original position. All
// positions are 0-based.
type Mapping struct {
	GenLine, GenCol int
	SrcLine, SrcCol int
	Source          string
}

// Builder accumulates mappings and serializes them in source-map v3 form.
type Builder struct {
	file     string
	sources  []string
	srcIndex map[string]int
	mappings []Mapping
}

// NewBuilder creates a Builder for the named generated file.
func NewBuilder(file string) *Builder {
	return &Builder{
		file:     file,
		srcIndex: make(map[string]int),
	}
}

// AddMapping records one generated→original position pair. Mappings must be
// added in generated order (line, then column).
func (b *Builder) AddMapping(m Mapping) {
	if _, ok := b.srcIndex[m.Source]; !ok {
		b.srcIndex[m.Source] = len(b.sources)
		b.sources = append(b.sources, m.Source)
	}
	b.mappings = append(b.mappings, m)
}

// Mappings returns the recorded mappings in insertion order.
func (b *Builder) Mappings() []Mapping { return b.mappings }

type mapJSON struct {
	Version  int      `json:"version"`
	File     string   `json:"file"`
	Sources  []string `json:"sources"`
	Names    []string `json:"names"`
	Mappings string   `json:"mappings"`
}

// String serializes the map as JSON.
func (b *Builder) String() string {
	out := mapJSON{
		Version:  3,
		File:     b.file,
		Sources:  b.sources,
		Names:    []string{},
		Mappings: b.encodeMappings(),
	}
	data, err := json.Marshal(out)
	if err != nil {
		// mapJSON contains only marshalable fields
		return ""
	}
	return string(data)
}

func (b *Builder) encodeMappings() string {
	var sb strings.Builder
	line := 0
	prevGenCol, prevSrcIdx, prevSrcLine, prevSrcCol := 0, 0, 0, 0
	firstOnLine := true
	for _, m := range b.mappings {
		for line < m.GenLine {
			sb.WriteByte(';')
			line++
			prevGenCol = 0
			firstOnLine = true
		}
		if !firstOnLine {
			sb.WriteByte(',')
		}
		firstOnLine = false
		srcIdx := b.srcIndex[m.Source]
		encodeVLQ(&sb, m.GenCol-prevGenCol)
		encodeVLQ(&sb, srcIdx-prevSrcIdx)
		encodeVLQ(&sb, m.SrcLine-prevSrcLine)
		encodeVLQ(&sb, m.SrcCol-prevSrcCol)
		prevGenCol = m.GenCol
		prevSrcIdx = srcIdx
		prevSrcLine = m.SrcLine
		prevSrcCol = m.SrcCol
	}
	return sb.String()
}
