package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name         string
		template     string
		wantSegments []segment
		placeholders int
	}{
		{
			name:         "no placeholders",
			template:     "select 1",
			wantSegments: []segment{{text: "select 1"}},
		},
		{
			name:         "empty template",
			template:     "",
			wantSegments: nil,
		},
		{
			name:     "all verbs",
			template: "%s %I %L %Q",
			wantSegments: []segment{
				{verb: VerbString}, {text: " "},
				{verb: VerbIdent}, {text: " "},
				{verb: VerbLiteral}, {text: " "},
				{verb: VerbDollarQuoted},
			},
			placeholders: 4,
		},
		{
			name:         "escaped percent",
			template:     "100%%",
			wantSegments: []segment{{text: "100%"}},
		},
		{
			name:         "escaped percent before verb letter",
			template:     "%%s",
			wantSegments: []segment{{text: "%s"}},
		},
		{
			name:         "escape followed by placeholder",
			template:     "%%%L",
			wantSegments: []segment{{text: "%"}, {verb: VerbLiteral}},
			placeholders: 1,
		},
		{
			name:         "unknown verb passes through",
			template:     "%d%x",
			wantSegments: []segment{{text: "%d%x"}},
		},
		{
			name:         "unknown verb then placeholder",
			template:     "%d%L",
			wantSegments: []segment{{text: "%d"}, {verb: VerbLiteral}},
			placeholders: 1,
		},
		{
			name:         "trailing percent",
			template:     "50%",
			wantSegments: []segment{{text: "50%"}},
		},
		{
			name:         "lowercase verbs other than s are not placeholders",
			template:     "%i %l %q",
			wantSegments: []segment{{text: "%i %l %q"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := Compile(tt.template)
			assert.Equal(t, tt.wantSegments, tmpl.segments)
			assert.Equal(t, tt.placeholders, tmpl.Placeholders())
			assert.Equal(t, tt.template, tmpl.Source())
		})
	}
}
