package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectDocumentArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"sdui"},
			want: []string{"sdui"},
		},
		{
			name: "document first token",
			in:   []string{"sdui", "page.json"},
			want: []string{"sdui", "run", "page.json"},
		},
		{
			name: "yaml document after value flag",
			in:   []string{"sdui", "--config-dir", "./tmp", "page.yaml"},
			want: []string{"sdui", "--config-dir", "./tmp", "run", "page.yaml"},
		},
		{
			name: "document after equals flag",
			in:   []string{"sdui", "--catalog=./cat", "page.yml"},
			want: []string{"sdui", "--catalog=./cat", "run", "page.yml"},
		},
		{
			name: "document after bool flag",
			in:   []string{"sdui", "--pretty", "page.json"},
			want: []string{"sdui", "--pretty", "run", "page.json"},
		},
		{
			name: "double dash stops rewriting",
			in:   []string{"sdui", "--", "page.json"},
			want: []string{"sdui", "--", "page.json"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"sdui", "render", "page.json"},
			want: []string{"sdui", "render", "page.json"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"sdui", "wat"},
			want: []string{"sdui", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectDocumentArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectDocumentArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
