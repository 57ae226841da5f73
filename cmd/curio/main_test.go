package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectObjectLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"curio"},
			want: []string{"curio"},
		},
		{
			name: "direct object id first token",
			in:   []string{"curio", "42"},
			want: []string{"curio", "objects", "get", "42"},
		},
		{
			name: "direct object id after value flag",
			in:   []string{"curio", "--server", "https://example.com", "42"},
			want: []string{"curio", "--server", "https://example.com", "objects", "get", "42"},
		},
		{
			name: "direct object id after equals flag",
			in:   []string{"curio", "--server=https://example.com", "42"},
			want: []string{"curio", "--server=https://example.com", "objects", "get", "42"},
		},
		{
			name: "direct object id after bool flag",
			in:   []string{"curio", "--pretty", "42"},
			want: []string{"curio", "--pretty", "objects", "get", "42"},
		},
		{
			name: "direct object id after double dash",
			in:   []string{"curio", "--no-cache", "--", "42"},
			want: []string{"curio", "--no-cache", "--", "objects", "get", "42"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"curio", "objects", "get", "42"},
			want: []string{"curio", "objects", "get", "42"},
		},
		{
			name: "negative number not rewritten",
			in:   []string{"curio", "-7"},
			want: []string{"curio", "-7"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"curio", "wat"},
			want: []string{"curio", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectObjectLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectObjectLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
