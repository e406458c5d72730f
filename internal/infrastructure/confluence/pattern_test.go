package confluence

import "testing"

func TestExtractPageID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "query parameter form",
			url:  "https://confluence.example.com/pages/viewpage.action?pageId=468276167",
			want: "468276167",
		},
		{
			name: "path segment form",
			url:  "https://confluence.example.com/pages/468276167/NDB-2.10+CG+Readiness",
			want: "468276167",
		},
		{
			name: "query form wins over path form",
			url:  "https://confluence.example.com/pages/111/x?pageId=222",
			want: "222",
		},
		{
			name: "no id",
			url:  "https://confluence.example.com/display/NDB/Home",
			want: "",
		},
		{
			name: "malformed url",
			url:  "://not-a-url",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractPageID(tc.url); got != tc.want {
				t.Fatalf("ExtractPageID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestTitleFromURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plus and dash separators become spaces",
			url:  "https://confluence.example.com/pages/468276167/NDB-2.10+CG+Readiness",
			want: "NDB 2.10 CG Readiness",
		},
		{
			name: "percent encoding decoded",
			url:  "https://confluence.example.com/pages/123/PG%20Readiness",
			want: "PG Readiness",
		},
		{
			name: "no slug after id",
			url:  "https://confluence.example.com/pages/123",
			want: "",
		},
		{
			name: "no numeric segment",
			url:  "https://confluence.example.com/display/NDB/Home",
			want: "",
		},
		{
			name: "malformed url",
			url:  "://broken",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TitleFromURL(tc.url); got != tc.want {
				t.Fatalf("TitleFromURL(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
