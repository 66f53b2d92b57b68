package retrieval

import "testing"

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://a.com/x", "https://a.com/x"},
		{"https://a.com/x/", "https://a.com/x"},
		{"https://A.COM/x?utm_source=tw", "https://a.com/x"},
		{"https://a.com/x#section", "https://a.com/x"},
		{"https://a.com/", "https://a.com"},
		{"not a url", "not a url"},
	}
	for _, tc := range cases {
		if got := NormalizeURL(tc.in); got != tc.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMergeDeduplicatesTrailingSlash(t *testing.T) {
	a := []Source{{URL: "https://a.com/x", Title: "first"}}
	b := []Source{{URL: "https://a.com/x/", Title: "second"}}

	merged := Merge(a, b)
	if len(merged) != 1 {
		t.Fatalf("len(merged) = %d, want 1", len(merged))
	}
	if merged[0].Title != "first" {
		t.Errorf("kept title = %q, want first occurrence to win", merged[0].Title)
	}
}

func TestMergeSkipsEmptyURLs(t *testing.T) {
	merged := Merge([]Source{{URL: "", Title: "no url"}, {URL: "https://b.com/y"}})
	if len(merged) != 1 || merged[0].URL != "https://b.com/y" {
		t.Errorf("merged = %+v, want only the entry with a URL", merged)
	}
}
