package retrieval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGuessPublishedDate(t *testing.T) {
	cases := []struct {
		name, html, want string
	}{
		{
			"json-ld datePublished",
			`<script type="application/ld+json">{"datePublished": "2024-06-01T10:00:00Z"}</script>`,
			"2024-06-01T10:00:00Z",
		},
		{
			"time datetime attribute",
			`<time datetime="2024-05-20">20 May</time>`,
			"2024-05-20",
		},
		{"nothing", `<html><body>no dates here</body></html>`, ""},
	}
	for _, tc := range cases {
		if got := GuessPublishedDate(tc.html); got != tc.want {
			t.Errorf("%s: GuessPublishedDate = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPageReaderRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Tower Facts</title></head>
<body>
<nav>Menu Home About</nav>
<script>var tracking = true;</script>
<article><time datetime="2024-01-02">2 Jan</time>The Eiffel Tower stands in Paris. It opened in 1889.</article>
<footer>Copyright</footer>
</body></html>`))
	}))
	defer srv.Close()

	reader := NewPageReader(5 * time.Second)
	src, err := reader.Read(context.Background(), srv.URL+"/story")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if src.Title != "Tower Facts" {
		t.Errorf("Title = %q, want Tower Facts", src.Title)
	}
	if src.PublishedTime != "2024-01-02" {
		t.Errorf("PublishedTime = %q, want 2024-01-02", src.PublishedTime)
	}
	if want := "The Eiffel Tower stands in Paris"; !strings.Contains(src.Text, want) {
		t.Errorf("Text = %q, want it to contain %q", src.Text, want)
	}
	for _, boilerplate := range []string{"tracking", "Menu Home", "Copyright"} {
		if strings.Contains(src.Text, boilerplate) {
			t.Errorf("Text retains boilerplate %q: %q", boilerplate, src.Text)
		}
	}
}

func TestPageReaderTitleFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reader := NewPageReader(2 * time.Second)
	if got := reader.Title(context.Background(), srv.URL); got != "" {
		t.Errorf("Title on 500 = %q, want empty", got)
	}
}
