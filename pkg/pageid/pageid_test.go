package pageid

import (
	"strings"
	"testing"
)

func TestIdentity_Deterministic(t *testing.T) {
	a := Identity("example.com", "/articles/42")
	b := Identity("example.com", "/articles/42")
	if a != b {
		t.Errorf("Identity not deterministic: %s != %s", a, b)
	}
}

func TestIdentity_DistinctInputs(t *testing.T) {
	a := Identity("example.com", "/articles/42")
	b := Identity("example.com", "/articles/43")
	c := Identity("example.org", "/articles/42")
	if a == b {
		t.Error("different paths should produce different identities")
	}
	if a == c {
		t.Error("different hosts should produce different identities")
	}
}

func TestIdentity_URLSafe(t *testing.T) {
	id := Identity("example.com", "/some/long/path/with/segments")
	if strings.ContainsAny(id, "+/=") {
		t.Errorf("identity %q contains non-URL-safe characters", id)
	}
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{"query dropped", "https://example.com/page?utm=1", "https://example.com/page?utm=2", true},
		{"fragment dropped", "https://example.com/page#top", "https://example.com/page#bottom", true},
		{"host case folded", "https://EXAMPLE.com/page", "https://example.com/page", true},
		{"scheme irrelevant", "http://example.com/page", "https://example.com/page", true},
		{"different path", "https://example.com/a", "https://example.com/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idA, err := FromURL(tt.a)
			if err != nil {
				t.Fatalf("FromURL(%q): %v", tt.a, err)
			}
			idB, err := FromURL(tt.b)
			if err != nil {
				t.Fatalf("FromURL(%q): %v", tt.b, err)
			}
			if (idA == idB) != tt.same {
				t.Errorf("FromURL(%q) vs FromURL(%q): same=%v, want %v", tt.a, tt.b, idA == idB, tt.same)
			}
		})
	}
}

func TestFromURL_NoHost(t *testing.T) {
	if _, err := FromURL("not a url at all\x00"); err == nil {
		// url.Parse accepts a lot; only truly hostless inputs must fail.
		t.Log("parse accepted input, checking hostless case instead")
	}
	if _, err := FromURL("/relative/path"); err != ErrNoHost {
		t.Errorf("FromURL(relative) err = %v, want ErrNoHost", err)
	}
}

func TestFromURL_MatchesIdentity(t *testing.T) {
	id, err := FromURL("https://news.example.com/story/123")
	if err != nil {
		t.Fatal(err)
	}
	want := Identity("news.example.com", "/story/123")
	if id != want {
		t.Errorf("FromURL = %s, want %s", id, want)
	}
}
