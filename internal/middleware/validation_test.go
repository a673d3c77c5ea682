package middleware

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "Fake cure claims", "Fake cure claims", false},
		{"trims whitespace", "  hello  ", "hello", false},
		{"minimum length", "abc", "abc", false},
		{"too short", "ab", "", true},
		{"too short after trim", " a ", "", true},
		{"empty", "", "", true},
		{"rejects overlong", strings.Repeat("x", 300), "", true},
		{"multibyte at byte limit", strings.Repeat("é", 100), strings.Repeat("é", 100), false},
		{"multibyte over byte limit", strings.Repeat("é", 101), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateTitle(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "this article cites a retracted study", false},
		{"minimum length", "ten chars!", false},
		{"too short", "too short", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateComment(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}

	t.Run("rejects overlong", func(t *testing.T) {
		got, errMsg := ValidateComment(strings.Repeat("y", 6000))
		if errMsg == "" {
			t.Fatal("expected error for overlong comment")
		}
		if got != "" {
			t.Errorf("rejected input must not pass through, got %q", got)
		}
	})

	// Rejection instead of byte truncation means multi-byte input can
	// never be split into invalid UTF-8.
	t.Run("multibyte never mangled", func(t *testing.T) {
		input := strings.Repeat("é", MaxCommentLen/2)
		got, errMsg := ValidateComment(input)
		if errMsg != "" {
			t.Fatalf("unexpected error: %s", errMsg)
		}
		if !utf8.ValidString(got) || got != input {
			t.Errorf("comment altered: got %q", got)
		}
	})
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http", "http://example.com/article", false},
		{"https", "https://example.com/article?id=1", false},
		{"trims whitespace", "  https://example.com  ", false},
		{"empty", "", true},
		{"ftp scheme", "ftp://example.com/file", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 3000), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateURL(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	for rating := 0; rating <= 5; rating++ {
		if errMsg := ValidateRating(rating); errMsg != "" {
			t.Errorf("rating %d: unexpected error: %s", rating, errMsg)
		}
	}
	for _, rating := range []int{-1, 6, 100} {
		if errMsg := ValidateRating(rating); errMsg == "" {
			t.Errorf("rating %d: expected error, got none", rating)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "user@example.com", false},
		{"trims whitespace", "  user@example.com  ", false},
		{"empty", "", true},
		{"no at sign", "userexample.com", true},
		{"at sign first", "@example.com", true},
		{"at sign last", "user@", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateEmail(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if errMsg := ValidatePassword("longenough"); errMsg != "" {
		t.Errorf("unexpected error: %s", errMsg)
	}
	if errMsg := ValidatePassword("short"); errMsg == "" {
		t.Error("expected error for short password")
	}
	if errMsg := ValidatePassword(strings.Repeat("p", 200)); errMsg == "" {
		t.Error("expected error for overlong password")
	}
}

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "alice", "alice", false},
		{"trims whitespace", "  bob  ", "bob", false},
		{"empty", "", "", true},
		{"exactly 64", strings.Repeat("u", 64), strings.Repeat("u", 64), false},
		{"too long 65", strings.Repeat("u", 65), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateUserID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
