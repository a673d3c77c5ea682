package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MinTitleLen    = 3
	MaxTitleLen    = 200
	MinCommentLen  = 10
	MaxCommentLen  = 5000
	MaxURLLen      = 2048
	MaxEmailLen    = 254
	MinPasswordLen = 8
	MaxPasswordLen = 128
	MaxUserIDLen   = 64
)

// ErrorResponse is a helper that returns the standard API error body.
// Every error the server emits has the shape {ok:false, error:"..."}.
func ErrorResponse(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"ok":    false,
		"error": message,
	})
}

// ValidateTitle checks and trims a post title. Returns the cleaned value
// and an empty string, or a human-readable problem.
func ValidateTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "Title is required"
	}
	if len(title) > MaxTitleLen {
		return "", "Title must be at most 200 characters"
	}
	if len(title) < MinTitleLen {
		return "", "Title must be at least 3 characters"
	}
	return title, ""
}

// ValidateComment checks and trims a post comment.
func ValidateComment(comment string) (string, string) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return "", "Comment is required"
	}
	if len(comment) > MaxCommentLen {
		return "", "Comment must be at most 5000 characters"
	}
	if len(comment) < MinCommentLen {
		return "", "Comment must be at least 10 characters"
	}
	return comment, ""
}

// ValidateURL checks that a source URL is a well-formed http(s) URL.
func ValidateURL(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "URL is required"
	}
	if len(raw) > MaxURLLen {
		return "", "URL is too long"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "Invalid URL format"
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", "URL must be HTTP or HTTPS"
	}
	return raw, ""
}

// ValidateRating checks the inclusive [0,5] range.
func ValidateRating(rating int) string {
	if rating < 0 || rating > 5 {
		return "Rating must be 0 to 5"
	}
	return ""
}

// ValidateEmail does a shallow shape check; the mail server is the real
// validator.
func ValidateEmail(email string) (string, string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "Email is required"
	}
	if len(email) > MaxEmailLen {
		return "", "Email is too long"
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", "Invalid email address"
	}
	return email, ""
}

// ValidatePassword enforces length bounds only; composition rules are not
// the server's business.
func ValidatePassword(password string) string {
	if len(password) < MinPasswordLen {
		return "Password must be at least 8 characters"
	}
	if len(password) > MaxPasswordLen {
		return "Password is too long"
	}
	return ""
}

// ValidateUserID checks the shape of a caller-chosen account id.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "User id is required"
	}
	if len(id) > MaxUserIDLen {
		return "", "User id must be at most 64 characters"
	}
	return id, ""
}
