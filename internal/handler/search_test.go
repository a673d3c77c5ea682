package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
)

func TestSearchRejectsBadRequests(t *testing.T) {
	app := fiber.New()
	app.Get("/search", NewSearchHandler(nil, nil).Search)

	tests := []struct {
		name   string
		target string
	}{
		{"missing query", "/search"},
		{"blank query", "/search?q=%20%20"},
		{"invalid type", "/search?q=vaccine&type=users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.target, nil))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("got status %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
			}
			var body struct {
				OK    bool   `json:"ok"`
				Error string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.OK || body.Error == "" {
				t.Errorf("want {ok:false, error:...} body, got %+v", body)
			}
		})
	}
}

func TestSearchResponseWireShape(t *testing.T) {
	b, err := json.Marshal(model.SearchResponse{OK: true, Type: "sources", Results: []model.SearchResult{}})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"ok":true,"type":"sources","results":[]}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}
