package injector

import (
	"testing"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
)

func postsWithReputations(reps ...float64) []model.Post {
	posts := make([]model.Post, len(reps))
	for i, r := range reps {
		posts[i] = model.Post{ID: string(rune('a' + i)), Title: "post", Reputation: r}
	}
	return posts
}

func TestMaxReputation(t *testing.T) {
	tests := []struct {
		name   string
		reps   []float64
		want   float64
		wantOK bool
	}{
		{"empty", nil, 0, false},
		{"single", []float64{2.5}, 2.5, true},
		{"max in middle", []float64{0.5, 4.2, 3.0}, 4.2, true},
		{"max first", []float64{5.0, 1.0}, 5.0, true},
		{"all zero", []float64{0, 0, 0}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MaxReputation(postsWithReputations(tt.reps...))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaxReputation_TieBreakIsStable(t *testing.T) {
	// Equal maxima: the first occurrence wins, so repeated calls on the
	// same slice give the same answer.
	posts := postsWithReputations(3.0, 3.0, 1.0)
	first, _ := MaxReputation(posts)
	for i := 0; i < 10; i++ {
		got, _ := MaxReputation(posts)
		if got != first {
			t.Fatalf("call %d: got %v, want %v", i, got, first)
		}
	}
}

func TestClassify_ZeroPostsRendersNothing(t *testing.T) {
	ind := Classify(nil)
	if ind.Render {
		t.Fatal("zero posts must not render an indicator")
	}

	ind = Classify([]model.Post{})
	if ind.Render {
		t.Fatal("empty slice must not render an indicator")
	}
}

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		name      string
		rep       float64
		wantColor string
	}{
		{"green at 4.0", 4.0, ColorGreen},
		{"green above 4.0", 4.9, ColorGreen},
		{"yellow at 3.0", 3.0, ColorYellow},
		{"yellow below 4.0", 3.99, ColorYellow},
		{"orange at 2.0", 2.0, ColorOrange},
		{"red at 1.0", 1.0, ColorRed},
		{"gray below 1.0", 0.9, ColorGray},
		{"gray at zero", 0, ColorGray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := Classify(postsWithReputations(tt.rep))
			if !ind.Render {
				t.Fatal("nonzero posts must render")
			}
			if ind.Color != tt.wantColor {
				t.Errorf("color = %s, want %s", ind.Color, tt.wantColor)
			}
		})
	}
}

func TestClassify_SelectsMaximum(t *testing.T) {
	ind := Classify(postsWithReputations(0.5, 4.2, 3.0))
	if !ind.Render {
		t.Fatal("expected an indicator")
	}
	if ind.Reputation != 4.2 {
		t.Errorf("reputation = %v, want 4.2", ind.Reputation)
	}
	if ind.Color != ColorGreen {
		t.Errorf("color = %s, want %s", ind.Color, ColorGreen)
	}
	if ind.PostCount != 3 {
		t.Errorf("post count = %d, want 3", ind.PostCount)
	}
}

func TestClassify_OffersPopupAtLowReputation(t *testing.T) {
	if ind := Classify(postsWithReputations(0.5)); !ind.OfferPopup {
		t.Error("reputation 0.5 must offer the popup control")
	}
	if ind := Classify(postsWithReputations(1.0)); !ind.OfferPopup {
		t.Error("reputation exactly 1 must offer the popup control")
	}
	if ind := Classify(postsWithReputations(1.1)); ind.OfferPopup {
		t.Error("reputation above 1 must not offer the popup control")
	}
}
