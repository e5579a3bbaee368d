package extract

import (
	"reflect"
	"testing"
)

func TestHeuristicExtract_LabelledLines(t *testing.T) {
	text := `Title: Launch the Solstice Sneaker
Objective: Drive 10k preorders in Q3
Target Audience: Urban runners aged 18-30
Value Proposition: Recycled materials without the eco-tax
Product: Solstice running shoe
Industry: Athletic footwear
Budget: $250,000
Timeline: June through August
Constraints: No influencer partnerships`

	brief := HeuristicExtract(text)

	if brief.Title != "Launch the Solstice Sneaker" {
		t.Errorf("Title = %q", brief.Title)
	}
	if brief.Objective != "Drive 10k preorders in Q3" {
		t.Errorf("Objective = %q", brief.Objective)
	}
	if brief.TargetAudience != "Urban runners aged 18-30" {
		t.Errorf("TargetAudience = %q", brief.TargetAudience)
	}
	if brief.ValueProposition != "Recycled materials without the eco-tax" {
		t.Errorf("ValueProposition = %q", brief.ValueProposition)
	}
	if brief.Product != "Solstice running shoe" {
		t.Errorf("Product = %q", brief.Product)
	}
	if brief.Industry != "Athletic footwear" {
		t.Errorf("Industry = %q", brief.Industry)
	}
	if brief.Budget != "$250,000" {
		t.Errorf("Budget = %q", brief.Budget)
	}
	if brief.Timeline != "June through August" {
		t.Errorf("Timeline = %q", brief.Timeline)
	}
	if brief.Constraints != "No influencer partnerships" {
		t.Errorf("Constraints = %q", brief.Constraints)
	}
}

func TestHeuristicExtract_AlternateLabels(t *testing.T) {
	text := `Goal: Build brand awareness
Audience: First-time home buyers
USP: Zero closing fees`

	brief := HeuristicExtract(text)
	if brief.Objective != "Build brand awareness" {
		t.Errorf("Objective = %q, 'Goal' label must map to objective", brief.Objective)
	}
	if brief.TargetAudience != "First-time home buyers" {
		t.Errorf("TargetAudience = %q", brief.TargetAudience)
	}
	if brief.ValueProposition != "Zero closing fees" {
		t.Errorf("ValueProposition = %q, 'USP' label must map to value proposition", brief.ValueProposition)
	}
}

func TestHeuristicExtract_KeyMessageBullets(t *testing.T) {
	text := `# Key Messages
- Fast and friendly
- Always on time
- Fast and Friendly

Something unrelated below.`

	brief := HeuristicExtract(text)
	want := []string{"Fast and friendly", "Always on time"}
	if !reflect.DeepEqual(brief.KeyMessages, want) {
		t.Errorf("KeyMessages = %v, want %v (deduplicated)", brief.KeyMessages, want)
	}
}

func TestHeuristicExtract_PlatformScan(t *testing.T) {
	text := "We want this on Instagram and TikTok, maybe YouTube later."

	brief := HeuristicExtract(text)
	want := []string{"instagram", "tiktok", "youtube"}
	if !reflect.DeepEqual(brief.Platforms, want) {
		t.Errorf("Platforms = %v, want %v", brief.Platforms, want)
	}
}

func TestHeuristicExtract_TitleFromHeading(t *testing.T) {
	text := `## Summer Splash Campaign

Objective: Sell more lemonade`

	brief := HeuristicExtract(text)
	if brief.Title != "Summer Splash Campaign" {
		t.Errorf("Title = %q, want the markdown heading", brief.Title)
	}
}

func TestHeuristicExtract_TitleFromFirstLine(t *testing.T) {
	text := `A campaign for people who love mornings
and other assorted notes`

	brief := HeuristicExtract(text)
	if brief.Title != "A campaign for people who love mornings" {
		t.Errorf("Title = %q, want the first non-empty line", brief.Title)
	}
}

func TestHeuristicExtract_EmptyText(t *testing.T) {
	brief := HeuristicExtract("")
	if !brief.IsEmpty() {
		t.Errorf("Expected an empty brief from empty text, got %+v", brief)
	}
}
