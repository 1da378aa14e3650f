package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

func TestDeriveCampaignKey(t *testing.T) {
	tests := []struct {
		name         string
		relPath      string
		wantClient   string
		wantCampaign string
	}{
		{"client and campaign", "nike/summer_2026/hero.jpg", "nike", "summer_2026"},
		{"deep nesting keeps first two segments", "nike/summer_2026/social/story_1.mp4", "nike", "summer_2026"},
		{"campaign only", "holiday_push/brief.pdf", "", "holiday_push"},
		{"flat video", "brand_launch_video1.mp4", "", "brand_launch"},
		{"flat image", "brand_launch_hero.jpg", "", "brand_launch"},
		{"flat deck", "brand_launch_deck.pptx", "", "brand_launch"},
		{"single token filename", "brief.pdf", "", "brief"},
		{"backslash separators", "acme\\spring\\banner.png", "acme", "spring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, campaign := DeriveCampaignKey(tt.relPath)
			assert.Equal(t, tt.wantClient, client)
			assert.Equal(t, tt.wantCampaign, campaign)
		})
	}
}

func TestDeriveCampaignKey_FlatSiblingsShareCampaign(t *testing.T) {
	_, a := DeriveCampaignKey("brand_launch_video1.mp4")
	_, b := DeriveCampaignKey("brand_launch_hero.jpg")
	_, c := DeriveCampaignKey("brand_launch_deck.pptx")

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestGroupByCampaign(t *testing.T) {
	docs := []domain.CampaignDocument{
		{ID: "1", CampaignName: "summer"},
		{ID: "2", CampaignName: "winter"},
		{ID: "3", CampaignName: "summer"},
	}

	groups := GroupByCampaign(docs)

	assert.Len(t, groups, 2)
	assert.Len(t, groups["summer"], 2)
	assert.Len(t, groups["winter"], 1)
	// Input order is preserved within a group.
	assert.Equal(t, "1", groups["summer"][0].ID)
	assert.Equal(t, "3", groups["summer"][1].ID)
}
