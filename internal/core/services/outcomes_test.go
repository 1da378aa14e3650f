package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

func TestValidateOutcomeVocabulary(t *testing.T) {
	require.NoError(t, ValidateOutcomeVocabulary())
}

func predictFor(t *testing.T, doc domain.CampaignDocument, text string) domain.BusinessOutcomeSet {
	t.Helper()
	e := NewFeatureExtractor()
	p := NewOutcomePredictor()
	features := e.Extract(doc, text, nil)
	return p.Predict(doc, text, nil, features)
}

func TestPredict_EveryVocabularyFlagPresent(t *testing.T) {
	outcomes := predictFor(t, domain.CampaignDocument{Filename: "brief.pdf"}, "")

	total := 0
	for _, flags := range domain.OutcomeVocabulary {
		total += len(flags)
	}
	assert.Len(t, outcomes.Flags, total)
}

func TestPredict_ConversionReadyThreshold(t *testing.T) {
	doc := domain.CampaignDocument{Filename: "landing_copy.txt", FileKind: domain.FileKindDocument}

	// Call to action alone (weight 2) stays below the threshold of 4.
	outcomes := predictFor(t, doc, "Sign up for updates.")
	assert.False(t, outcomes.Has(domain.OutcomeConversionReady))

	// Call to action + urgency + value proposition crosses it.
	outcomes = predictFor(t, doc, "Sign up now! Limited time only, save 25%.")
	assert.True(t, outcomes.Has(domain.OutcomeConversionReady))
}

func TestPredict_HighEngagementThreshold(t *testing.T) {
	doc := domain.CampaignDocument{Filename: "campaign_film.mp4", FileKind: domain.FileKindVideo}

	outcomes := predictFor(t, doc, "A story of one family's journey home, told with heart.")
	// Storytelling (2) + emotional appeal (2) meets the threshold of 4.
	assert.True(t, outcomes.Has(domain.OutcomeHighEngagement))

	outcomes = predictFor(t, doc, "Product specification sheet, revision 3.")
	assert.False(t, outcomes.Has(domain.OutcomeHighEngagement))
}

func TestPredict_ViralPotentialThreshold(t *testing.T) {
	doc := domain.CampaignDocument{Filename: "tiktok_ugc_comedy.mp4", FileKind: domain.FileKindVideo}

	// Humor (2) + UGC (2) + social (1) crosses the threshold of 4.
	outcomes := predictFor(t, doc, "")
	assert.True(t, outcomes.Has(domain.OutcomeViralPotential))

	plain := domain.CampaignDocument{Filename: "annual_report.pdf", FileKind: domain.FileKindDocument}
	outcomes = predictFor(t, plain, "")
	assert.False(t, outcomes.Has(domain.OutcomeViralPotential))
}

func TestPredict_BooleanRules(t *testing.T) {
	doc := domain.CampaignDocument{Filename: "b2b_webinar_invite.html", FileKind: domain.FileKindDocument}
	outcomes := predictFor(t, doc, "Download the whitepaper and sign up for the webinar.")
	assert.True(t, outcomes.Has(domain.OutcomeLeadGeneration))

	doc = domain.CampaignDocument{Filename: "luxury_minimal_lookbook_photo.jpg", FileKind: domain.FileKindImage}
	outcomes = predictFor(t, doc, "")
	assert.True(t, outcomes.Has(domain.OutcomePremiumPerception))
}

func TestPredict_Deterministic(t *testing.T) {
	doc := domain.CampaignDocument{Filename: "summer_social_video.mp4", FileKind: domain.FileKindVideo}
	text := "Share this challenge with your friends!"

	e := NewFeatureExtractor()
	p := NewOutcomePredictor()
	features := e.Extract(doc, text, nil)

	first := p.Predict(doc, text, nil, features)
	second := p.Predict(doc, text, nil, features)

	assert.Equal(t, first, second)
}
