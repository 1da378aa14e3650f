package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

func TestValidateFeatureVocabulary(t *testing.T) {
	require.NoError(t, ValidateFeatureVocabulary())
}

func TestExtract_EveryVocabularyFlagPresent(t *testing.T) {
	e := NewFeatureExtractor()
	doc := domain.CampaignDocument{Filename: "brief.pdf", FileKind: domain.FileKindDocument}

	features := e.Extract(doc, "", nil)

	total := 0
	for _, flags := range domain.FeatureVocabulary {
		total += len(flags)
	}
	assert.Len(t, features.Flags, total)
	assert.Equal(t, domain.FeatureVocabularyVersion, features.Version)
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewFeatureExtractor()
	doc := domain.CampaignDocument{Filename: "summer_social_video.mp4", FileKind: domain.FileKindVideo}
	siblings := []domain.CampaignDocument{doc, {Filename: "summer_email.html", FileKind: domain.FileKindDocument}}
	text := "Limited time offer. Shop now and save 20% off."

	first := e.Extract(doc, text, siblings)
	second := e.Extract(doc, text, siblings)

	assert.Equal(t, first, second)
}

func TestExtract_VideoContentFromFileKind(t *testing.T) {
	e := NewFeatureExtractor()
	doc := domain.CampaignDocument{Filename: "hero.mp4", FileKind: domain.FileKindVideo}

	features := e.Extract(doc, "", nil)

	assert.True(t, features.Has(domain.FeatureVideoContent))
}

func TestExtract_TextPredicates(t *testing.T) {
	e := NewFeatureExtractor()
	doc := domain.CampaignDocument{Filename: "copy_deck.txt", FileKind: domain.FileKindDocument}
	text := "Shop now! Limited time only. Trusted by 10,000 customers. Save 30% today."

	features := e.Extract(doc, text, nil)

	assert.True(t, features.Has(domain.FeatureCallToAction))
	assert.True(t, features.Has(domain.FeatureUrgencyMessaging))
	assert.True(t, features.Has(domain.FeatureSocialProof))
	assert.True(t, features.Has(domain.FeatureValueProposition))
}

func TestExtract_EmptyTextDegradesToFilenameOnly(t *testing.T) {
	e := NewFeatureExtractor()
	doc := domain.CampaignDocument{Filename: "ugc_instagram_reel.mp4", FileKind: domain.FileKindVideo}

	features := e.Extract(doc, "", nil)

	assert.True(t, features.Has(domain.FeatureUserGenerated))
	assert.True(t, features.Has(domain.FeatureSocialMediaOptimized))
	// Text-only predicates stay false without text.
	assert.False(t, features.Has(domain.FeatureCallToAction))
	assert.False(t, features.Has(domain.FeatureStorytelling))
}

func TestExtract_CrossChannelConsistencyNeedsTwoChannels(t *testing.T) {
	e := NewFeatureExtractor()
	doc := domain.CampaignDocument{Filename: "launch_social_post.png", FileKind: domain.FileKindImage}

	oneChannel := []domain.CampaignDocument{
		{Filename: "launch_social_post.png"},
		{Filename: "launch_brief.pdf"},
	}
	features := e.Extract(doc, "", oneChannel)
	assert.False(t, features.Has(domain.FeatureCrossChannelConsistency))

	twoChannels := []domain.CampaignDocument{
		{Filename: "launch_social_post.png"},
		{Filename: "launch_email_blast.html"},
	}
	features = e.Extract(doc, "", twoChannels)
	assert.True(t, features.Has(domain.FeatureCrossChannelConsistency))
}

func TestExtract_MultiFormatAdaptationNeedsThreeKinds(t *testing.T) {
	e := NewFeatureExtractor()
	doc := domain.CampaignDocument{Filename: "hero.jpg", FileKind: domain.FileKindImage}

	twoKinds := []domain.CampaignDocument{
		{FileKind: domain.FileKindImage},
		{FileKind: domain.FileKindVideo},
	}
	features := e.Extract(doc, "", twoKinds)
	assert.False(t, features.Has(domain.FeatureMultiFormatAdaptation))

	threeKinds := []domain.CampaignDocument{
		{FileKind: domain.FileKindImage},
		{FileKind: domain.FileKindVideo},
		{FileKind: domain.FileKindPresentation},
	}
	features = e.Extract(doc, "", threeKinds)
	assert.True(t, features.Has(domain.FeatureMultiFormatAdaptation))
}
