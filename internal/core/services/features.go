package services

import (
	"fmt"
	"strings"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// ruleInput is the normalised input every predicate sees. Filename and text
// are lowercased once up front; siblings is the whole campaign group
// including the document under analysis.
type ruleInput struct {
	doc      domain.CampaignDocument
	filename string
	text     string
	siblings []domain.CampaignDocument
}

// featureRule binds one vocabulary flag to its predicate. Predicates are
// pure, never panic, and degrade to false on empty text.
type featureRule struct {
	flag     string
	category domain.FeatureCategory
	match    func(in ruleInput) bool
}

// channelKeywords identify distribution channels in filenames for the
// cross-channel consistency predicate.
var channelKeywords = []string{"social", "instagram", "tiktok", "facebook", "email", "newsletter", "billboard", "ooh", "search", "ppc", "video", "tv"}

// featureRules is the versioned rule table for creative-feature extraction.
// One rule per vocabulary flag; validated at startup by
// ValidateFeatureVocabulary.
var featureRules = []featureRule{
	// Content.
	{domain.FeatureVideoContent, domain.FeatureContent, func(in ruleInput) bool {
		return in.doc.FileKind == domain.FileKindVideo || nameHas(in, "video", "reel", "spot", "cutdown")
	}},
	{domain.FeatureProductDemo, domain.FeatureContent, func(in ruleInput) bool {
		return anyHas(in, "demo", "how it works", "walkthrough", "tutorial")
	}},
	{domain.FeatureTestimonial, domain.FeatureContent, func(in ruleInput) bool {
		return anyHas(in, "testimonial", "customer story", "case study", "review")
	}},
	{domain.FeatureStorytelling, domain.FeatureContent, func(in ruleInput) bool {
		return textHas(in, "story", "journey", "narrative", "chapter")
	}},
	{domain.FeatureUserGenerated, domain.FeatureContent, func(in ruleInput) bool {
		return anyHas(in, "ugc", "user generated", "user-generated", "creator content")
	}},
	{domain.FeatureBehindTheScenes, domain.FeatureContent, func(in ruleInput) bool {
		return anyHas(in, "behind the scenes", "bts", "making of")
	}},

	// Design.
	{domain.FeatureMinimalistDesign, domain.FeatureDesign, func(in ruleInput) bool {
		return anyHas(in, "minimal", "whitespace", "clean design", "understated")
	}},
	{domain.FeatureBoldTypography, domain.FeatureDesign, func(in ruleInput) bool {
		return anyHas(in, "bold type", "typography", "headline treatment", "big type")
	}},
	{domain.FeatureVibrantColors, domain.FeatureDesign, func(in ruleInput) bool {
		return anyHas(in, "vibrant", "neon", "colorful", "colourful", "saturated")
	}},
	{domain.FeatureMotionGraphics, domain.FeatureDesign, func(in ruleInput) bool {
		return anyHas(in, "motion", "animated", "animation", "kinetic")
	}},
	{domain.FeaturePhotographyLed, domain.FeatureDesign, func(in ruleInput) bool {
		return in.doc.FileKind == domain.FileKindImage && nameHas(in, "photo", "shoot", "hero", "still")
	}},

	// Messaging.
	{domain.FeatureEmotionalAppeal, domain.FeatureMessaging, func(in ruleInput) bool {
		return textHas(in, "love", "family", "dream", "heart", "inspire", "belong")
	}},
	{domain.FeatureHumor, domain.FeatureMessaging, func(in ruleInput) bool {
		return anyHas(in, "funny", "humor", "humour", "comedy", "parody")
	}},
	{domain.FeatureUrgencyMessaging, domain.FeatureMessaging, func(in ruleInput) bool {
		return textHas(in, "limited time", "act now", "last chance", "today only", "ends soon")
	}},
	{domain.FeatureValueProposition, domain.FeatureMessaging, func(in ruleInput) bool {
		return textHas(in, "save", "free", "% off", "discount", "best value")
	}},
	{domain.FeatureSocialProof, domain.FeatureMessaging, func(in ruleInput) bool {
		return textHas(in, "rated", "trusted by", "5 stars", "reviews", "customers agree")
	}},
	{domain.FeatureCallToAction, domain.FeatureMessaging, func(in ruleInput) bool {
		return textHas(in, "shop now", "sign up", "learn more", "buy now", "subscribe", "get started")
	}},

	// Targeting.
	{domain.FeatureGenZFocus, domain.FeatureTargeting, func(in ruleInput) bool {
		return anyHas(in, "gen z", "gen-z", "genz", "tiktok")
	}},
	{domain.FeatureMillennialFocus, domain.FeatureTargeting, func(in ruleInput) bool {
		return anyHas(in, "millennial", "young professional")
	}},
	{domain.FeatureB2BFocus, domain.FeatureTargeting, func(in ruleInput) bool {
		return anyHas(in, "b2b", "enterprise", "whitepaper", "roi", "procurement")
	}},
	{domain.FeatureFamilyOriented, domain.FeatureTargeting, func(in ruleInput) bool {
		return anyHas(in, "family", "kids", "parents", "household")
	}},
	{domain.FeatureLuxuryPositioning, domain.FeatureTargeting, func(in ruleInput) bool {
		return anyHas(in, "luxury", "premium", "exclusive", "bespoke")
	}},

	// Channel.
	{domain.FeatureSocialMediaOptimized, domain.FeatureChannel, func(in ruleInput) bool {
		return anyHas(in, "social", "instagram", "tiktok", "facebook", "story format", "9x16")
	}},
	{domain.FeatureEmailCampaign, domain.FeatureChannel, func(in ruleInput) bool {
		return anyHas(in, "email", "newsletter", "subject line", "edm")
	}},
	{domain.FeatureOutOfHome, domain.FeatureChannel, func(in ruleInput) bool {
		return anyHas(in, "billboard", "ooh", "out of home", "transit", "48sheet")
	}},
	{domain.FeaturePaidSearch, domain.FeatureChannel, func(in ruleInput) bool {
		return anyHas(in, "ppc", "sem", "paid search", "adwords", "search ad")
	}},
	{domain.FeatureCrossChannelConsistency, domain.FeatureChannel, func(in ruleInput) bool {
		return distinctChannels(in.siblings) >= 2
	}},
	{domain.FeatureMultiFormatAdaptation, domain.FeatureChannel, func(in ruleInput) bool {
		return distinctFileKinds(in.siblings) >= 3
	}},

	// Detected.
	{domain.FeatureInteractiveElements, domain.FeatureDetected, func(in ruleInput) bool {
		return anyHas(in, "interactive", "quiz", "poll", "swipe up", "ar filter")
	}},
	{domain.FeatureAwardMention, domain.FeatureDetected, func(in ruleInput) bool {
		return anyHas(in, "award", "cannes", "winner", "shortlist")
	}},
	{domain.FeatureSeasonalTheme, domain.FeatureDetected, func(in ruleInput) bool {
		return anyHas(in, "holiday", "christmas", "summer", "black friday", "seasonal", "valentine")
	}},
}

// nameHas reports whether the lowercased filename contains any keyword.
func nameHas(in ruleInput, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(in.filename, kw) {
			return true
		}
	}
	return false
}

// textHas reports whether the lowercased text contains any keyword.
// Empty text degrades to false.
func textHas(in ruleInput, keywords ...string) bool {
	if in.text == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(in.text, kw) {
			return true
		}
	}
	return false
}

// anyHas checks filename and text.
func anyHas(in ruleInput, keywords ...string) bool {
	return nameHas(in, keywords...) || textHas(in, keywords...)
}

// distinctChannels counts distinct channel keywords across sibling filenames.
func distinctChannels(siblings []domain.CampaignDocument) int {
	seen := make(map[string]bool)
	for _, doc := range siblings {
		name := strings.ToLower(doc.Filename)
		for _, kw := range channelKeywords {
			if strings.Contains(name, kw) {
				seen[kw] = true
			}
		}
	}
	return len(seen)
}

// distinctFileKinds counts distinct file kinds in the sibling group.
func distinctFileKinds(siblings []domain.CampaignDocument) int {
	seen := make(map[domain.FileKind]bool)
	for _, doc := range siblings {
		seen[doc.FileKind] = true
	}
	return len(seen)
}

// FeatureExtractor derives creative-feature flags from a document, its
// extracted text and its campaign siblings. Pure, no I/O.
type FeatureExtractor struct{}

// NewFeatureExtractor creates a feature extractor.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// Extract evaluates every rule in the vocabulary against the document.
// Identical inputs always yield identical flag sets.
func (e *FeatureExtractor) Extract(doc domain.CampaignDocument, text string, siblings []domain.CampaignDocument) domain.CreativeFeatureSet {
	in := ruleInput{
		doc:      doc,
		filename: strings.ToLower(doc.Filename),
		text:     strings.ToLower(text),
		siblings: siblings,
	}

	flags := make(map[string]bool, len(featureRules))
	for _, rule := range featureRules {
		flags[rule.flag] = rule.match(in)
	}

	return domain.CreativeFeatureSet{
		Version: domain.FeatureVocabularyVersion,
		Flags:   flags,
	}
}

// ValidateFeatureVocabulary verifies the rule table against the fixed
// vocabulary: every vocabulary flag has exactly one rule in its declared
// category, and no rule covers an unknown flag. Run once at startup.
func ValidateFeatureVocabulary() error {
	expected := make(map[string]domain.FeatureCategory)
	for category, flags := range domain.FeatureVocabulary {
		for _, flag := range flags {
			expected[flag] = category
		}
	}

	seen := make(map[string]bool, len(featureRules))
	for _, rule := range featureRules {
		category, ok := expected[rule.flag]
		if !ok {
			return fmt.Errorf("%w: feature rule %q not in vocabulary %s", domain.ErrInvalidConfiguration, rule.flag, domain.FeatureVocabularyVersion)
		}
		if category != rule.category {
			return fmt.Errorf("%w: feature rule %q declared %s, vocabulary says %s", domain.ErrInvalidConfiguration, rule.flag, rule.category, category)
		}
		if seen[rule.flag] {
			return fmt.Errorf("%w: duplicate feature rule %q", domain.ErrInvalidConfiguration, rule.flag)
		}
		seen[rule.flag] = true
	}

	for flag := range expected {
		if !seen[flag] {
			return fmt.Errorf("%w: vocabulary flag %q has no rule", domain.ErrInvalidConfiguration, flag)
		}
	}

	return nil
}
