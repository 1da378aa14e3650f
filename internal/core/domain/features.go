package domain

// FeatureVocabularyVersion identifies the creative-feature vocabulary.
// Bump this whenever a flag is added, removed or renamed so persisted
// feature sets can be told apart.
const FeatureVocabularyVersion = "v1"

// FeatureCategory groups creative-feature flags.
type FeatureCategory string

const (
	// FeatureContent describes what the asset shows or tells.
	FeatureContent FeatureCategory = "content"

	// FeatureDesign describes visual treatment.
	FeatureDesign FeatureCategory = "design"

	// FeatureMessaging describes the copy strategy.
	FeatureMessaging FeatureCategory = "messaging"

	// FeatureTargeting describes the intended audience.
	FeatureTargeting FeatureCategory = "targeting"

	// FeatureChannel describes distribution placement.
	FeatureChannel FeatureCategory = "channel"

	// FeatureDetected describes incidental signals found in the asset.
	FeatureDetected FeatureCategory = "detected"
)

// Creative-feature flag names, vocabulary v1. Flags referenced from the
// outcome rule tables use these constants rather than string literals.
const (
	FeatureVideoContent    = "video_content"
	FeatureProductDemo     = "product_demo"
	FeatureTestimonial     = "testimonial"
	FeatureStorytelling    = "storytelling"
	FeatureUserGenerated   = "user_generated"
	FeatureBehindTheScenes = "behind_the_scenes"

	FeatureMinimalistDesign = "minimalist_design"
	FeatureBoldTypography   = "bold_typography"
	FeatureVibrantColors    = "vibrant_colors"
	FeatureMotionGraphics   = "motion_graphics"
	FeaturePhotographyLed   = "photography_led"

	FeatureEmotionalAppeal  = "emotional_appeal"
	FeatureHumor            = "humor"
	FeatureUrgencyMessaging = "urgency_messaging"
	FeatureValueProposition = "value_proposition"
	FeatureSocialProof      = "social_proof"
	FeatureCallToAction     = "call_to_action"

	FeatureGenZFocus         = "gen_z_focus"
	FeatureMillennialFocus   = "millennial_focus"
	FeatureB2BFocus          = "b2b_focus"
	FeatureFamilyOriented    = "family_oriented"
	FeatureLuxuryPositioning = "luxury_positioning"

	FeatureSocialMediaOptimized    = "social_media_optimized"
	FeatureEmailCampaign           = "email_campaign"
	FeatureOutOfHome               = "out_of_home"
	FeaturePaidSearch              = "paid_search"
	FeatureCrossChannelConsistency = "cross_channel_consistency"
	FeatureMultiFormatAdaptation   = "multi_format_adaptation"

	FeatureInteractiveElements = "interactive_elements"
	FeatureAwardMention        = "award_mention"
	FeatureSeasonalTheme       = "seasonal_theme"
)

// FeatureVocabulary is the fixed flag vocabulary per category. The feature
// rule table is validated against it at startup.
var FeatureVocabulary = map[FeatureCategory][]string{
	FeatureContent: {
		FeatureVideoContent, FeatureProductDemo, FeatureTestimonial,
		FeatureStorytelling, FeatureUserGenerated, FeatureBehindTheScenes,
	},
	FeatureDesign: {
		FeatureMinimalistDesign, FeatureBoldTypography, FeatureVibrantColors,
		FeatureMotionGraphics, FeaturePhotographyLed,
	},
	FeatureMessaging: {
		FeatureEmotionalAppeal, FeatureHumor, FeatureUrgencyMessaging,
		FeatureValueProposition, FeatureSocialProof, FeatureCallToAction,
	},
	FeatureTargeting: {
		FeatureGenZFocus, FeatureMillennialFocus, FeatureB2BFocus,
		FeatureFamilyOriented, FeatureLuxuryPositioning,
	},
	FeatureChannel: {
		FeatureSocialMediaOptimized, FeatureEmailCampaign, FeatureOutOfHome,
		FeaturePaidSearch, FeatureCrossChannelConsistency, FeatureMultiFormatAdaptation,
	},
	FeatureDetected: {
		FeatureInteractiveElements, FeatureAwardMention, FeatureSeasonalTheme,
	},
}

// CreativeFeatureSet holds the boolean creative-feature flags for one
// document. It is a pure, deterministic function of (filename, extracted
// text, sibling documents): identical inputs always yield identical flags.
type CreativeFeatureSet struct {
	// Version is the vocabulary version the flags were derived under.
	Version string `json:"version"`

	// Flags maps flag name to value. Every vocabulary flag is present.
	Flags map[string]bool `json:"flags"`
}

// Has reports whether the named flag is set.
func (s CreativeFeatureSet) Has(flag string) bool {
	return s.Flags[flag]
}

// Count returns the number of set flags.
func (s CreativeFeatureSet) Count() int {
	n := 0
	for _, v := range s.Flags {
		if v {
			n++
		}
	}
	return n
}
