package domain

// OutcomeCategory groups business-outcome flags.
type OutcomeCategory string

const (
	// OutcomeEngagement covers attention and interaction effects.
	OutcomeEngagement OutcomeCategory = "engagement"

	// OutcomeConversion covers direct-response effects.
	OutcomeConversion OutcomeCategory = "conversion"

	// OutcomeBrand covers brand perception effects.
	OutcomeBrand OutcomeCategory = "brand"

	// OutcomeEfficiency covers production and media efficiency.
	OutcomeEfficiency OutcomeCategory = "efficiency"

	// OutcomeBehavioral covers audience behaviour effects.
	OutcomeBehavioral OutcomeCategory = "behavioral"

	// OutcomeFocus covers the inferred business focus of the asset.
	OutcomeFocus OutcomeCategory = "focus"
)

// Business-outcome flag names.
const (
	OutcomeHighEngagement    = "high_engagement"
	OutcomeAudienceRetention = "audience_retention"
	OutcomeSocialSharing     = "social_sharing"

	OutcomeConversionReady = "conversion_ready"
	OutcomeLeadGeneration  = "lead_generation"
	OutcomePurchaseIntent  = "purchase_intent"

	OutcomeBrandLift         = "brand_lift"
	OutcomeBrandRecall       = "brand_recall"
	OutcomePremiumPerception = "premium_perception"

	OutcomeCostEfficient = "cost_efficient"
	OutcomeReusableAsset = "reusable_asset"

	OutcomeViralPotential = "viral_potential"
	OutcomeRepeatViewing  = "repeat_viewing"

	OutcomeAwarenessFocus   = "awareness_focus"
	OutcomePerformanceFocus = "performance_focus"
	OutcomeLoyaltyFocus     = "loyalty_focus"
)

// OutcomeVocabulary is the fixed business-outcome vocabulary per category.
var OutcomeVocabulary = map[OutcomeCategory][]string{
	OutcomeEngagement: {OutcomeHighEngagement, OutcomeAudienceRetention, OutcomeSocialSharing},
	OutcomeConversion: {OutcomeConversionReady, OutcomeLeadGeneration, OutcomePurchaseIntent},
	OutcomeBrand:      {OutcomeBrandLift, OutcomeBrandRecall, OutcomePremiumPerception},
	OutcomeEfficiency: {OutcomeCostEfficient, OutcomeReusableAsset},
	OutcomeBehavioral: {OutcomeViralPotential, OutcomeRepeatViewing},
	OutcomeFocus:      {OutcomeAwarenessFocus, OutcomePerformanceFocus, OutcomeLoyaltyFocus},
}

// BusinessOutcomeSet holds the predicted business-outcome flags for one
// document, derived from its CreativeFeatureSet plus text heuristics.
// Same determinism invariant as CreativeFeatureSet.
type BusinessOutcomeSet struct {
	// Flags maps flag name to prediction. Every vocabulary flag is present.
	Flags map[string]bool `json:"flags"`
}

// Has reports whether the named flag is set.
func (s BusinessOutcomeSet) Has(flag string) bool {
	return s.Flags[flag]
}

// Count returns the number of set flags.
func (s BusinessOutcomeSet) Count() int {
	n := 0
	for _, v := range s.Flags {
		if v {
			n++
		}
	}
	return n
}
