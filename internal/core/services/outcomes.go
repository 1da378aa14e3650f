package services

import (
	"fmt"
	"strings"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// outcomeInput is what outcome predicates see: the shared rule input plus the
// already-derived feature set.
type outcomeInput struct {
	ruleInput
	features domain.CreativeFeatureSet
}

// weightedSignal is one contributing signal of a scored outcome.
// Weights are integers so thresholds stay exact and inspectable.
type weightedSignal struct {
	name   string
	weight int
	match  func(in outcomeInput) bool
}

// scoredOutcomeRule sums its signal weights against a fixed threshold.
type scoredOutcomeRule struct {
	flag      string
	category  domain.OutcomeCategory
	threshold int
	signals   []weightedSignal
}

// booleanOutcomeRule is a plain boolean combination over features and text.
type booleanOutcomeRule struct {
	flag     string
	category domain.OutcomeCategory
	match    func(in outcomeInput) bool
}

func hasFeature(flag string) func(in outcomeInput) bool {
	return func(in outcomeInput) bool { return in.features.Has(flag) }
}

func hasKeyword(keywords ...string) func(in outcomeInput) bool {
	return func(in outcomeInput) bool { return anyHas(in.ruleInput, keywords...) }
}

// scoredOutcomeRules are the weighted-sum outcome predictions. Each table is
// tunable independently of control flow; thresholds are part of the rule.
var scoredOutcomeRules = []scoredOutcomeRule{
	{
		flag:      domain.OutcomeHighEngagement,
		category:  domain.OutcomeEngagement,
		threshold: 4,
		signals: []weightedSignal{
			{"storytelling", 2, hasFeature(domain.FeatureStorytelling)},
			{"emotional appeal", 2, hasFeature(domain.FeatureEmotionalAppeal)},
			{"interactive elements", 2, hasFeature(domain.FeatureInteractiveElements)},
			{"motion graphics", 1, hasFeature(domain.FeatureMotionGraphics)},
			{"award or viral mention", 2, hasKeyword("award", "viral", "trending")},
		},
	},
	{
		flag:      domain.OutcomeViralPotential,
		category:  domain.OutcomeBehavioral,
		threshold: 4,
		signals: []weightedSignal{
			{"humor", 2, hasFeature(domain.FeatureHumor)},
			{"user generated", 2, hasFeature(domain.FeatureUserGenerated)},
			{"social optimised", 1, hasFeature(domain.FeatureSocialMediaOptimized)},
			{"challenge or viral keyword", 2, hasKeyword("viral", "challenge", "share this")},
			{"interactive elements", 1, hasFeature(domain.FeatureInteractiveElements)},
		},
	},
	{
		flag:      domain.OutcomeConversionReady,
		category:  domain.OutcomeConversion,
		threshold: 4,
		signals: []weightedSignal{
			{"call to action", 2, hasFeature(domain.FeatureCallToAction)},
			{"urgency", 2, hasFeature(domain.FeatureUrgencyMessaging)},
			{"value proposition", 2, hasFeature(domain.FeatureValueProposition)},
			{"social proof", 1, hasFeature(domain.FeatureSocialProof)},
			{"paid search placement", 1, hasFeature(domain.FeaturePaidSearch)},
		},
	},
}

// booleanOutcomeRules are the remaining outcome predictions.
var booleanOutcomeRules = []booleanOutcomeRule{
	{domain.OutcomeAudienceRetention, domain.OutcomeEngagement, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureStorytelling) &&
			(in.features.Has(domain.FeatureVideoContent) || in.features.Has(domain.FeatureMotionGraphics))
	}},
	{domain.OutcomeSocialSharing, domain.OutcomeEngagement, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureSocialMediaOptimized) &&
			(in.features.Has(domain.FeatureHumor) || in.features.Has(domain.FeatureEmotionalAppeal) || in.features.Has(domain.FeatureUserGenerated))
	}},
	{domain.OutcomeLeadGeneration, domain.OutcomeConversion, func(in outcomeInput) bool {
		if in.features.Has(domain.FeatureB2BFocus) && in.features.Has(domain.FeatureCallToAction) {
			return true
		}
		return anyHas(in.ruleInput, "lead", "webinar", "download the", "gated")
	}},
	{domain.OutcomePurchaseIntent, domain.OutcomeConversion, func(in outcomeInput) bool {
		return (in.features.Has(domain.FeatureCallToAction) && in.features.Has(domain.FeatureValueProposition)) ||
			anyHas(in.ruleInput, "buy now", "add to cart")
	}},
	{domain.OutcomeBrandLift, domain.OutcomeBrand, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureCrossChannelConsistency) &&
			(in.features.Has(domain.FeatureStorytelling) || in.features.Has(domain.FeatureEmotionalAppeal))
	}},
	{domain.OutcomeBrandRecall, domain.OutcomeBrand, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureBoldTypography) || in.features.Has(domain.FeatureVibrantColors) ||
			in.features.Has(domain.FeatureMotionGraphics)
	}},
	{domain.OutcomePremiumPerception, domain.OutcomeBrand, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureLuxuryPositioning) &&
			(in.features.Has(domain.FeatureMinimalistDesign) || in.features.Has(domain.FeaturePhotographyLed))
	}},
	{domain.OutcomeCostEfficient, domain.OutcomeEfficiency, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureMultiFormatAdaptation) || in.features.Has(domain.FeatureUserGenerated)
	}},
	{domain.OutcomeReusableAsset, domain.OutcomeEfficiency, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureMultiFormatAdaptation) || anyHas(in.ruleInput, "template", "toolkit", "master asset")
	}},
	{domain.OutcomeRepeatViewing, domain.OutcomeBehavioral, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureHumor) || in.features.Has(domain.FeatureBehindTheScenes)
	}},
	{domain.OutcomeAwarenessFocus, domain.OutcomeFocus, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureOutOfHome) || in.features.Has(domain.FeatureSocialMediaOptimized) ||
			in.features.Has(domain.FeatureVideoContent)
	}},
	{domain.OutcomePerformanceFocus, domain.OutcomeFocus, func(in outcomeInput) bool {
		return in.features.Has(domain.FeaturePaidSearch) || in.features.Has(domain.FeatureCallToAction) ||
			in.features.Has(domain.FeatureUrgencyMessaging)
	}},
	{domain.OutcomeLoyaltyFocus, domain.OutcomeFocus, func(in outcomeInput) bool {
		return in.features.Has(domain.FeatureEmailCampaign) || anyHas(in.ruleInput, "loyalty", "rewards", "members")
	}},
}

// OutcomePredictor derives business-outcome flags from creative features
// plus text heuristics. Pure function, no external model call: an explicit,
// inspectable rule table.
type OutcomePredictor struct{}

// NewOutcomePredictor creates an outcome predictor.
func NewOutcomePredictor() *OutcomePredictor {
	return &OutcomePredictor{}
}

// Predict evaluates every outcome rule. Identical inputs always yield
// identical flag sets.
func (p *OutcomePredictor) Predict(doc domain.CampaignDocument, text string, siblings []domain.CampaignDocument, features domain.CreativeFeatureSet) domain.BusinessOutcomeSet {
	in := outcomeInput{
		ruleInput: ruleInput{
			doc:      doc,
			filename: strings.ToLower(doc.Filename),
			text:     strings.ToLower(text),
			siblings: siblings,
		},
		features: features,
	}

	flags := make(map[string]bool, len(scoredOutcomeRules)+len(booleanOutcomeRules))
	for _, rule := range scoredOutcomeRules {
		flags[rule.flag] = rule.score(in) >= rule.threshold
	}
	for _, rule := range booleanOutcomeRules {
		flags[rule.flag] = rule.match(in)
	}

	return domain.BusinessOutcomeSet{Flags: flags}
}

// score sums the weights of matching signals.
func (r scoredOutcomeRule) score(in outcomeInput) int {
	total := 0
	for _, sig := range r.signals {
		if sig.match(in) {
			total += sig.weight
		}
	}
	return total
}

// ValidateOutcomeVocabulary verifies the outcome rule tables against the
// fixed vocabulary, mirroring ValidateFeatureVocabulary.
func ValidateOutcomeVocabulary() error {
	expected := make(map[string]domain.OutcomeCategory)
	for category, flags := range domain.OutcomeVocabulary {
		for _, flag := range flags {
			expected[flag] = category
		}
	}

	seen := make(map[string]bool)
	check := func(flag string, category domain.OutcomeCategory) error {
		want, ok := expected[flag]
		if !ok {
			return fmt.Errorf("%w: outcome rule %q not in vocabulary", domain.ErrInvalidConfiguration, flag)
		}
		if want != category {
			return fmt.Errorf("%w: outcome rule %q declared %s, vocabulary says %s", domain.ErrInvalidConfiguration, flag, category, want)
		}
		if seen[flag] {
			return fmt.Errorf("%w: duplicate outcome rule %q", domain.ErrInvalidConfiguration, flag)
		}
		seen[flag] = true
		return nil
	}

	for _, rule := range scoredOutcomeRules {
		if err := check(rule.flag, rule.category); err != nil {
			return err
		}
		if rule.threshold <= 0 {
			return fmt.Errorf("%w: outcome rule %q threshold must be positive", domain.ErrInvalidConfiguration, rule.flag)
		}
	}
	for _, rule := range booleanOutcomeRules {
		if err := check(rule.flag, rule.category); err != nil {
			return err
		}
	}

	for flag := range expected {
		if !seen[flag] {
			return fmt.Errorf("%w: outcome vocabulary flag %q has no rule", domain.ErrInvalidConfiguration, flag)
		}
	}

	return nil
}
