package services

import "github.com/brightline-labs/campaigniq/internal/core/domain"

// Composition thresholds. Fixed; changing them changes the meaning of
// persisted composition rows.
const (
	// VideoHeavyThreshold marks campaigns with at least this many videos.
	VideoHeavyThreshold = 3

	// ImageRichThreshold marks campaigns with at least this many images.
	ImageRichThreshold = 10

	// StrategicThreshold marks campaigns with at least one presentation.
	StrategicThreshold = 1

	// ComprehensiveThreshold marks campaigns with at least this many files.
	ComprehensiveThreshold = 20
)

// CompositionAnalyzer aggregates per-campaign file-kind counts into
// composition flags. Pure aggregation: idempotent and order-independent
// over its input.
type CompositionAnalyzer struct{}

// NewCompositionAnalyzer creates a composition analyzer.
func NewCompositionAnalyzer() *CompositionAnalyzer {
	return &CompositionAnalyzer{}
}

// Analyze computes the composition for a campaign's full document set.
func (a *CompositionAnalyzer) Analyze(campaignName string, docs []domain.CampaignDocument) domain.CampaignComposition {
	comp := domain.CampaignComposition{CampaignName: campaignName}

	for _, doc := range docs {
		switch doc.FileKind {
		case domain.FileKindVideo:
			comp.VideoCount++
		case domain.FileKindImage:
			comp.ImageCount++
		case domain.FileKindPresentation:
			comp.PresentationCount++
		case domain.FileKindDocument:
			comp.DocumentCount++
		default:
			comp.OtherCount++
		}
	}
	comp.TotalFiles = len(docs)

	comp.VideoHeavy = comp.VideoCount >= VideoHeavyThreshold
	comp.ImageRich = comp.ImageCount >= ImageRichThreshold
	comp.StrategicCampaign = comp.PresentationCount >= StrategicThreshold
	comp.ComprehensiveExecution = comp.TotalFiles >= ComprehensiveThreshold

	return comp
}
