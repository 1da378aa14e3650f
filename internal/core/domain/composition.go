package domain

// CampaignComposition aggregates file-kind counts over all documents sharing
// a campaign name, plus flags derived from fixed thresholds. It is recomputed
// whenever the campaign's document set changes.
type CampaignComposition struct {
	// CampaignName is the campaign this composition describes.
	CampaignName string `json:"campaign_name"`

	// Per-kind counts.
	VideoCount        int `json:"video_count"`
	ImageCount        int `json:"image_count"`
	PresentationCount int `json:"presentation_count"`
	DocumentCount     int `json:"document_count"`
	OtherCount        int `json:"other_count"`

	// TotalFiles is the number of documents in the campaign.
	TotalFiles int `json:"total_files"`

	// Derived flags, see the composition analyzer for thresholds.
	VideoHeavy             bool `json:"video_heavy"`
	ImageRich              bool `json:"image_rich"`
	StrategicCampaign      bool `json:"strategic_campaign"`
	ComprehensiveExecution bool `json:"comprehensive_execution"`
}
