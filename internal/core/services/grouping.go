package services

import (
	"path"
	"strings"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
	"github.com/brightline-labs/campaigniq/internal/logger"
)

// DeriveCampaignKey derives (client, campaign) from an asset's path relative
// to the collection root.
//
// Layouts:
//
//	client/campaign/asset.ext  -> client, campaign
//	campaign/asset.ext         -> "", campaign
//	asset.ext                  -> "", filename-prefix fallback
//
// The filename-prefix fallback strips the extension and the trailing
// underscore token, so brand_launch_video1.mp4, brand_launch_hero.jpg and
// brand_launch_deck.pptx all land in campaign "brand_launch". The fallback is
// logged rather than applied silently.
func DeriveCampaignKey(relPath string) (client, campaign string) {
	relPath = path.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	segments := strings.Split(relPath, "/")

	switch {
	case len(segments) >= 3:
		return segments[0], segments[1]
	case len(segments) == 2:
		return "", segments[0]
	default:
		campaign = filenamePrefix(segments[0])
		logger.Debug("No path segments for %s, campaign key from filename prefix: %s", relPath, campaign)
		return "", campaign
	}
}

// filenamePrefix derives a campaign key from a bare filename: extension off,
// trailing underscore token off. Single-token names are used as-is.
func filenamePrefix(filename string) string {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	if i := strings.LastIndex(base, "_"); i > 0 {
		return base[:i]
	}
	return base
}

// GroupByCampaign partitions documents by campaign name. Document order
// within a group follows input order.
func GroupByCampaign(docs []domain.CampaignDocument) map[string][]domain.CampaignDocument {
	groups := make(map[string][]domain.CampaignDocument)
	for _, doc := range docs {
		groups[doc.CampaignName] = append(groups[doc.CampaignName], doc)
	}
	return groups
}
