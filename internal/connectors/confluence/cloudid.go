package confluence

import (
	"context"
	"fmt"

	"github.com/custodia-labs/wikisync-cli/internal/logger"
)

// accessibleResourcesURL lists the Atlassian sites a token can access.
const accessibleResourcesURL = apiRoot + "/oauth/token/accessible-resources"

// accessibleResource is one entry of the accessible-resources listing.
type accessibleResource struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// ResolveCloudID extracts the workspace cloud id from the OAuth
// accessible-resources endpoint. In most cases there is exactly one
// resource; the first is used. A token without resources resolves to
// an empty id with a warning rather than an error, matching upstream
// behaviour for freshly-provisioned tenants.
func (c *Client) ResolveCloudID(ctx context.Context) (string, error) {
	var resources []accessibleResource
	if err := c.GetJSON(ctx, c.resourcesURL, &resources); err != nil {
		return "", fmt.Errorf("get accessible resources: %w", err)
	}

	if len(resources) == 0 {
		logger.Warn("No accessible resources found for token")
		return "", nil
	}

	if resources[0].ID == "" {
		logger.Warn("Missing ID in accessible resources")
	}
	return resources[0].ID, nil
}

// instanceBaseURL builds the workspace instance root for a cloud id.
func instanceBaseURL(cloudID string) string {
	return fmt.Sprintf("%s/ex/confluence/%s", apiRoot, cloudID)
}
