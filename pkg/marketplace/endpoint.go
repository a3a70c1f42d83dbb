package marketplace

import (
	"fmt"
	"net/url"

	"github.com/ljbaker/turkhit/pkg/hit"
)

// Endpoint pairs the requester API URL with the worker site used to preview
// posted HITs.
type Endpoint struct {
	URL        string
	PreviewURL string
}

var (
	Sandbox = Endpoint{
		URL:        "https://mturk-requester-sandbox.us-east-1.amazonaws.com",
		PreviewURL: "https://workersandbox.mturk.com/mturk/preview",
	}
	Production = Endpoint{
		URL:        "https://mturk-requester.us-east-1.amazonaws.com",
		PreviewURL: "https://www.mturk.com/mturk/preview",
	}
)

// EndpointFor maps a preset environment to its endpoint.
func EndpointFor(env hit.Environment) (Endpoint, error) {
	switch env {
	case hit.EnvSandbox:
		return Sandbox, nil
	case hit.EnvProduction:
		return Production, nil
	}
	return Endpoint{}, fmt.Errorf("unknown environment %q", env)
}

// Preview returns the worker-facing link for a HIT group.
func (e Endpoint) Preview(groupID string) string {
	return e.PreviewURL + "?groupId=" + url.QueryEscape(groupID)
}
