// Package fallback provides the locally bundled, always-available
// capability implementation. It touches no network and no dynamic
// resource, which is what makes it safe to trust below the isolation
// boundary.
package fallback

import (
	"context"
	"fmt"
	"html"

	capabilityhost "github.com/wippyai/capability-host"
)

// Marker is appended to the label so the rendered path stays observable:
// testers and operators can tell a local render from a remote one.
const Marker = " (Local)"

// Button renders a clickable action element locally.
type Button struct{}

// New creates the local button capability.
func New() *Button {
	return &Button{}
}

// Render implements the capability contract. It cannot fail.
func (b *Button) Render(_ context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error) {
	label := d.Text + Marker
	markup := fmt.Sprintf(`<button class="fallback-button %s">%s</button>`,
		d.Variant.OrDefault(), html.EscapeString(label))

	return capabilityhost.Rendered{
		Label:   label,
		Markup:  markup,
		Source:  capabilityhost.SourceLocal,
		OnClick: d.OnClick,
	}, nil
}
