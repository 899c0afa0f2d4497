package capabilityhost

import "context"

// Variant selects the visual treatment of a rendered capability.
type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
)

// OrDefault returns the variant, substituting primary when unset.
func (v Variant) OrDefault() Variant {
	if v == "" {
		return VariantPrimary
	}
	return v
}

// Valid reports whether v is a known variant. The zero value is valid
// because it defaults to primary.
func (v Variant) Valid() bool {
	switch v {
	case "", VariantPrimary, VariantSecondary:
		return true
	}
	return false
}

// Descriptor describes what should be rendered, independent of which
// implementation (remote or fallback) fulfills it. It is immutable per
// render pass and handed unchanged to whichever path renders.
type Descriptor struct {
	Text    string
	OnClick func()
	Variant Variant
}

// Source identifies which path produced a render.
type Source string

const (
	SourceRemote      Source = "remote"
	SourceLocal       Source = "local"
	SourcePlaceholder Source = "placeholder"
)

// Rendered is the output of rendering a capability: a label, markup for
// display, the path that produced it, and the activation hook.
type Rendered struct {
	Label   string
	Markup  string
	Source  Source
	OnClick func()
}

// Activate fires the click callback, if any. Each call invokes the
// callback exactly once.
func (r Rendered) Activate() {
	if r.OnClick != nil {
		r.OnClick()
	}
}

// Capability is the contract every implementation fulfills, remote or
// local. The descriptor's shape is declared here ahead of time since a
// remote implementation's concrete source is not known until runtime.
type Capability interface {
	Render(ctx context.Context, d Descriptor) (Rendered, error)
}
