package fallback

import (
	"context"
	"strings"
	"testing"

	capabilityhost "github.com/wippyai/capability-host"
)

func TestButton_Render(t *testing.T) {
	out, err := New().Render(context.Background(), capabilityhost.Descriptor{
		Text:    "Save",
		Variant: capabilityhost.VariantSecondary,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if out.Label != "Save (Local)" {
		t.Errorf("Label = %q, want %q", out.Label, "Save (Local)")
	}
	if out.Source != capabilityhost.SourceLocal {
		t.Errorf("Source = %q, want local", out.Source)
	}
	if !strings.Contains(out.Markup, "secondary") {
		t.Errorf("Markup %q missing variant class", out.Markup)
	}
}

func TestButton_RenderDefaultsVariant(t *testing.T) {
	out, err := New().Render(context.Background(), capabilityhost.Descriptor{Text: "Save"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out.Markup, "primary") {
		t.Errorf("Markup %q should default to the primary variant", out.Markup)
	}
}

func TestButton_ClickCallback(t *testing.T) {
	clicks := 0
	out, err := New().Render(context.Background(), capabilityhost.Descriptor{
		Text:    "Save",
		OnClick: func() { clicks++ },
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out.Activate()
	if clicks != 1 {
		t.Fatalf("expected exactly 1 click per activation, got %d", clicks)
	}
}

func TestButton_EscapesLabel(t *testing.T) {
	out, err := New().Render(context.Background(), capabilityhost.Descriptor{
		Text: `<script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(out.Markup, "<script>") {
		t.Errorf("Markup %q contains unescaped input", out.Markup)
	}
}
