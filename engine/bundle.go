package engine

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/errors"
)

// Required guest exports.
const (
	exportMemory = "memory"
	exportAlloc  = "alloc"
	exportRender = "render"
)

// Bundle is a compiled capability bundle, ready to instantiate guests
type Bundle struct {
	engine   *Engine
	compiled wazero.CompiledModule
}

// Close releases the compiled bundle.
func (b *Bundle) Close(ctx context.Context) error {
	return b.compiled.Close(ctx)
}

// Instantiate creates a guest for the named capability.
// The guest must export memory, alloc, and render; a bundle with
// unresolvable imports fails here. Instances are anonymous so one bundle
// can be instantiated repeatedly (remounts) within a runtime.
func (b *Bundle) Instantiate(ctx context.Context, capability string) (*Guest, error) {
	mod, err := b.engine.runtime.InstantiateModule(ctx, b.compiled,
		wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.InvalidBundle("instantiate failed", err)
	}

	render := mod.ExportedFunction(exportRender)
	if render == nil {
		_ = mod.Close(ctx)
		return nil, errors.MissingExport(capability, exportRender)
	}
	alloc := mod.ExportedFunction(exportAlloc)
	if alloc == nil {
		_ = mod.Close(ctx)
		return nil, errors.MissingExport(capability, exportAlloc)
	}
	if mod.Memory() == nil {
		_ = mod.Close(ctx)
		return nil, errors.MissingExport(capability, exportMemory)
	}

	return &Guest{
		capability: capability,
		module:     mod,
		render:     render,
		alloc:      alloc,
	}, nil
}

// Guest is an instantiated guest capability. It implements the
// capabilityhost.Capability contract, so it can sit directly behind the
// isolation boundary.
type Guest struct {
	capability string
	module     api.Module
	render     api.Function
	alloc      api.Function
}

// Capability returns the capability name this guest was instantiated for.
func (g *Guest) Capability() string {
	return g.capability
}

// Close releases the guest instance.
func (g *Guest) Close(ctx context.Context) error {
	return g.module.Close(ctx)
}

// descriptorWire is the JSON shape lowered into guest memory. The click
// callback stays host-side; only the displayable fields cross the boundary.
type descriptorWire struct {
	Text    string `json:"text"`
	Variant string `json:"variant"`
}

// Render lowers the descriptor into guest memory, invokes the guest render
// export, and lifts the produced markup. Guest traps surface as errors.
func (g *Guest) Render(ctx context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error) {
	var zero capabilityhost.Rendered

	input, err := json.Marshal(descriptorWire{
		Text:    d.Text,
		Variant: string(d.Variant.OrDefault()),
	})
	if err != nil {
		return zero, errors.InvalidInput(errors.PhaseRender, "descriptor not serializable")
	}

	ptr, err := lowerBytes(ctx, g, input)
	if err != nil {
		return zero, err
	}

	results, err := g.render.Call(ctx, uint64(ptr), uint64(len(input)))
	if err != nil {
		return zero, errors.Trap(g.capability, err)
	}
	if len(results) != 1 {
		return zero, errors.InvalidOutput(g.capability, "render returned no value")
	}

	markup, err := liftBytes(g, results[0])
	if err != nil {
		return zero, err
	}
	if !utf8.Valid(markup) {
		return zero, errors.InvalidOutput(g.capability, "markup is not valid UTF-8")
	}

	Logger().Debug("guest rendered",
		zap.String("capability", g.capability),
		zap.Int("markup_bytes", len(markup)))

	return capabilityhost.Rendered{
		Label:   d.Text,
		Markup:  string(markup),
		Source:  capabilityhost.SourceRemote,
		OnClick: d.OnClick,
	}, nil
}
