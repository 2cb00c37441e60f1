package hooks

import (
	"github.com/arthur-debert/buildtiming/pkg/template"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// TemplateHook is a constant whose value references other constants as {NAME}
type TemplateHook struct {
	ID          types.Identifier
	Description string
	Text        string
}

// Template creates a template constant
func Template(name types.Identifier, desc, text string) *TemplateHook {
	return &TemplateHook{ID: name, Description: desc, Text: text}
}

// Name returns the constant identifier
func (h *TemplateHook) Name() types.Identifier { return h.ID }

// Template returns the unsubstituted text
func (h *TemplateHook) Template() string { return h.Text }

// Resolve substitutes the referenced constants
func (h *TemplateHook) Resolve(ctx *types.ResolveContext) (types.Value, error) {
	out, err := template.Substitute(h.ID, h.Text, ctx)
	if err != nil {
		return types.Value{}, err
	}
	return types.Value{Description: h.Description, Raw: out, Kind: types.KindTemplate}, nil
}
