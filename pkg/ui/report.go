package ui

import (
	"github.com/arthur-debert/buildtiming/pkg/core"
	"github.com/arthur-debert/buildtiming/pkg/template"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// Constant is the display form of one resolved constant
type Constant struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Type        string   `json:"type" yaml:"type"`
	Value       string   `json:"value" yaml:"value"`
	Literal     string   `json:"literal" yaml:"literal"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Template    string   `json:"template,omitempty" yaml:"template,omitempty"`
	References  []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// Report summarizes a generation plan
type Report struct {
	Package    string     `json:"package" yaml:"package"`
	Output     string     `json:"output" yaml:"output"`
	Debug      bool       `json:"debug" yaml:"debug"`
	Constants  []Constant `json:"constants" yaml:"constants"`
	Triggers   []string   `json:"triggers" yaml:"triggers"`
	Collisions []string   `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

// NewReport builds the display model of plan
func NewReport(plan *core.Plan) Report {
	r := Report{
		Package:    plan.Package,
		Output:     plan.OutputPath,
		Debug:      plan.Debug,
		Constants:  make([]Constant, 0, len(plan.Resolved)),
		Triggers:   make([]string, 0, len(plan.Triggers)),
		Collisions: types.IdentifierStrings(plan.Collisions),
	}

	for _, res := range plan.Resolved {
		// Resolved values were already checked by the engine
		literal, _ := res.Value.Literal()
		c := Constant{
			Name:        res.Name.String(),
			Kind:        res.Value.Kind.String(),
			Type:        res.Value.Kind.GoType(),
			Value:       res.Value.Raw,
			Literal:     literal,
			Description: res.Value.Description,
		}
		if tmpl, ok := plan.Templates[res.Name]; ok {
			c.Template = tmpl
			if refs, err := template.References(tmpl); err == nil {
				c.References = types.IdentifierStrings(refs)
			}
		}
		r.Constants = append(r.Constants, c)
	}

	for _, t := range plan.Triggers {
		r.Triggers = append(r.Triggers, t.String())
	}
	return r
}
