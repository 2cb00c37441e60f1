package core

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/hooks"
	"github.com/arthur-debert/buildtiming/pkg/internal/hashutil"
	"github.com/arthur-debert/buildtiming/pkg/stamp"
	"github.com/arthur-debert/buildtiming/pkg/template"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// Staleness classifies why an existing output is not current
type Staleness int

const (
	// Fresh means the output matches the plan and no watched signal moved
	Fresh Staleness = iota
	// NoOutput means the generated file does not exist
	NoOutput
	// NoStamp means the manifest is missing, unreadable or unavailable
	NoStamp
	// OutputEdited means the file on disk is not the one that was written
	OutputEdited
	// TriggersChanged means the declared trigger set differs
	TriggersChanged
	// ConstantsChanged means an emitted constant differs
	ConstantsChanged
	// SignalsChanged means a watched variable or path differs
	SignalsChanged
)

// Freshness is the outcome of comparing an existing output with a plan
type Freshness struct {
	State Staleness
	// Err explains NoStamp
	Err     error
	Changes []stamp.Change
}

// Current reports whether the existing output can be kept
func (f *Freshness) Current() bool {
	return f.State == Fresh
}

// Freshness compares the output and stamp on the writer's filesystem with
// plan. Constants derived from the build time are compared by name only,
// so a RealTime build with an unpinned clock is still current when
// nothing else moved.
func (b *Builder) Freshness(plan *Plan) (*Freshness, error) {
	fsys, ok := b.filesystem()
	if !ok {
		return &Freshness{State: NoStamp, Err: errors.New(errors.ErrStampRead, "writer is not backed by a filesystem")}, nil
	}

	existing, err := afero.ReadFile(fsys, plan.OutputPath)
	if err != nil {
		return &Freshness{State: NoOutput}, nil
	}

	manifest, err := stamp.Load(fsys, stamp.Path(plan.OutDir))
	if err != nil {
		return &Freshness{State: NoStamp, Err: err}, nil
	}
	if manifest.Output != hashutil.Sum(existing) {
		return &Freshness{State: OutputEdited}, nil
	}
	if !manifest.Equivalent(plan.Triggers) {
		return &Freshness{State: TriggersChanged}, nil
	}
	if manifest.Content != plan.ContentDigest {
		return &Freshness{State: ConstantsChanged}, nil
	}

	e, err := b.snapshot()
	if err != nil {
		return nil, err
	}
	changes, err := stamp.Evaluate(manifest, e, b.baseDir)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		return &Freshness{State: SignalsChanged, Changes: changes}, nil
	}
	return &Freshness{State: Fresh}, nil
}

// filesystem returns the filesystem the writer targets. Writers that do
// not expose one get neither a stamp nor a freshness check.
func (b *Builder) filesystem() (afero.Fs, bool) {
	if fw, ok := b.writer.(interface{ Filesystem() afero.Fs }); ok {
		return fw.Filesystem(), true
	}
	return nil, false
}

// contentDigest fingerprints what the generated file declares. Volatile
// constants contribute their name and kind, templates that reach one
// contribute their unexpanded text.
func contentDigest(pkg string, resolved []types.Resolved, templates map[types.Identifier]string, volatile map[types.Identifier]bool) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %q\n", pkg)
	for _, r := range resolved {
		value := r.Value.Raw
		switch {
		case volatile[r.Name]:
			value = ""
		case templates[r.Name] != "" && reaches(r.Name, templates, volatile, nil):
			value = templates[r.Name]
		}
		fmt.Fprintf(&buf, "%q %s %q %q\n", r.Name, r.Value.Kind, r.Value.Description, value)
	}
	return hashutil.Sum(buf.Bytes())
}

// reaches reports whether the template name refers, directly or through
// other templates, to a volatile constant
func reaches(name types.Identifier, templates map[types.Identifier]string, volatile, seen map[types.Identifier]bool) bool {
	if seen == nil {
		seen = make(map[types.Identifier]bool)
	}
	if seen[name] {
		return false
	}
	seen[name] = true

	refs, err := template.References(templates[name])
	if err != nil {
		return false
	}
	for _, ref := range refs {
		if volatile[ref] {
			return true
		}
		if _, ok := templates[ref]; ok && reaches(ref, templates, volatile, seen) {
			return true
		}
	}
	return false
}

// volatileNames lists the allowed built-ins whose value follows the clock.
// A caller hook with the same name replaces the built-in and is compared
// by value.
func (b *Builder) volatileNames(set []types.Resolved) map[types.Identifier]bool {
	callers := b.callerNames()
	volatile := make(map[types.Identifier]bool)
	for _, r := range set {
		if hooks.Volatile(r.Name) && !callers[r.Name] {
			volatile[r.Name] = true
		}
	}
	return volatile
}
