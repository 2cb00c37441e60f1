package core

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/buildtiming/pkg/constset"
	"github.com/arthur-debert/buildtiming/pkg/env"
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/fragment"
	"github.com/arthur-debert/buildtiming/pkg/hooks"
	"github.com/arthur-debert/buildtiming/pkg/logging"
	"github.com/arthur-debert/buildtiming/pkg/rebuild"
	"github.com/arthur-debert/buildtiming/pkg/stamp"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// Builder configures one generation run. A Builder is not safe for
// concurrent use; create one per invocation.
type Builder struct {
	outDir        string
	pkg           string
	pattern       rebuild.Pattern
	allow         []types.Identifier
	allowSet      bool
	hooks         []types.Hook
	triggers      []types.Trigger
	environment   types.Environment
	notifier      io.Writer
	writer        Writer
	logger        zerolog.Logger
	baseDir       string
	force         bool
	skipUnchanged bool
	noStamp       bool
}

// Option configures a Builder
type Option func(*Builder)

// WithOutDir sets the directory the generated file is written to
func WithOutDir(dir string) Option {
	return func(b *Builder) { b.outDir = dir }
}

// WithPackage sets the package clause of the generated file
func WithPackage(name string) Option {
	return func(b *Builder) { b.pkg = name }
}

// WithPattern sets the rebuild pattern
func WithPattern(p rebuild.Pattern) Option {
	return func(b *Builder) { b.pattern = p }
}

// WithAllow replaces the list of built-in constants to emit. Constants
// named here that are neither built-in nor registered fail the build.
func WithAllow(names ...types.Identifier) Option {
	return func(b *Builder) {
		b.allow = append([]types.Identifier(nil), names...)
		b.allowSet = true
	}
}

// WithHook registers caller hooks. Later hooks replace earlier ones with
// the same identifier.
func WithHook(h ...types.Hook) Option {
	return func(b *Builder) { b.hooks = append(b.hooks, h...) }
}

// WithTriggers declares additional triggers, such as the configuration
// files the build was set up from
func WithTriggers(t ...types.Trigger) Option {
	return func(b *Builder) { b.triggers = append(b.triggers, t...) }
}

// WithSnapshot injects the environment every hook reads from
func WithSnapshot(e types.Environment) Option {
	return func(b *Builder) { b.environment = e }
}

// WithNotifier sets where trigger declarations are printed
func WithNotifier(w io.Writer) Option {
	return func(b *Builder) { b.notifier = w }
}

// WithWriter replaces the filesystem writer
func WithWriter(w Writer) Option {
	return func(b *Builder) { b.writer = w }
}

// WithLogger replaces the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithBaseDir sets the directory relative path triggers are evaluated from
func WithBaseDir(dir string) Option {
	return func(b *Builder) { b.baseDir = dir }
}

// WithForce regenerates even when the stamp would skip it
func WithForce(force bool) Option {
	return func(b *Builder) { b.force = force }
}

// WithSkipUnchanged skips the write when the stamp shows that the emitted
// constants, the output file and every watched signal are unchanged since
// the last run
func WithSkipUnchanged(skip bool) Option {
	return func(b *Builder) { b.skipUnchanged = skip }
}

// WithoutStamp disables the stamp manifest. The stamp is also skipped when
// the writer does not expose a filesystem.
func WithoutStamp() Option {
	return func(b *Builder) { b.noStamp = true }
}

// NewBuilder creates a builder with the Lazy pattern, the default allow
// list, stdout as notifier and the filesystem writer
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		pattern:  rebuild.LazyPattern(),
		notifier: os.Stdout,
		writer:   FileWriter{},
		logger:   logging.GetLogger("core"),
		baseDir:  ".",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Plan is the fully computed outcome of a run before anything is written
type Plan struct {
	OutDir     string
	OutputPath string
	Package    string
	Debug      bool
	Resolved   []types.Resolved
	Fragment   *fragment.Fragment
	Source     []byte
	Triggers   []types.Trigger
	Collisions []types.Identifier
	// Templates maps template constants to their unexpanded text
	Templates map[types.Identifier]string
	// ContentDigest fingerprints the emitted constants, ignoring values
	// that follow the build clock
	ContentDigest string
}

// Result describes what Build did
type Result struct {
	*Plan
	Written bool
	// Skipped explains why the output was left untouched, empty otherwise
	Skipped string
	Changes []stamp.Change
}

// Plan resolves every constant, renders the file and declares the
// triggers without touching the filesystem or the notifier
func (b *Builder) Plan() (*Plan, error) {
	e, err := b.snapshot()
	if err != nil {
		return nil, err
	}

	outDir, err := b.resolveOutDir(e)
	if err != nil {
		return nil, err
	}

	set, extra, err := b.assemble()
	if err != nil {
		return nil, err
	}

	b.logger.Debug().
		Int("constants", set.Len()).
		Str("out_dir", outDir).
		Msg("resolving constants")

	resolved, err := set.ResolveAll(e)
	if err != nil {
		return nil, err
	}

	pkg := b.resolvePackage(e)
	frag, err := fragment.New(pkg, resolved)
	if err != nil {
		return nil, err
	}
	source, err := frag.Render()
	if err != nil {
		return nil, err
	}

	triggers := b.pattern.DeclareTriggers(extra, outDir, e.Debug())
	triggers = append(triggers, b.variableTriggers()...)
	triggers = append(triggers, b.triggers...)

	templates := make(map[types.Identifier]string)
	for _, h := range set.Ordered() {
		if th, ok := h.(types.TemplateHook); ok {
			templates[th.Name()] = th.Template()
		}
	}

	return &Plan{
		OutDir:     outDir,
		OutputPath: rebuild.OutputPath(outDir),
		Package:    pkg,
		Debug:      e.Debug(),
		Resolved:   resolved,
		Fragment:   frag,
		Source:     source,
		Triggers:   dedupe(triggers),
		Collisions: set.Collisions(),
		Templates:  templates,

		ContentDigest: contentDigest(pkg, resolved, templates, b.volatileNames(resolved)),
	}, nil
}

// Build runs the whole pipeline. On error nothing has been written.
func (b *Builder) Build() (*Result, error) {
	done := logging.LogOperationStart(b.logger, "build")
	defer done()

	plan, err := b.Plan()
	if err != nil {
		return nil, err
	}
	result := &Result{Plan: plan}

	reason, changes, err := b.skipReason(plan)
	if err != nil {
		return nil, err
	}
	result.Changes = changes
	if reason != "" {
		result.Skipped = reason
		b.logger.Info().Str("reason", reason).Str("path", plan.OutputPath).Msg("generated file kept")
		if err := b.notify(plan.Triggers); err != nil {
			return nil, err
		}
		return result, nil
	}

	written, err := b.writer.WriteFile(plan.OutputPath, plan.Source)
	if err != nil {
		return nil, err
	}
	result.Written = written

	if err := b.notify(plan.Triggers); err != nil {
		return nil, err
	}

	if err := b.saveStamp(plan); err != nil {
		return nil, err
	}

	b.logger.Info().
		Str("path", plan.OutputPath).
		Bool("changed", written).
		Int("constants", len(plan.Resolved)).
		Msg("generated build constants")

	return result, nil
}

func (b *Builder) snapshot() (types.Environment, error) {
	if b.environment != nil {
		return b.environment, nil
	}
	s, err := env.Capture()
	if err != nil {
		return nil, err
	}
	b.environment = s
	return s, nil
}

func (b *Builder) resolveOutDir(e types.Environment) (string, error) {
	if b.outDir != "" {
		return b.outDir, nil
	}
	for _, key := range []string{env.OutDirVar, env.LegacyOutDirVar} {
		if dir, ok := e.Getenv(key); ok && dir != "" {
			return dir, nil
		}
	}
	return "", errors.Newf(errors.ErrMissingConfig,
		"no output directory: set one explicitly or export %s", env.OutDirVar)
}

func (b *Builder) resolvePackage(e types.Environment) string {
	if b.pkg != "" {
		return b.pkg
	}
	if pkg, ok := e.Getenv(env.GoPackageVar); ok && pkg != "" {
		return pkg
	}
	return fragment.DefaultPackage
}

// assemble builds the constant set and returns the identifiers that get
// an env trigger of their own
func (b *Builder) assemble() (*constset.Set, []types.Identifier, error) {
	set := constset.New()

	allow := hooks.DefaultAllow()
	if b.allowSet {
		allow = b.allow
	}

	callers := b.callerNames()

	extra := []types.Identifier{hooks.BuildOS}
	for _, name := range allow {
		if builtin, ok := hooks.Builtin(name); ok {
			if name != hooks.BuildOS {
				// a caller hook of the same name takes its place
				if !callers[name] {
					if _, err := set.Register(builtin); err != nil {
						return nil, nil, err
					}
				}
				extra = append(extra, name)
			}
			continue
		}
		if !callers[name] {
			known := types.IdentifierStrings(hooks.BuiltinNames())
			for n := range callers {
				known = append(known, n.String())
			}
			return nil, nil, errors.UnknownConstant("", name.String(), known).
				WithDetail("source", "allow list")
		}
	}

	for _, h := range b.hooks {
		if _, err := set.Register(h); err != nil {
			return nil, nil, err
		}
	}

	types.SortIdentifiers(extra)
	return set, extra, nil
}

func (b *Builder) callerNames() map[types.Identifier]bool {
	callers := make(map[types.Identifier]bool, len(b.hooks))
	for _, h := range b.hooks {
		if h != nil {
			callers[h.Name()] = true
		}
	}
	return callers
}

// variableTriggers declares the variables read by env-backed caller hooks
func (b *Builder) variableTriggers() []types.Trigger {
	var triggers []types.Trigger
	for _, h := range b.hooks {
		if v, ok := h.(interface{ Variables() []string }); ok {
			for _, name := range v.Variables() {
				triggers = append(triggers, types.EnvTrigger(name))
			}
		}
	}
	return triggers
}

func (b *Builder) skipReason(plan *Plan) (string, []stamp.Change, error) {
	if b.force || !b.skipUnchanged || b.noStamp {
		return "", nil, nil
	}

	f, err := b.Freshness(plan)
	if err != nil {
		return "", nil, err
	}
	if !f.Current() {
		if f.Err != nil {
			b.logger.Debug().Err(f.Err).Msg("no usable stamp, regenerating")
		}
		return "", f.Changes, nil
	}
	return "stamp is current", nil, nil
}

// saveStamp records the manifest next to the output, on the same
// filesystem the output was written to
func (b *Builder) saveStamp(plan *Plan) error {
	if b.noStamp {
		return nil
	}
	fsys, ok := b.filesystem()
	if !ok {
		b.logger.Debug().Msg("writer has no filesystem, stamp not recorded")
		return nil
	}

	e, err := b.snapshot()
	if err != nil {
		return err
	}
	manifest, err := stamp.Record(plan.Triggers, e, b.baseDir)
	if err != nil {
		return err
	}
	manifest.Seal(plan.ContentDigest, plan.Source)
	return manifest.Save(fsys, stamp.Path(plan.OutDir))
}

func (b *Builder) notify(triggers []types.Trigger) error {
	if b.notifier == nil {
		return nil
	}
	for _, t := range triggers {
		if _, err := io.WriteString(b.notifier, t.String()+"\n"); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to print trigger declarations")
		}
	}
	return nil
}

func dedupe(triggers []types.Trigger) []types.Trigger {
	seen := make(map[types.Trigger]bool, len(triggers))
	out := triggers[:0]
	for _, t := range triggers {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
