package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Inject build-time metadata into Go packages"
	MsgGenerateShort   = "Generate the build constants file"
	MsgTriggersShort   = "Print the rebuild trigger declarations"
	MsgCheckShort      = "Report whether the generated file is stale"
	MsgShowShort       = "Show the resolved build constants"
	MsgWatchShort      = "Regenerate whenever a watched path changes"
	MsgGenConfigShort  = "Generate a starter project configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgGenerated      = "wrote %s (%d constants)"
	MsgUnchanged      = "%s is up to date"
	MsgKept           = "kept %s: %s"
	MsgCollision      = "constant %s registered more than once, last registration kept"
	MsgFresh          = "%s is current"
	MsgStaleNoOutput  = "%s does not exist"
	MsgStaleNoStamp   = "no usable stamp manifest: %v"
	MsgStaleTriggers  = "the set of rebuild triggers changed"
	MsgStaleEdited    = "%s was modified after it was generated"
	MsgStaleConstants = "the emitted constants changed"
	MsgStaleChange    = "%s (%s)"
	MsgWatching       = "watching %d path(s), press Ctrl+C to stop"
	MsgWatchNoPaths   = "nothing to watch: configure if_path_changed or a project file"
	MsgConfigWritten  = "wrote %s"
	MsgConfigExists   = "%s already exists, use --force to overwrite"
	MsgManWritten     = "wrote man pages to %s"

	// Error messages
	MsgErrStale = "generated file is stale"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagLogFile  = "Also write logs to the buildtiming log file"
	MsgFlagConfig   = "Configuration file (default: buildtiming.toml in --dir)"
	MsgFlagDir      = "Project directory holding the configuration"
	MsgFlagOutDir   = "Directory to write buildtiming_gen.go to"
	MsgFlagPackage  = "Package clause of the generated file"
	MsgFlagPattern  = "Rebuild pattern: lazy, realtime or custom"
	MsgFlagAllow    = "Built-in constants to emit (repeatable)"
	MsgFlagForce    = "Regenerate even if the stamp shows nothing changed"
	MsgFlagDryRun   = "Print the generated source instead of writing it"
	MsgFlagFormat   = "Output format: auto, term, text, markdown, json or yaml"
	MsgFlagWrite    = "Write the configuration to buildtiming.toml instead of stdout"
	MsgFlagComment  = "Comment out every value"
	MsgFlagDefaults = "Print the built-in defaults every configuration starts from"
	MsgFlagDebounce = "Quiet period before regenerating"
	MsgFlagManDir   = "Directory to write man pages to"
)

// MsgRootLong is the root command description
const MsgRootLong = `buildtiming computes named constants at build time (build platform,
build time, Go version and values of your own) and writes them to a Go
source file the package compiles verbatim.

Run it from a go:generate directive:

  //go:generate buildtiming generate

The generated file is buildtiming_gen.go in the output directory. Rebuild
triggers are printed as buildtiming:rerun-if-changed=<path> and
buildtiming:rerun-if-env-changed=<VAR> lines, and recorded in a stamp
manifest that "buildtiming check" evaluates.`

// MsgGenerateLong is the generate command description
const MsgGenerateLong = `Resolve every constant, write buildtiming_gen.go and print the rebuild
triggers on stdout.

Nothing is written when any constant fails to resolve, so a previous
file is left untouched. With skip_unchanged an existing file is kept
when the stamp shows that neither the constants nor any watched signal
changed; --force always writes.`

// MsgGenerateExample shows generate usage
const MsgGenerateExample = `  buildtiming generate                         # use buildtiming.toml
  buildtiming generate --out-dir internal/meta --package meta
  buildtiming generate --allow BUILD_TIME --allow GO_VERSION
  buildtiming generate --dry-run               # print the source`

// MsgCheckLong is the check command description
const MsgCheckLong = `Evaluate the stamp manifest written by the last generation and report
whether any watched file or environment variable changed since. Exits
with status 1 when the generated file is stale.`

// MsgShowExample shows show usage
const MsgShowExample = `  buildtiming show
  buildtiming show --format json
  buildtiming show --format markdown > BUILD.md`

// MsgCompletionLong is the completion command description
const MsgCompletionLong = `To load completions:

Bash:
  $ source <(buildtiming completion bash)

Zsh:
  $ buildtiming completion zsh > "${fpath[1]}/_buildtiming"

Fish:
  $ buildtiming completion fish | source

PowerShell:
  PS> buildtiming completion powershell | Out-String | Invoke-Expression`
