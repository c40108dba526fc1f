package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rebind/cli/cmd"
	"github.com/ardnew/rebind/pkg"
)

// CLI is the top-level command-line interface for rebind.
type CLI struct {
	Log     logConfig   `embed:"" group:"log"     prefix:"log-"`
	Pprof   pprofConfig `embed:"" group:"pprof"   prefix:"pprof-"`
	Rewrite cmd.Rewrite `embed:"" group:"rewrite"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Expand  cmd.Expand  `cmd:"" default:"withargs" help:"Expand invocations in source files."`
	Inspect cmd.Inspect `cmd:""                    help:"Show how each binding of one invocation is classified."`
	Init    cmd.Init    `cmd:""                    help:"Write current flag values to the configuration file."`
	Try     cmd.Try     `cmd:""                    help:"Expand invocations interactively."`
}

// Run executes the rebind CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	dirs := locateDirs()

	err := dirs.mkdirAll()
	if err != nil {
		return err
	}

	configFilePath := dirs.configFile()

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  dirs.cache,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars(dirs.cache)).
		CloneWith(cli.Rewrite.Vars()).
		CloneWith(cli.Expand.Vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), rewriteGroup()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	defer cli.Log.start(ctx)()

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx, commandName(ktx))()

	return ktx.Run(&cli.Rewrite)
}

func rewriteGroup() kong.Group {
	return kong.Group{
		Key:   "rewrite",
		Title: "Rewrite options",
	}
}

// commandName returns the name of the selected command, or the program name
// when none is selected.
func commandName(ktx *kong.Context) string {
	if node := ktx.Selected(); node != nil {
		return node.Name
	}

	return pkg.Name
}
