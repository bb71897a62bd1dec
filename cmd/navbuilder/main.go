package main

import (
	"log/slog"

	"github.com/Mshivam2409/rustduino/cmd/navbuilder/commands"
	ferrors "github.com/Mshivam2409/rustduino/internal/foundation/errors"
	"github.com/Mshivam2409/rustduino/internal/version"
	"github.com/alecthomas/kong"
)

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("navbuilder"),
		kong.Description("Normalize, validate, merge and render the Rust Duino documentation sidebar."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := kctx.Run(&commands.Global{}, &cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(commands.Classify(err))
}
