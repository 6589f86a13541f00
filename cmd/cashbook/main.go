package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"cashbook/internal/commands"
)

func main() {
	name := path.Base(os.Args[0])
	commands.Completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commands.Register(commander, commands.DefaultEnv())

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
