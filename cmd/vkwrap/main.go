package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/griffnb/vkwrap/internal/console"
	"github.com/griffnb/vkwrap/internal/gen"
	"github.com/griffnb/vkwrap/internal/loader"
)

const (
	sourceFlag        = "source"
	pathFlag          = "path"
	outputFlag        = "output"
	outputTypesFlag   = "outputTypes"
	overridesFileFlag = "overridesFile"
	configFlag        = "config"
	timeoutFlag       = "timeout"
	retriesFlag       = "retries"
	quietFlag         = "quiet"
	debugFlag         = "debug"
)

var generateFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.StringFlag{
		Name:    sourceFlag,
		Aliases: []string{"s"},
		Value:   string(loader.SourceWeb),
		Usage:   "Where to read the registry from: " + string(loader.SourceFile) + " or " + string(loader.SourceWeb),
	},
	&cli.StringFlag{
		Name:    pathFlag,
		Aliases: []string{"p"},
		Value:   loader.DefaultURL,
		Usage:   "Registry file path or URL",
	},
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Value:   "vk.py",
		Usage:   "Path of the generated Python module",
	},
	&cli.StringFlag{
		Name:    outputTypesFlag,
		Aliases: []string{"ot"},
		Value:   "py",
		Usage:   "Output types of generated files (vk.py, vk.json, vk.yaml) like py,json,yaml",
	},
	&cli.StringFlag{
		Name:  overridesFileFlag,
		Value: gen.DefaultOverridesFile,
		Usage: "File to read type replacements, predefined names and skipped entries from.",
	},
	&cli.StringFlag{
		Name:  configFlag,
		Usage: "YAML file with default values for the other flags",
	},
	&cli.DurationFlag{
		Name:  timeoutFlag,
		Value: 30 * time.Second,
		Usage: "Timeout of the registry download",
	},
	&cli.IntFlag{
		Name:  retriesFlag,
		Value: 3,
		Usage: "Retries of a failed registry download",
	},
	&cli.BoolFlag{
		Name:  debugFlag,
		Usage: "Enable debug mode, disabled by default",
	},
}

func generateAction(ctx *cli.Context) error {
	if ctx.Bool(quietFlag) {
		console.Logger = console.Nop()
	}
	if ctx.Bool(debugFlag) {
		console.Logger.SetDebug(true)
	}
	defer func() {
		_ = console.Logger.Sync()
	}()

	config, err := loadConfig(ctx.String(configFlag))
	if err != nil {
		return err
	}

	if ctx.IsSet(sourceFlag) || config.Source == "" {
		config.Source = ctx.String(sourceFlag)
	}
	if ctx.IsSet(pathFlag) || config.Path == "" {
		config.Path = ctx.String(pathFlag)
	}
	if ctx.IsSet(outputFlag) || config.Output == "" {
		config.Output = ctx.String(outputFlag)
	}
	if ctx.IsSet(outputTypesFlag) || len(config.OutputTypes) == 0 {
		config.OutputTypes = strings.Split(ctx.String(outputTypesFlag), ",")
	}
	if ctx.IsSet(overridesFileFlag) || config.OverridesFile == "" {
		config.OverridesFile = ctx.String(overridesFileFlag)
	}
	if ctx.IsSet(timeoutFlag) || config.Timeout == 0 {
		config.Timeout = ctx.Duration(timeoutFlag)
	}
	if ctx.IsSet(retriesFlag) || config.Retries == 0 {
		config.Retries = ctx.Int(retriesFlag)
	}
	config.Debugger = console.Logger

	return gen.New().Build(ctx.Context, config)
}

func loadConfig(path string) (*gen.Config, error) {
	if path == "" {
		return &gen.Config{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open config file: %w", err)
	}
	defer f.Close()

	console.Logger.Debug("Using config from %s", path)

	return gen.LoadConfig(f)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "vkwrap"
	app.Version = gen.Version
	app.Usage = "Generate a Python ctypes wrapper from the Vulkan registry."
	app.Flags = generateFlags
	app.Action = generateAction
	app.Commands = []*cli.Command{
		{
			Name:    "generate",
			Aliases: []string{"g"},
			Usage:   "Generate the wrapper module",
			Action:  generateAction,
			Flags:   generateFlags,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
