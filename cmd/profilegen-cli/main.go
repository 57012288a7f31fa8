package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-profilegen/internal/config"
	"github.com/goliatone/go-profilegen/internal/logging"
	"github.com/goliatone/go-profilegen/internal/prompt"
	"github.com/goliatone/go-profilegen/pkg/orchestrator"
	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

const usage = `usage: profilegen-cli <command> [flags]

commands:
  validate   validate widget data (-type, -data or -file)
  edit       edit widget data interactively (-type or -username/-widget)
  render     render a public profile page (-username)
`

// errInvalid marks a run that completed but found invalid widget data.
var errInvalid = errors.New("widget data is invalid")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:], os.Stdout)
	case "edit":
		err = runEdit(ctx, os.Args[2:], os.Stdout)
	case "render":
		err = runRender(ctx, os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	switch {
	case err == nil:
	case errors.Is(err, errInvalid):
		os.Exit(1)
	case errors.Is(err, prompt.ErrAborted):
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	default:
		fmt.Fprintf(os.Stderr, "profilegen-cli: %v\n", err)
		os.Exit(1)
	}
}

func runValidate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	widgetType := fs.String("type", "", "widget type (Agents, Title)")
	data := fs.String("data", "", "widget data as JSON")
	file := fs.String("file", "", "file holding widget data as JSON ('-' for stdin)")
	_ = fs.Parse(args)

	raw, err := readData(*data, *file)
	if err != nil {
		return err
	}
	app, err := orchestrator.New()
	if err != nil {
		return err
	}
	_, result, err := app.Validate(widgets.WidgetType(*widgetType), raw)
	if err != nil {
		return err
	}
	if err := writeJSON(out, result); err != nil {
		return err
	}
	if !result.IsValid() {
		return errInvalid
	}
	return nil
}

func runEdit(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv(config.EnvConfig), "configuration file")
	widgetType := fs.String("type", "", "widget type to create data for")
	username := fs.String("username", "", "profile holding the widget")
	widgetID := fs.String("widget", "", "widget id to edit")
	data := fs.String("data", "", "initial widget data as JSON")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	app, err := newApp(cfg)
	if err != nil {
		return err
	}

	initial := json.RawMessage(strings.TrimSpace(*data))
	tag := widgets.WidgetType(*widgetType)
	if *widgetID != "" {
		p, err := app.Profile(ctx, *username)
		if err != nil {
			return err
		}
		instance, ok := p.Widget(*widgetID)
		if !ok {
			return fmt.Errorf("%w: %s", profile.ErrWidgetNotFound, *widgetID)
		}
		tag = instance.Type
		if len(initial) == 0 {
			initial = instance.Data
		}
	}
	descriptor, err := app.Widgets().Lookup(tag)
	if err != nil {
		return err
	}

	driver := prompt.NewSurveyDriver(os.Stderr)
	raw, _, err := prompt.EditWidget(ctx, driver, descriptor, initial, prompt.EditOptions{Agents: app.Agents()})
	if err != nil {
		return err
	}

	if *widgetID != "" {
		save, err := driver.Confirm(ctx, prompt.ConfirmConfig{Message: "¿Guardar cambios?", Default: true})
		if err != nil {
			return err
		}
		if save {
			if _, _, err := app.UpdateWidget(ctx, *username, *widgetID, raw); err != nil {
				return err
			}
			p, err := app.Profile(ctx, *username)
			if err != nil {
				return err
			}
			return writeJSON(out, p)
		}
	}
	return writeJSON(out, raw)
}

func runRender(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv(config.EnvConfig), "configuration file")
	username := fs.String("username", "username", "profile to render")
	output := fs.String("output", "", "output file (stdout if empty)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	app, err := newApp(cfg)
	if err != nil {
		return err
	}

	if *output == "" {
		return app.RenderPublic(ctx, out, *username)
	}
	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := app.RenderPublic(ctx, f, *username); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Profile written to %s\n", *output)
	return nil
}

func newApp(cfg config.Config) (*orchestrator.Orchestrator, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	store, err := cfg.Store()
	if err != nil {
		return nil, err
	}
	return orchestrator.New(
		orchestrator.WithStore(store),
		orchestrator.WithAgents(cfg.Directory()),
		orchestrator.WithThemes(catalog),
		orchestrator.WithTemplateDir(cfg.Templates.Dir),
		orchestrator.WithLogger(logging.New(os.Stderr, "cli", level)),
	)
}

func readData(data, file string) ([]byte, error) {
	switch {
	case data != "":
		return []byte(data), nil
	case file == "-":
		return io.ReadAll(os.Stdin)
	case file != "":
		return os.ReadFile(file)
	default:
		return nil, nil
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
