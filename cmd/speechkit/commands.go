package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kbukum/speechkit/customengine"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/transcription/whispercpp/models"
	"github.com/kbukum/speechkit/version"
)

// TranscribeCmd transcribes one file.
type TranscribeCmd struct {
	File     string `arg:"" type:"existingfile" help:"Audio file to transcribe. Non-WAV input is converted with ffmpeg."`
	Engine   string `short:"e" help:"Custom cloud engine name or ID, or local. Defaults to the local model when it is available."`
	Language string `short:"l" help:"Language hint, e.g. en."`
	Prompt   string `help:"Context passed to the model."`
}

func (c *TranscribeCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, rt *runtime) error {
		model, err := c.model(ctx, rt)
		if err != nil {
			return err
		}
		input, cleanup, err := rt.wavInput(ctx, c.File)
		if err != nil {
			return err
		}
		defer cleanup()
		text, err := rt.router.Transcribe(ctx, input, model)
		if err != nil {
			return fmt.Errorf("transcription failed: %s", errors.Describe(errors.Classify(err)))
		}
		_, err = fmt.Fprintln(os.Stdout, text)
		return err
	})
}

func (c *TranscribeCmd) model(ctx context.Context, rt *runtime) (transcription.Model, error) {
	var m transcription.Model
	switch c.Engine {
	case "":
		reg, err := rt.engines(ctx)
		if err != nil {
			return m, err
		}
		if m, err = defaultModel(ctx, rt.router, rt.app.Cfg.Local.Model, reg.List()); err != nil {
			return m, err
		}
	case string(transcription.BackendLocal):
		m = localModel(rt.app.Cfg.Local.Model)
	default:
		reg, err := rt.engines(ctx)
		if err != nil {
			return m, err
		}
		cfg, ok := findEngine(reg, c.Engine)
		if !ok {
			return m, errors.ModelNotAvailable(c.Engine)
		}
		m = cfg.Model()
	}
	m.Language = c.Language
	m.Prompt = c.Prompt
	return m, nil
}

func localModel(name string) transcription.Model {
	return transcription.Model{ID: name, DisplayName: name, Backend: transcription.BackendLocal, ModelName: name}
}

// defaultModel picks the model used when no engine is named. The local
// model wins while its engine is available; otherwise the first custom
// engine is used.
func defaultModel(ctx context.Context, router *transcription.Router, local string, custom []customengine.Config) (transcription.Model, error) {
	e, err := router.Select(ctx)
	if err == nil && e.Name() == string(transcription.BackendLocal) {
		return localModel(local), nil
	}
	if len(custom) == 0 {
		if err == nil {
			err = stderrors.New("no custom engine configured")
		}
		return transcription.Model{}, errors.NotInitialized(err.Error())
	}
	return custom[0].Model(), nil
}

// EnginesCmd groups the custom engine subcommands.
type EnginesCmd struct {
	List   EnginesListCmd   `cmd:"" default:"1" help:"List custom engines."`
	Add    EnginesAddCmd    `cmd:"" help:"Add a custom engine."`
	Update EnginesUpdateCmd `cmd:"" help:"Change a custom engine."`
	Remove EnginesRemoveCmd `cmd:"" help:"Remove a custom engine."`
	Test   EnginesTestCmd   `cmd:"" help:"Send one second of silence to an engine."`
}

type EnginesListCmd struct{}

func (c *EnginesListCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, rt *runtime) error {
		reg, err := rt.engines(ctx)
		if err != nil {
			return err
		}
		return writeEngines(os.Stdout, reg.List())
	})
}

// EngineFields are the editable fields shared by add and update.
type EngineFields struct {
	Name        string `help:"Unique name."`
	DisplayName string `help:"Name shown to users."`
	Endpoint    string `help:"Transcription URL, e.g. https://api.openai.com/v1/audio/transcriptions."`
	APIKey      string `name:"api-key" env:"SPEECHKIT_API_KEY" help:"Bearer token."`
	ModelName   string `help:"Model identifier, e.g. whisper-1."`
}

// apply copies the non-empty fields onto cfg.
func (f EngineFields) apply(cfg *customengine.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Name, f.Name)
	set(&cfg.DisplayName, f.DisplayName)
	set(&cfg.Endpoint, f.Endpoint)
	set(&cfg.APIKey, f.APIKey)
	set(&cfg.ModelName, f.ModelName)
}

type EnginesAddCmd struct {
	EngineFields `embed:""`
	Test         bool `help:"Test the endpoint before saving."`
}

func (c *EnginesAddCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, rt *runtime) error {
		reg, err := rt.engines(ctx)
		if err != nil {
			return err
		}
		cfg := customengine.NewConfig("", "", "", "", "")
		c.apply(&cfg)
		if cfg.DisplayName == "" {
			cfg.DisplayName = cfg.Name
		}
		if c.Test {
			if ok, msg := reg.TestEndpoint(ctx, cfg); !ok {
				return fmt.Errorf("endpoint test failed: %s", msg)
			}
		}
		added, err := reg.Add(ctx, cfg)
		if err != nil {
			return validationMessage(err)
		}
		fmt.Fprintf(os.Stdout, "added %s (%s)\n", added.Name, added.ID)
		return nil
	})
}

type EnginesUpdateCmd struct {
	Ref          string `arg:"" name:"engine" help:"Engine name or ID."`
	EngineFields `embed:""`
}

func (c *EnginesUpdateCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, rt *runtime) error {
		reg, err := rt.engines(ctx)
		if err != nil {
			return err
		}
		cfg, ok := findEngine(reg, c.Ref)
		if !ok {
			return fmt.Errorf("no custom engine %q", c.Ref)
		}
		c.apply(&cfg)
		if err := reg.Update(ctx, cfg); err != nil {
			return validationMessage(err)
		}
		fmt.Fprintf(os.Stdout, "updated %s\n", cfg.Name)
		return nil
	})
}

type EnginesRemoveCmd struct {
	Ref string `arg:"" name:"engine" help:"Engine name or ID."`
}

func (c *EnginesRemoveCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, rt *runtime) error {
		reg, err := rt.engines(ctx)
		if err != nil {
			return err
		}
		cfg, ok := findEngine(reg, c.Ref)
		if !ok {
			return fmt.Errorf("no custom engine %q", c.Ref)
		}
		if err := reg.Remove(ctx, cfg.ID); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "removed %s\n", cfg.Name)
		return nil
	})
}

type EnginesTestCmd struct {
	Ref string `arg:"" name:"engine" help:"Engine name or ID."`
}

func (c *EnginesTestCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, rt *runtime) error {
		reg, err := rt.engines(ctx)
		if err != nil {
			return err
		}
		cfg, ok := findEngine(reg, c.Ref)
		if !ok {
			return fmt.Errorf("no custom engine %q", c.Ref)
		}
		ok, msg := reg.TestEndpoint(ctx, cfg)
		if !ok {
			return fmt.Errorf("%s", msg)
		}
		fmt.Fprintln(os.Stdout, msg)
		return nil
	})
}

// ModelsCmd groups the whisper.cpp model subcommands.
type ModelsCmd struct {
	List     ModelsListCmd     `cmd:"" default:"1" help:"List downloadable models."`
	Download ModelsDownloadCmd `cmd:"" help:"Download a model."`
}

type ModelsListCmd struct{}

func (c *ModelsListCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	cfg.ApplyDefaults()
	return writeModels(os.Stdout, cfg.Local.ModelsDir, cfg.Local.Model)
}

type ModelsDownloadCmd struct {
	Name string `arg:"" optional:"" help:"Model file name. Defaults to the configured model."`
}

func (c *ModelsDownloadCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, rt *runtime) error {
		name := c.Name
		if name == "" {
			name = rt.app.Cfg.Local.Model
		}
		m, ok := models.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown model %q, see 'speechkit models list'", name)
		}
		path, err := rt.downloader.Download(ctx, m, rt.app.Cfg.Local.ModelsDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, path)
		return nil
	})
}

type StatusCmd struct{}

func (c *StatusCmd) Run(cli *CLI) error {
	return withRuntime(cli, func(ctx context.Context, rt *runtime) error {
		return rt.app.WriteStatus(ctx, os.Stdout)
	})
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintln(os.Stdout, "speechkit "+version.Get().String())
	return nil
}

// findEngine resolves ref as an ID first, then as a name.
func findEngine(reg *customengine.Registry, ref string) (customengine.Config, bool) {
	if cfg, ok := reg.Get(ref); ok {
		return cfg, true
	}
	return reg.FindByName(ref)
}

// validationMessage flattens a *customengine.ValidationError into one
// line per problem.
func validationMessage(err error) error {
	var verr *customengine.ValidationError
	if stderrors.As(err, &verr) {
		return fmt.Errorf("invalid engine:\n  %s", strings.Join(verr.Messages, "\n  "))
	}
	return err
}

func writeEngines(w io.Writer, engines []customengine.Config) error {
	if len(engines) == 0 {
		_, err := fmt.Fprintln(w, "no custom engines")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDISPLAY NAME\tMODEL\tENDPOINT\tID")
	for _, e := range engines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Name, e.DisplayName, e.ModelName, e.Endpoint, e.ID)
	}
	return tw.Flush()
}

func writeModels(w io.Writer, modelsDir, current string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tLABEL\tSIZE\tSTATUS")
	for _, m := range models.Catalog {
		mark := ""
		if m.Name == current {
			mark = "*"
		}
		status := "-"
		if models.IsDownloaded(modelsDir, m.Name) {
			status = "downloaded"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, m.Name, m.Label, m.Size, status)
	}
	return tw.Flush()
}
