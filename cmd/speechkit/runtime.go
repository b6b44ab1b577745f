package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/speechkit/audio/ffmpeg"
	"github.com/kbukum/speechkit/bootstrap"
	"github.com/kbukum/speechkit/customengine"
	"github.com/kbukum/speechkit/encryption"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/storage"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/transcription/cloud"
	"github.com/kbukum/speechkit/transcription/local"
	"github.com/kbukum/speechkit/transcription/whispercpp"
	"github.com/kbukum/speechkit/transcription/whispercpp/models"
	"github.com/kbukum/speechkit/vad"

	// storage providers
	_ "github.com/kbukum/speechkit/storage/local"
	_ "github.com/kbukum/speechkit/storage/memory"
	_ "github.com/kbukum/speechkit/storage/s3"
)

// runtime holds the wired services of one invocation.
type runtime struct {
	app        *bootstrap.App[*AppConfig]
	log        *logger.Logger
	store      *storage.Component
	downloader *models.Downloader
	local      *local.Engine
	cloud      transcription.Engine
	router     *transcription.Router
	converter  *ffmpeg.Converter
}

// newRuntime loads the config and wires storage, telemetry and both engines.
// Nothing is started until run.
func newRuntime(ctx context.Context, cli *CLI) (*runtime, error) {
	cfg, err := loadConfig(cli)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, err
	}
	rt := &runtime{
		app:       app,
		log:       app.Logger,
		converter: ffmpeg.New(cfg.FFmpeg, logger.Get("ffmpeg")),
	}

	shutdown, err := observability.Init(ctx, cfg.Name, cfg.Version, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	inst := observability.DefaultInstruments()

	rt.store = storage.NewComponent(cfg.Store, logger.Get("storage"))
	if err := app.RegisterComponent(rt.store); err != nil {
		return nil, err
	}

	if rt.downloader, err = models.NewDownloader(); err != nil {
		return nil, err
	}
	source := whispercpp.NewSource(cfg.Local.Config, rt.downloader, logger.Get("whispercpp"))

	segmenter := vad.NewSegmenter(cfg.VAD, vad.WithInstruments(inst))
	app.OnStop(func(context.Context) error { return segmenter.Close() })

	rt.local = local.NewEngine(source,
		local.WithSegmenter(segmenter),
		local.WithInstruments(inst),
		local.WithKeepLoaded(cfg.Local.KeepLoaded),
	)
	if err := app.RegisterComponent(rt.local); err != nil {
		return nil, err
	}

	cloudEngine, err := cloud.NewEngine(cfg.Cloud)
	if err != nil {
		return nil, err
	}

	wrap := transcription.Chain(
		transcription.WithTracing(),
		transcription.WithMetrics(inst),
		transcription.WithLogging(logger.Get("transcription")),
	)
	rt.cloud = wrap(cloudEngine)
	rt.router = transcription.NewRouter()
	rt.router.Register(transcription.BackendLocal, wrap(rt.local))
	rt.router.Register(transcription.BackendCloud, rt.cloud)
	app.OnStop(func(context.Context) error {
		rt.router.Cleanup()
		return nil
	})
	// after the other stop hooks so their spans are exported
	app.OnStop(bootstrap.Hook(shutdown))
	return rt, nil
}

// run starts the components, runs task and stops everything.
func (rt *runtime) run(ctx context.Context, task func(ctx context.Context) error) error {
	return rt.app.RunTask(ctx, task)
}

// engines opens the custom engine registry on the started store.
func (rt *runtime) engines(ctx context.Context) (*customengine.Registry, error) {
	opts := []customengine.Option{customengine.WithEngine(rt.cloud)}
	if secrets := rt.app.Cfg.Secrets; secrets.Key != "" {
		sealer, err := encryption.New(secrets.Key, encryption.WithAlgorithm(secrets.Algorithm))
		if err != nil {
			return nil, err
		}
		opts = append(opts, customengine.WithSealer(sealer))
	}
	return customengine.NewRegistry(ctx, rt.store.Storage(), opts...)
}

// wavInput returns a WAV path for file, converting through ffmpeg when the
// input is in another format. The cleanup func removes any temp file.
func (rt *runtime) wavInput(ctx context.Context, file string) (string, func(), error) {
	if !ffmpeg.NeedsConversion(file) {
		return file, func() {}, nil
	}
	if !rt.converter.Available() {
		return "", nil, fmt.Errorf("%s is not a WAV file and %s was not found", file, rt.converter.Binary)
	}
	path, err := rt.converter.ConvertTemp(ctx, file)
	if err != nil {
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// withRuntime builds a runtime for cli and runs task inside its lifecycle.
func withRuntime(cli *CLI, task func(ctx context.Context, rt *runtime) error) error {
	ctx := context.Background()
	rt, err := newRuntime(ctx, cli)
	if err != nil {
		return err
	}
	return rt.run(ctx, func(ctx context.Context) error { return task(ctx, rt) })
}
