// Command speechkit transcribes recordings with a local whisper.cpp model or
// an OpenAI-compatible cloud endpoint, and manages custom cloud engines.
package main

import (
	"github.com/alecthomas/kong"
)

// CLI is the command line.
type CLI struct {
	Config       string `short:"c" type:"path" help:"Config file (default: speechkit.yml lookup)."`
	Debug        bool   `help:"Enable debug logging."`
	Ephemeral    bool   `help:"Keep custom engines in memory for this run only."`
	OTLPEndpoint string `name:"otlp-endpoint" placeholder:"HOST:PORT" help:"Export traces and metrics to this OTLP/HTTP collector."`
	OTLPInsecure bool   `name:"otlp-insecure" default:"true" negatable:"" help:"Use plain HTTP for the OTLP collector."`

	Transcribe TranscribeCmd `cmd:"" help:"Transcribe a 16 kHz mono WAV file."`
	Engines    EnginesCmd    `cmd:"" help:"Manage custom cloud engines."`
	Models     ModelsCmd     `cmd:"" help:"List and download whisper.cpp models."`
	Status     StatusCmd     `cmd:"" help:"Show component health."`
	Version    VersionCmd    `cmd:"" help:"Print the version."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("speechkit"),
		kong.Description("Speech-to-text with local and cloud engines."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
