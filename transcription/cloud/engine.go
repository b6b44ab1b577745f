package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/transcription"
)

const (
	// EngineName is the name the cloud engine registers under.
	EngineName = "cloud"

	// DefaultTimeout bounds a whole transcription request.
	DefaultTimeout = 60 * time.Second

	uploadFileName = "audio.wav"
	responseFormat = "json"
)

// Config tunes the cloud engine.
type Config struct {
	// Timeout bounds a whole request, upload included.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Temperature is sent when set; nil leaves it to the server.
	Temperature *float64 `yaml:"temperature" mapstructure:"temperature"`
	// Retries is the number of extra attempts for rate-limited or 5xx
	// responses. Zero disables retry.
	Retries int `yaml:"retries" mapstructure:"retries"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine transcribes through a remote endpoint. The endpoint, model name and
// credential come from the transcription.Model of each request.
type Engine struct {
	cfg    Config
	client *httpclient.Client
	log    *logger.Logger
}

var _ transcription.Engine = (*Engine)(nil)

// NewEngine creates a cloud engine.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	cfg.ApplyDefaults()
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get("cloud")
	}

	hc := httpclient.Config{Name: EngineName, Timeout: cfg.Timeout}
	if cfg.Retries > 0 {
		retry := httpclient.DefaultRetryConfig()
		retry.MaxAttempts = cfg.Retries + 1
		retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
			e.log.Warn("transcription request failed, retrying", logger.Fields(
				"attempt", attempt, "backoff", backoff.String(), "error", err.Error()))
		}
		hc.Retry = retry
	}
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, err
	}
	e.client = client
	return e, nil
}

// Name returns the engine name.
func (e *Engine) Name() string { return EngineName }

// IsAvailable always reports true; reachability is only known per request.
func (e *Engine) IsAvailable(_ context.Context) bool { return true }

// LoadModel is a no-op for remote models.
func (e *Engine) LoadModel(_ context.Context) error { return nil }

// Cleanup drops idle connections.
func (e *Engine) Cleanup() { e.client.Close() }

// Transcribe uploads the audio file and returns the recognized text.
func (e *Engine) Transcribe(ctx context.Context, audioPath string, model transcription.Model) (text string, err error) {
	if err := checkModel(model); err != nil {
		return "", err
	}

	data, err := os.ReadFile(audioPath) // #nosec G304 - caller supplies the recording path
	if err != nil {
		return "", errors.AudioFileNotFound(audioPath).WithCause(err)
	}

	ctx, op := observability.StartOperation(ctx, observability.SpanCloudRequest,
		attribute.String(observability.AttrModel, model.ModelName))
	defer func() { op.End(err) }()

	resp, err := e.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   model.Endpoint,
		Auth:   httpclient.BearerAuth(model.APIKey),
		Body:   e.form(model, data),
	})
	if err != nil {
		appErr := errors.Classify(err)
		e.log.Warn("transcription request failed", logger.Fields(
			"endpoint", model.Endpoint,
			"model", model.ModelName,
			"code", string(appErr.Code),
			"status", appErr.StatusCode))
		return "", appErr
	}

	text, err = decodeText(resp.Body)
	if err != nil {
		return "", err
	}
	e.log.Debug("transcription received", logger.Fields(
		"model", model.ModelName, "bytes_sent", len(data), "chars", len(text)))
	return text, nil
}

func (e *Engine) form(model transcription.Model, data []byte) *httpclient.MultipartBody {
	fields := map[string]string{
		"model":           model.ModelName,
		"response_format": responseFormat,
	}
	if model.Language != "" && model.Language != "auto" {
		fields["language"] = model.Language
	}
	if model.Prompt != "" {
		fields["prompt"] = model.Prompt
	}
	if e.cfg.Temperature != nil {
		fields["temperature"] = strconv.FormatFloat(*e.cfg.Temperature, 'f', -1, 64)
	}
	return &httpclient.MultipartBody{
		Fields: fields,
		Files: []httpclient.FileField{{
			FieldName:   "file",
			FileName:    uploadFileName,
			ContentType: "audio/wav",
			Data:        data,
		}},
	}
}

// checkModel rejects descriptors the engine cannot send.
func checkModel(m transcription.Model) error {
	if m.Backend != "" && m.Backend != transcription.BackendCloud {
		return errors.UnsupportedProvider(string(m.Backend))
	}
	if strings.TrimSpace(m.APIKey) == "" {
		return errors.MissingAPIKey()
	}
	if strings.TrimSpace(m.Endpoint) == "" || strings.TrimSpace(m.ModelName) == "" {
		return errors.ModelNotAvailable(m.Name())
	}
	return nil
}

type response struct {
	Text *string `json:"text"`
}

// decodeText reads the text field. A body that is not JSON, or has no text,
// means the endpoint does not speak the OpenAI response format.
func decodeText(body []byte) (string, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil || r.Text == nil {
		return "", errors.NoTranscriptionReturned()
	}
	return strings.TrimSpace(*r.Text), nil
}
