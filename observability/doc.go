// Package observability wires OpenTelemetry tracing and metrics for the
// transcription engines.
//
// Export is opt-in. With telemetry disabled the global no-op providers stay
// installed and every span and instrument call is free:
//
//	shutdown, err := observability.Init(ctx, "speechkit", version, cfg.Telemetry)
//	defer shutdown(context.Background())
//
//	inst := observability.DefaultInstruments()
//	ctx, op := observability.StartOperation(ctx, observability.SpanTranscribe,
//		attribute.String(observability.AttrBackend, "local"))
//	text, err := run(ctx)
//	inst.RecordTranscription(ctx, "local", observability.StatusOf(err), op.End(err))
package observability
