// Package bootstrap runs a speechkit binary: it validates the typed config,
// initializes logging, starts the registered components, runs the task and
// stops everything again, on success, error or signal.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(engine)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return transcribe(ctx)
//	})
package bootstrap
