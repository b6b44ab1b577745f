// Package component manages the lifecycle of long-lived speechkit parts:
// the local engine with its loaded model, the settings store, telemetry.
//
// Components start in registration order and stop in reverse. A failed
// start stops whatever already started.
package component
