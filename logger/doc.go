// Package logger provides structured logging for speechkit services
// using zerolog.
//
// Engines, the segmenter and the custom engine registry each take a
// *Logger; when none is supplied they fall back to a component-scoped
// logger from the named registry.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("local-engine")
//	log.Info("model loaded", map[string]interface{}{"model": name})
package logger
