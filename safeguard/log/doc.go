// Package log defines the logging interface and typed logging fields used by
// the guard and importer packages.
//
// Adapters (such as the zap package) implement Logger so applications can plug
// in their own backend; the guard emits one entry per intercepted failure
// through this seam.
package log
