package brokenmod

// This file fails to parse; the loader must convert the failure into the
// absence sentinel.
func Broken( {
