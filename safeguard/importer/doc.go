// Package importer resolves Go packages by name at runtime, returning a nil
// handle instead of failing when a package cannot be loaded.
//
// Resolution is backed by the yaegi interpreter: standard library packages are
// available out of the box, and source packages can be made resolvable with
// WithGoPath. A Loader never propagates resolution failures; callers observe
// either a usable *Module handle or nil, the absence sentinel.
package importer
