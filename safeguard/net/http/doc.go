// Package http provides Fiber middleware that runs request handlers under a
// guard, converting intercepted panics into 500 responses.
package http
