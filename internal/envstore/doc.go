// Package envstore writes environment variables into one or more sinks
// (the process environment, in-memory mirrors) and keeps them consistent.
// Writes that fail or that target HTTP header mirror names abort the caller.
package envstore
