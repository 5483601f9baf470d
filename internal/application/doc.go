// Package application wires configuration, the platform provider, the
// environment writer and the mapper together, keeping the main package
// focused on CLI parsing and process handling.
package application
