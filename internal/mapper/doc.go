// Package mapper translates platform runtime facts into the environment
// variables the web framework reads at bootstrap.
//
// Planning is pure: Plan inspects the provider and a read-only view of the
// environment and returns the ordered assignments. Apply writes them through
// an envstore.Store and stops at the first failure.
package mapper
