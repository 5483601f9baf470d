// Package platform describes the runtime facts a hosting platform exposes to
// an application (routes, service relationships, entropy seed, SMTP host) and
// provides a static, YAML-backed Provider for local runs and tests.
package platform
