// Package app wires the adapters and connectors into the services the
// command line runs. It is the only package that knows every concrete type.
package app
