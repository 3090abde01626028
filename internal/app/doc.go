// Package app wires the application together: it builds the logger, loads
// pipeline definitions through a config.Loader, populates and validates the
// registry from the module set, and runs the loaded pipelines.
package app
