// Package config defines the format-agnostic model of a pipeline document
// and the loader interface that concrete formats implement. Keeping the
// model free of format types lets the runner and registry validate and
// execute pipelines without knowing how they were written.
package config
