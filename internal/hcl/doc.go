// Package hcl provides the concrete HCL implementation of the
// configuration loading interface defined in the config package. It is
// responsible for file parsing, HCL-to-model translation, and cty-to-Go
// value binding, so nothing outside this package touches HCL types.
package hcl
