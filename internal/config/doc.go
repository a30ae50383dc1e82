// Package config provides configuration loading and validation for the form
// relay service. It handles YAML-based configuration with struct validation
// and carries the original deployment's defaults when no file is supplied.
package config
