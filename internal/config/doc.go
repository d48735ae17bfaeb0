// Package config owns application configuration and filesystem paths.
//
// Configuration is loaded from environment variables with the POLSIM_
// prefix, optionally overlaid on a YAML file next to the executable.
// Defaults live in struct tags and validation runs at load time, so the
// rest of the application never sees a half-formed config.
//
// The Paths type is the single source of truth for file locations: dataset
// CSVs, generated report artifacts, and logs all resolve relative to the
// executable directory, never the working directory.
package config
