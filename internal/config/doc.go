// Package config loads, normalizes, and validates subtitle2go configuration.
//
// Load starts from Default, decodes TOML from the first existing location
// (explicit path, ~/.config/subtitle2go/config.toml, ./subtitle2go.toml),
// expands user paths, fills engine defaults, and validates the result. The
// language model table is a separate YAML document loaded with LoadLanguages;
// a built-in table covers German and English.
package config
