// Package configs provides the embedded configuration template for argos.
//
// The template is embedded at build time with Go's //go:embed directive,
// so 'argos config init' works from any distribution of the binary. To
// change the template, edit config.example.yaml and rebuild.
package configs

import _ "embed"

// ConfigTemplate is the annotated default configuration written by
// 'argos config init'.
//
//go:embed config.example.yaml
var ConfigTemplate string
