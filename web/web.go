// Package web holds the embedded templates and static assets served by the UI.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS

//go:embed static
var StaticFiles embed.FS
