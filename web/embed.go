// Package web embeds the page templates and static assets served by the
// trust UI.
package web

import "embed"

// TemplatesFS holds one file per view plus the shared layout.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

//go:embed static/*
var StaticFS embed.FS
