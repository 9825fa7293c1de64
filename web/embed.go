// Package web holds the page templates and static assets compiled into the
// binary.
package web

import "embed"

// TemplatesFS embeds the page and the result partial.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and the htmx glue script.
//
//go:embed static/*
var StaticFS embed.FS
