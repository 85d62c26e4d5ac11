// Package web holds the embedded static shell served at the site root.
package web

import "embed"

// StaticFS contains the storefront shell: index page, stylesheet, and the
// small script that drives the JSON API.
//
//go:embed static
var StaticFS embed.FS
