package web

import "embed"

// StaticFS holds the embedded static assets (CSS, page scripts and the intro
// media surface).
//
//go:embed static
var StaticFS embed.FS
