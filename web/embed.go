// Package web embeds the built dashboard assets for single-binary distribution.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var assets embed.FS

// Assets contains the dashboard production build output, rooted at the
// build directory so index.html sits at the top level.
var Assets fs.FS

func init() {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	Assets = sub
}
