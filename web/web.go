// Package web holds the static front-end served at GET /.
package web

import _ "embed"

//go:embed index.html
var indexHTML []byte

// Index returns the entry page.
func Index() []byte {
	return indexHTML
}
