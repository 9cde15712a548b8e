package handler

import (
	"io"
	"net/http"
)

// HandleHome answers the root path with a plain-text greeting.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Hello from the Shelfmate API")
}
