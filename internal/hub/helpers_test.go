package hub

import (
	"io"
	"net/http"
	"strings"
)

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func joinJSON(items []string) string {
	return strings.Join(items, ",")
}

func sha(c rune) string {
	return strings.Repeat(string(c), 64)
}
