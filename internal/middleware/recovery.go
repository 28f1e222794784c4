package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
)

func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC RECOVERED: %v\n%s", err, debug.Stack())

				if strings.Contains(r.Header.Get("Accept"), "application/json") {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, `{"error": "Internal server error"}`)
					return
				}
				http.Error(w, "Something went wrong. Please reload the page.", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
