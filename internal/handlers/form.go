package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"ricepro-web/internal/views"
)

// queryFlash turns ?error= or ?message= into the page flash
func queryFlash(r *http.Request) views.Flash {
	q := r.URL.Query()
	if msg := q.Get("error"); msg != "" {
		return views.Flash{Kind: views.FlashError, Message: msg}
	}
	if msg := q.Get("message"); msg != "" {
		return views.Flash{Kind: views.FlashSuccess, Message: msg}
	}
	return views.Flash{}
}

// formInt reads an integer field. Blank or malformed input reads as 0 and
// is then rejected by the field's guard.
func formInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue(name)))
	if err != nil {
		return 0
	}
	return n
}

// formFloat reads a decimal field; malformed input reads as -1 so that
// guards requiring a non-negative value reject it.
func formFloat(r *http.Request, name string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue(name)), 64)
	if err != nil {
		return -1
	}
	return f
}

// pathID reads a numeric route variable
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
