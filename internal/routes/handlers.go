package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/basakil/webapi-bench/pkg/models"
)

// JSONHandler serves a pre-encoded JSON body with status 200.
func JSONHandler(body []byte) http.Handler {
	length := strconv.Itoa(len(body))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Type", "application/json")
		h.Set("Content-Length", length)
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})
}

// NotFoundText answers 404 with a plain "Not found" body and leaves the
// content type to the HTTP library.
func NotFoundText() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Not found"))
	})
}

// FixedJSON encodes the payload for message once and returns its handler.
func FixedJSON(message string) (http.Handler, error) {
	body, err := models.NewJSONResponse(message).Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return JSONHandler(body), nil
}

// FrameworkTable is the route table of the framework server: GET /json only.
// Unmatched requests are left to the framework.
func FrameworkTable(message string) (*Table, error) {
	h, err := FixedJSON(message)
	if err != nil {
		return nil, err
	}
	t := NewTable()
	if err := t.Handle(http.MethodGet, "/json", h); err != nil {
		return nil, err
	}
	return t, nil
}

// RawTable is the route table of the raw server: any method on exactly
// "/json", plain text 404 for everything else.
func RawTable(message string) (*Table, error) {
	h, err := FixedJSON(message)
	if err != nil {
		return nil, err
	}
	t := NewTable(WithRequestTarget(), WithNotFound(NotFoundText()))
	if err := t.Handle("", "/json", h); err != nil {
		return nil, err
	}
	return t, nil
}

// StdlibMux serves /json from an http.ServeMux for any method, with the body
// in json.Encoder form. Everything else gets the ServeMux 404.
func StdlibMux(message string) (*http.ServeMux, error) {
	body, err := models.NewJSONResponse(message).EncodeLine()
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	t := NewTable()
	if err := t.Handle("", "/json", JSONHandler(body)); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	t.Mount(mux)
	return mux, nil
}
