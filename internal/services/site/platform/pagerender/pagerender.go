// Package pagerender centralizes buffered page rendering behavior.
package pagerender

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/lumenvpn/site/internal/services/site/platform/httpx"
	"github.com/valyala/bytebufferpool"
)

// Page describes a response for both full-page and HTMX flows.
type Page struct {
	StatusCode int
	// Full is the complete document.
	Full templ.Component
	// Fragment replaces Full for HTMX requests. Nil falls back to Full.
	Fragment templ.Component
}

var buffers bytebufferpool.Pool

// Write renders page into a pooled buffer and only writes headers and body
// once rendering succeeds, so a failing component never emits partial markup.
func Write(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	component := page.Full
	if httpx.IsHTMXRequest(r) && page.Fragment != nil {
		component = page.Fragment
	}
	if component == nil {
		component = templ.NopComponent
	}

	buf := buffers.Get()
	defer buffers.Put(buf)
	if err := component.Render(requestContext(r), buf); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(statusCode)
	if r != nil && r.Method == http.MethodHead {
		return nil
	}
	_, err := w.Write(buf.B)
	return err
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
