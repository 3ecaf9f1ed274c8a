package http

import "github.com/mattyclarkson/pion/tcp"

// ErrorResponders holds the five (plus one added) default error response
// builders, each a direct port of one of the original's
// handleBadRequest/handleNotFoundRequest/handleServerError/
// handleForbiddenRequest/handleMethodNotAllowed methods: build a
// ResponseWriter, set the status, write a static HTML fragment interleaved
// with the dynamic bits (resource, method, error text), and Send.
//
// Each method takes the same "finished" callback the Dispatch Engine would
// otherwise pass to a handler's own ResponseWriter, so that an error
// response to an otherwise well-formed keep-alive request doesn't force a
// close: only the caller, which knows whether a valid request was ever
// decoded, can make that call.
type ErrorResponders struct{}

func respondWith(conn *tcp.Connection, finished func(), code int, write func(w *ResponseWriter)) {
	w := NewResponseWriter(conn, finished)
	w.SetStatus(code, "")
	w.Headers().Set("Content-Type", "text/html")
	write(w)
	_ = w.Send()
}

// HandleBadRequest writes a 400 response describing a malformed request.
func (ErrorResponders) HandleBadRequest(conn *tcp.Connection, finished func(), reason string) {
	respondWith(conn, finished, 400, func(w *ResponseWriter) {
		w.WriteNoCopy([]byte("<html><head>\n<title>400 Bad Request</title>\n</head><body>\n<h1>Bad Request</h1>\n<p>Your browser sent a request that this server could not understand: "))
		w.WriteString(reason)
		w.WriteNoCopy([]byte("</p>\n</body></html>\n"))
	})
}

// HandleNotFoundRequest writes a 404 response naming the requested
// resource.
func (ErrorResponders) HandleNotFoundRequest(conn *tcp.Connection, finished func(), resource string) {
	respondWith(conn, finished, 404, func(w *ResponseWriter) {
		w.WriteNoCopy([]byte("<html><head>\n<title>404 Not Found</title>\n</head><body>\n<h1>Not Found</h1>\n<p>The requested URL "))
		w.WriteValue(resource)
		w.WriteNoCopy([]byte(" was not found on this server.</p>\n</body></html>\n"))
	})
}

// HandleServerError writes a 500 response describing what went wrong while
// handling the request, mirroring the original's catch of std::exception
// (everything except bad_alloc) inside handleRequest.
func (ErrorResponders) HandleServerError(conn *tcp.Connection, finished func(), resource string, errorMsg string) {
	respondWith(conn, finished, 500, func(w *ResponseWriter) {
		w.WriteNoCopy([]byte("<html><head>\n<title>500 Server Error</title>\n</head><body>\n<h1>Internal Server Error</h1>\n<p>An error occurred while processing the request for resource "))
		w.WriteValue(resource)
		w.WriteNoCopy([]byte(": "))
		w.WriteString(errorMsg)
		w.WriteNoCopy([]byte("</p>\n</body></html>\n"))
	})
}

// HandleForbiddenRequest writes a 403 response naming the requested
// resource.
func (ErrorResponders) HandleForbiddenRequest(conn *tcp.Connection, finished func(), resource string) {
	respondWith(conn, finished, 403, func(w *ResponseWriter) {
		w.WriteNoCopy([]byte("<html><head>\n<title>403 Forbidden</title>\n</head><body>\n<h1>Forbidden</h1>\n<p>You do not have permission to access "))
		w.WriteValue(resource)
		w.WriteNoCopy([]byte(" on this server.</p>\n</body></html>\n"))
	})
}

// HandleMethodNotAllowed writes a 405 response naming the offending
// method. When allowedMethods is non-empty it is also sent as the
// response's Allow header, matching the original's
// handleMethodNotAllowed(..., allowed_methods).
func (ErrorResponders) HandleMethodNotAllowed(conn *tcp.Connection, finished func(), method string, allowedMethods string) {
	respondWith(conn, finished, 405, func(w *ResponseWriter) {
		if allowedMethods != "" {
			w.Headers().Set("Allow", allowedMethods)
		}
		w.WriteNoCopy([]byte("<html><head>\n<title>405 Method Not Allowed</title>\n</head><body>\n<h1>Method Not Allowed</h1>\n<p>The method "))
		w.WriteValue(method)
		w.WriteNoCopy([]byte(" is not allowed for the requested resource.</p>\n</body></html>\n"))
	})
}

// HandleServiceUnavailable writes a 503 response for a request denied by
// the rate-limit gate. This responder has no equivalent in the original;
// it is this port's addition for the rate-limit gate described in the
// expanded spec.
func (ErrorResponders) HandleServiceUnavailable(conn *tcp.Connection, finished func(), resource string) {
	respondWith(conn, finished, 503, func(w *ResponseWriter) {
		w.WriteNoCopy([]byte("<html><head>\n<title>503 Service Unavailable</title>\n</head><body>\n<h1>Service Unavailable</h1>\n<p>Too many requests for "))
		w.WriteValue(resource)
		w.WriteNoCopy([]byte(". Please try again later.</p>\n</body></html>\n"))
	})
}
