package http

import "strconv"

// statusText mirrors the teacher's statusTable lookup: a small fixed map
// from status code to its standard reason phrase, used whenever a caller
// sets a status code without also supplying a message.
var statusText = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	307: "Temporary Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	429: "Too Many Requests",
	500: "Internal Server Error",
	503: "Service Unavailable",
}

// StatusText returns the standard reason phrase for code, or "" if code is
// not one this package recognizes.
func StatusText(code int) string { return statusText[code] }

// buildResponseHead writes the status line and headers of msg into dst,
// returning the extended slice. It does not write the body; callers append
// that themselves (WriteNoCopy / Write avoid a second copy of the body for
// static content, mirroring the teacher's BuildResp/writeNoCopy split).
func buildResponseHead(msg *Message, dst []byte) []byte {
	version := msg.Version
	if version == "" {
		version = "HTTP/1.1"
	}
	dst = append(dst, version...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(msg.StatusCode), 10)
	dst = append(dst, ' ')
	msgText := msg.StatusMessage
	if msgText == "" {
		msgText = StatusText(msg.StatusCode)
	}
	dst = append(dst, msgText...)
	dst = append(dst, crlf...)

	for _, h := range msg.Headers {
		dst = append(dst, h.Key...)
		dst = append(dst, ':', ' ')
		dst = append(dst, h.Value...)
		dst = append(dst, crlf...)
	}
	dst = append(dst, crlf...)
	return dst
}
