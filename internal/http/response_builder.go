package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
)

// Notice codes carried on the redirect after a successful form post. Only
// known codes are rendered, so the query string cannot inject text.
const (
	NoticeMemberRegistered = "member_registered"
	NoticeMemberRemoved    = "member_removed"
	NoticeDonationRecorded = "donation_recorded"
	NoticeDonationRemoved  = "donation_removed"
	NoticeDataImported     = "data_imported"
	NoticeNotPersisted     = "not_persisted"
)

var noticeText = map[string]string{
	NoticeMemberRegistered: "સભ્યની નોંધણી થઈ ગઈ.",
	NoticeMemberRemoved:    "સભ્ય દૂર કરવામાં આવ્યા.",
	NoticeDonationRecorded: "દાન નોંધાઈ ગયું.",
	NoticeDonationRemoved:  "દાન દૂર કરવામાં આવ્યું.",
	NoticeDataImported:     "માહિતી આયાત થઈ ગઈ.",
	NoticeNotPersisted:     "ફેરફાર થયો પણ સાચવી શકાયો નહીં. ફરી પ્રયાસ કરો.",
}

// NoticeText returns the message for code, or "" for unknown codes.
func NoticeText(code string) string {
	return noticeText[code]
}

// ResponseBuilder provides a fluent API for the few non-page responses the
// server sends: redirects back to the page, fragments and JSON.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       []byte
}

func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// BodyHTML sets an HTML fragment body.
func (b *ResponseBuilder) BodyHTML(html string) *ResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// BodyJSON encodes v as the body. Encoding failures become a 500.
func (b *ResponseBuilder) BodyJSON(v any) *ResponseBuilder {
	raw, err := json.Marshal(v)
	if err != nil {
		return InternalServerError("encode response")
	}
	b.headers["Content-Type"] = "application/json"
	b.body = raw
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// RedirectHome answers a form post with 303 See Other back to the page,
// so a browser refresh does not repeat the post.
func RedirectHome(notice string) *ResponseBuilder {
	target := "/"
	if notice != "" {
		target += "?" + url.Values{"notice": {notice}}.Encode()
	}
	return NewResponse().Status(http.StatusSeeOther).Header("Location", target)
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}
