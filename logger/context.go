package logger

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"

	"github.com/xy-planning-network/trailhead"
)

const callerTmpl = "%s:%d"

var (
	_ encoding.TextMarshaler = LogContext{}
)

// A LogContext provides additional information and configuration
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the caller file and line number with the provided value.
	//
	// Caller is not logged in the text of a LogContext.
	//
	// The fault handler sets Caller to the site a fault was raised at
	// rather than the site it was reported from.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request

	// RequestID identifies the execution context the logging event occurred in.
	RequestID string
}

// MarshalText converts LogContext into a JSON representation,
// eliminating zero-value fields or fields not requiring logging.
//
// Values in LogContext.Data that cannot be represented in JSON will cause an error to be thrown.
//
// MarshalText implements [encoding.TextMarshaler].
func (lc LogContext) MarshalText() ([]byte, error) {
	m := make(map[string]any)
	if lc.Data != nil {
		m["data"] = lc.Data
	}

	if lc.Error != nil {
		m["error"] = lc.Error.Error()
	}

	if lc.RequestID != "" {
		m["request_id"] = lc.RequestID
	}

	if lc.Request != nil {
		m["request"] = requestMap(lc.Request)
	}

	return json.Marshal(m)
}

// maskedHeaders are logged as trailhead.LogMaskVal.
var maskedHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}

// maskedFields are form fields logged as trailhead.LogMaskVal.
var maskedFields = []string{"password", "password_confirmation"}

// requestMap pulls the loggable parts out of r, masking credentials.
// A JSON body is decoded and then restored so handlers can still read it.
func requestMap(r *http.Request) map[string]any {
	header := r.Header.Clone()
	for _, name := range maskedHeaders {
		trailhead.Mask(url.Values(header), name)
	}

	m := map[string]any{
		"method": r.Method,
		"url":    r.URL.String(),
		"header": header,
	}

	if r.Form != nil {
		form := url.Values{}
		for k, v := range r.Form {
			form[k] = append([]string{}, v...)
		}
		for _, key := range maskedFields {
			trailhead.Mask(form, key)
		}
		m["form"] = form
	}

	if r.Body == nil || r.Header.Get("Content-Type") != "application/json" {
		return m
	}

	b, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(b))

	body := make(map[string]any)
	if err != nil || json.Unmarshal(b, &body) != nil {
		return m
	}

	for _, key := range maskedFields {
		if _, ok := body[key]; ok {
			body[key] = trailhead.LogMaskVal
		}
	}
	m["json"] = body

	return m
}

// String stringifies LogContext as a JSON representation of it.
func (lc LogContext) String() string {
	b, err := lc.MarshalText()
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}

	return string(b)
}

// CurrentCaller retrieves the caller for the caller of CurrentCaller,
// formatted for using as a value in LogContext.Caller.
//
//	myFunc() { 		<- returns this caller
//		func() {
//			CurrentCaller()
//		}()
//	}
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return formatCaller(file, line)
}

// FormatCaller formats file and line as a value for LogContext.Caller.
func FormatCaller(file string, line int) string { return formatCaller(file, line) }

func formatCaller(file string, line int) string {
	return fmt.Sprintf(callerTmpl, immediateFilepath(file), line)
}
