// Package weberr cleans up the noisy messages produced by the browser
// driver. Chrome-driver failures append a multi-line stack trace after a
// "Stacktrace" marker; only the line before it is useful to a human.
package weberr

import "strings"

const stackTraceMarker = "Stacktrace"

// CleanMessage truncates msg at the driver's stack-trace marker and trims
// the surrounding whitespace. A message without the marker is returned
// unchanged, so cleaning is idempotent and never fails.
func CleanMessage(msg string) string {
	head, _, found := strings.Cut(msg, stackTraceMarker)
	if !found {
		return msg
	}
	return strings.TrimSpace(head)
}

// Clean is the error-value form of CleanMessage. A nil error cleans to the
// empty string.
func Clean(err error) string {
	if err == nil {
		return ""
	}
	return CleanMessage(err.Error())
}
