// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ErrorFormatter renders a qstack error for display, surfacing the
// structured fields QueryError/InternalError carry instead of a bare
// .Error() string.
type ErrorFormatter interface {
	Format(err error) string
	FormatJSON(err error) ([]byte, error)
}

// DefaultFormatter is the formatter PrettyFormat/JSONFormat use.
type DefaultFormatter struct {
	// IncludeQuery controls whether a QueryError's offending SQL text is
	// included in the formatted output.
	IncludeQuery bool
}

// NewDefaultFormatter builds a DefaultFormatter with the query text included.
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{IncludeQuery: true}
}

// Format renders err's message plus, when err is (or wraps) a
// QueryError or InternalError, its Kind/Query/Context detail.
func (f *DefaultFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var b bytes.Buffer
	b.WriteString(err.Error())

	var qe *QueryError
	if As(err, &qe) {
		if qe.Kind != "" {
			fmt.Fprintf(&b, " [kind=%s]", qe.Kind)
		}
		if f.IncludeQuery && qe.Query != "" {
			fmt.Fprintf(&b, "\n  query: %s", qe.Query)
		}
		writeContext(&b, qe.Context)
	}

	var ie *InternalError
	if As(err, &ie) {
		writeContext(&b, ie.Context)
	}

	return b.String()
}

func writeContext(b *bytes.Buffer, context map[string]interface{}) {
	if len(context) == 0 {
		return
	}
	b.WriteString("\n  context:")
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "\n    %s: %v", k, context[k])
	}
}

// FormatJSON returns a JSON document describing err: its message, Go
// type, and (for a QueryError/InternalError) Kind/Query/Context.
func (f *DefaultFormatter) FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return []byte("null"), nil
	}

	doc := map[string]interface{}{
		"message": err.Error(),
		"type":    fmt.Sprintf("%T", err),
	}

	var qe *QueryError
	if As(err, &qe) {
		if qe.Kind != "" {
			doc["kind"] = string(qe.Kind)
		}
		if f.IncludeQuery && qe.Query != "" {
			doc["query"] = qe.Query
		}
		if len(qe.Context) > 0 {
			doc["context"] = qe.Context
		}
	}

	var ie *InternalError
	if As(err, &ie) && len(ie.Context) > 0 {
		doc["context"] = ie.Context
	}

	if wrapper, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapper.Unwrap(); inner != nil {
			doc["cause"] = inner.Error()
		}
	}

	return json.MarshalIndent(doc, "", "  ")
}

// PrettyFormat renders err the way cmd/qstack prints a failing command:
// the error message plus any QueryError/InternalError detail it carries.
func PrettyFormat(err error) string {
	return NewDefaultFormatter().Format(err)
}

// JSONFormat returns err as a JSON string, for callers that want a
// machine-readable failure instead of PrettyFormat's text.
func JSONFormat(err error) (string, error) {
	data, err := NewDefaultFormatter().FormatJSON(err)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
