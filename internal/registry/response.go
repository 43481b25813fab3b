package registry

// Response is one registry answer. The registry replies with a detailed
// body even on 400, so callers report what they got and keep going.
type Response struct {
	StatusCode int

	// Error is set when the registry marked the whole request as failed.
	Error bool

	// Markdown and Text are human-readable accounts of the outcome.
	Markdown string
	Text     string

	// JSON is the structured part of the answer. Per-descriptor details
	// live under its "errors", "info", and "suggestions" keys.
	JSON map[string]any
}

// Failed reports whether the structured body carries an error marker.
// The registry sends it as a bool or a message string depending on the
// endpoint.
func (r *Response) Failed() bool {
	if r == nil {
		return false
	}
	return truthy(r.JSON["error"])
}

// Errors returns the per-descriptor errors, keyed by file path.
func (r *Response) Errors() map[string]any {
	return r.section("errors")
}

// Info returns the per-descriptor informational notes, keyed by file path.
func (r *Response) Info() map[string]any {
	return r.section("info")
}

// Suggestions returns the registry's suggested edits, keyed by file path.
// Each value is a partial document to overlay on the local one.
func (r *Response) Suggestions() map[string]any {
	return r.section("suggestions")
}

func (r *Response) section(key string) map[string]any {
	if r == nil {
		return nil
	}
	m, _ := r.JSON[key].(map[string]any)
	return m
}

// Merge folds another response into this one and returns the combination.
// The later status wins, error markers accumulate, identical messages
// appear once, and per-descriptor sections union with the later response
// winning per path.
func (r *Response) Merge(other *Response) *Response {
	if other == nil {
		return r
	}
	if r == nil {
		return other
	}

	merged := &Response{
		StatusCode: other.StatusCode,
		Error:      r.Error || other.Error,
		Markdown:   joinDistinct(r.Markdown, other.Markdown),
		Text:       joinDistinct(r.Text, other.Text),
		JSON:       map[string]any{},
	}
	for _, key := range []string{"errors", "info", "suggestions"} {
		section := mergeSections(r.section(key), other.section(key))
		if section != nil {
			merged.JSON[key] = section
		}
	}
	if r.Failed() || other.Failed() {
		merged.JSON["error"] = true
	}
	return merged
}

func mergeSections(a, b map[string]any) map[string]any {
	if a == nil && b == nil {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// joinDistinct combines two messages, showing each distinct one once.
func joinDistinct(a, b string) string {
	switch {
	case a == b:
		return a
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n\n" + b
}

// truthy interprets a JSON error marker, which arrives as a bool, a
// message string, or not at all.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case nil:
		return false
	}
	return true
}
