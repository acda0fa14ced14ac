package compare

import (
	"bytes"
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON. Full per-path results are omitted;
// each case carries its path reserves instead.
type JSONFormatter struct {
	Pretty bool
}

// Format encodes the set with a trailing newline. HTML characters in case descriptions
// are left unescaped.
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(compSet); err != nil {
		return "", err
	}
	return buf.String(), nil
}
