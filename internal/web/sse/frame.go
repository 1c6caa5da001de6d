package sse

import (
	"encoding/json"
	"strings"
)

// encodeFrame renders one named SSE event. Every line of data gets its own
// "data:" field so multi-line payloads survive the wire.
func encodeFrame(event, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteByte('\n')
	for _, line := range dataLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// dataLines splits data on newlines, ignoring carriage returns and one trailing newline
func dataLines(data string) []string {
	data = strings.ReplaceAll(data, "\r", "")
	data = strings.TrimSuffix(data, "\n")
	return strings.Split(data, "\n")
}

// FormatEvent renders v as JSON inside a named SSE event
func FormatEvent(event string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return encodeFrame(event, string(data)), nil
}
