package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON indicates no JSON payload could be located in an LLM response.
var ErrNoJSON = errors.New("no valid JSON found in response")

// ExtractJSON pulls a JSON array or object out of raw LLM output. It strips
// a surrounding markdown fence, then scans for the first balanced array or
// object so trailing commentary never breaks decoding.
func ExtractJSON(response string) (string, error) {
	response = stripFence(strings.TrimSpace(response))

	switch {
	case strings.HasPrefix(response, "["):
		return completeArray(response)
	case strings.HasPrefix(response, "{"):
		return completeObject(response)
	}

	if start := strings.Index(response, "["); start != -1 {
		if extracted, err := completeArray(response[start:]); err == nil {
			return extracted, nil
		}
	}
	if start := strings.Index(response, "{"); start != -1 {
		return completeObject(response[start:])
	}

	return "", ErrNoJSON
}

// ParseStringArray extracts and decodes a JSON array of strings, dropping
// empty entries.
func ParseStringArray(response string) ([]string, error) {
	extracted, err := ExtractJSON(response)
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := json.Unmarshal([]byte(extracted), &raw); err != nil {
		return nil, fmt.Errorf("decode string array: %w", err)
	}

	items := make([]string, 0, len(raw))
	for _, item := range raw {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	var kept []string
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") && !inBlock {
			inBlock = true
			continue
		}
		if trimmed == "```" && inBlock {
			break
		}
		if inBlock {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// completeArray returns the first balanced JSON array in content. Strings
// are tracked so brackets inside values do not unbalance the scan.
func completeArray(content string) (string, error) {
	return completeDelimited(content, '[', ']')
}

// completeObject returns the first balanced JSON object in content.
func completeObject(content string) (string, error) {
	return completeDelimited(content, '{', '}')
}

func completeDelimited(content string, open, closing byte) (string, error) {
	depth := 0
	started := false
	inString := false
	escaped := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if started {
				inString = true
			}
		case open:
			started = true
			depth++
		case closing:
			depth--
			if depth == 0 && started {
				return content[:i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unbalanced %q", ErrNoJSON, string(open))
}
