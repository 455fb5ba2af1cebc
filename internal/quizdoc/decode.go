// Package quizdoc decodes quiz documents produced by a text generator.
// Generators tend to wrap the JSON object in prose or markdown fences, so the
// decoder looks for the outermost object before unmarshalling.
package quizdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"wiki-quiz-service/internal/domain"
)

// ErrInvalidDocument wraps every decoding failure.
var ErrInvalidDocument = errors.New("invalid quiz document")

var requiredKeys = []string{"title", "summary", "quiz", "related_topics"}

var requiredQuestionKeys = []string{"question", "options", "answer", "difficulty", "explanation"}

// Decode extracts and parses a quiz document. It checks document shape only;
// answer/option consistency is domain.ValidateQuiz's job.
func Decode(raw []byte) (domain.Quiz, error) {
	text := strings.ReplaceAll(string(raw), "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	obj := extractJSON(text)
	if obj == "" {
		return domain.Quiz{}, fmt.Errorf("%w: no JSON object found", ErrInvalidDocument)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &keys); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if missing := missingKeys(keys, requiredKeys); len(missing) > 0 {
		return domain.Quiz{}, fmt.Errorf("%w: missing keys %s", ErrInvalidDocument, strings.Join(missing, ", "))
	}

	var questions []map[string]json.RawMessage
	if err := json.Unmarshal(keys["quiz"], &questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: quiz must be a list: %v", ErrInvalidDocument, err)
	}
	for i, q := range questions {
		if missing := missingKeys(q, requiredQuestionKeys); len(missing) > 0 {
			return domain.Quiz{}, fmt.Errorf("%w: question %d missing %s", ErrInvalidDocument, i+1, strings.Join(missing, ", "))
		}
	}

	var quiz domain.Quiz
	dec := json.NewDecoder(bytes.NewReader([]byte(obj)))
	if err := dec.Decode(&quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return quiz, nil
}

func missingKeys(obj map[string]json.RawMessage, keys []string) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// extractJSON finds the outermost JSON object in a string.
// It handles nested braces and skips braces inside quoted strings.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			if depth > 0 {
				inString = !inString
			}
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' && depth > 0 {
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
