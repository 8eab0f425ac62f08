package render

import (
	"strings"

	"github.com/goliatone/go-hasone/pkg/model"
)

// FieldErrors collects the messages addressed to relation, either directly
// or through its identifier field, trimmed and de-duplicated in order.
func FieldErrors(payload map[string][]string, relation string) []string {
	if len(payload) == 0 || relation == "" {
		return nil
	}
	var combined []string
	combined = append(combined, payload[relation]...)
	combined = append(combined, payload[model.IDFieldName(relation)]...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
