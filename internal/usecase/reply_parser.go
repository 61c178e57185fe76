package usecase

import (
	"aurum-core/internal/domain/entity"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	cleanTextLimit    = 300
	truncateThreshold = 200
	minExcerptLen     = 10
	maxExcerptLen     = 200
)

var messageFieldPattern = regexp.MustCompile(`"message"\s*:\s*"((?:[^"\\]|\\.)*)"`)

type parsedReply struct {
	Message     string
	Suggestions []string
	Source      entity.ReplySource
}

// replyStrategy turns raw model text into a reply, or reports it does not apply.
type replyStrategy func(raw string, price int) (parsedReply, bool)

// replyStrategies run in order; the first that applies wins. The last always applies.
var replyStrategies = []replyStrategy{
	parseCleanText,
	parseJSONReply,
	parseMessageField,
	parseFirstSentence,
	parseRawOrGeneric,
}

func ParseModelReply(raw string, price int) parsedReply {
	for _, strategy := range replyStrategies {
		if reply, ok := strategy(raw, price); ok {
			return reply
		}
	}
	return parsedReply{Message: genericPriceMessage(price), Source: entity.ReplySourceGeminiFallback}
}

func parseCleanText(raw string, _ int) (parsedReply, bool) {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "{") || strings.Contains(text, `"message"`) {
		return parsedReply{}, false
	}
	if utf8.RuneCountInString(text) >= cleanTextLimit {
		return parsedReply{}, false
	}
	return parsedReply{Message: text, Source: entity.ReplySourceGeminiText}, true
}

func parseJSONReply(raw string, _ int) (parsedReply, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return parsedReply{}, false
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil {
		return parsedReply{}, false
	}

	msg, _ := obj["message"].(string)
	rawSuggestions, hasSuggestions := obj["suggestions"]
	if strings.TrimSpace(msg) == "" || !hasSuggestions {
		return parsedReply{}, false
	}

	return parsedReply{
		Message:     strings.TrimSpace(msg),
		Suggestions: coerceSuggestions(rawSuggestions),
		Source:      entity.ReplySourceGeminiJSON,
	}, true
}

func parseMessageField(raw string, _ int) (parsedReply, bool) {
	m := messageFieldPattern.FindStringSubmatch(raw)
	if m == nil {
		return parsedReply{}, false
	}
	msg, err := strconv.Unquote(`"` + m[1] + `"`)
	if err != nil {
		msg = m[1]
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return parsedReply{}, false
	}
	return parsedReply{Message: msg, Source: entity.ReplySourceGeminiExtracted}, true
}

func parseFirstSentence(raw string, _ int) (parsedReply, bool) {
	if utf8.RuneCountInString(raw) <= truncateThreshold {
		return parsedReply{}, false
	}
	idx := strings.Index(raw, ".")
	if idx < 0 {
		return parsedReply{}, false
	}
	excerpt := strings.TrimSpace(raw[:idx+1])
	n := utf8.RuneCountInString(excerpt)
	if n < minExcerptLen || n > maxExcerptLen {
		return parsedReply{}, false
	}
	return parsedReply{Message: excerpt, Source: entity.ReplySourceGeminiTruncated}, true
}

func parseRawOrGeneric(raw string, price int) (parsedReply, bool) {
	text := strings.TrimSpace(raw)
	if text != "" && utf8.RuneCountInString(text) < cleanTextLimit {
		return parsedReply{Message: text, Source: entity.ReplySourceGeminiFallback}, true
	}
	return parsedReply{Message: genericPriceMessage(price), Source: entity.ReplySourceGeminiFallback}, true
}

func coerceSuggestions(v interface{}) []string {
	switch s := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
		return out
	case string:
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []string{strings.TrimSpace(s)}
	default:
		return nil
	}
}
