package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"vibe-planner/models"
)

// extractJSON strips a Markdown code fence (```json ... ``` or ``` ... ```)
// around the model's reply, then trims any text before the first JSON
// delimiter and after the last matching one.
func extractJSON(raw string) string {
	if blockStart := strings.Index(raw, "```json"); blockStart != -1 {
		raw = raw[blockStart+len("```json"):]
		if blockEnd := strings.Index(raw, "```"); blockEnd != -1 {
			raw = raw[:blockEnd]
		}
	} else if blockStart := strings.Index(raw, "```"); blockStart != -1 {
		raw = raw[blockStart+3:]
		if blockEnd := strings.Index(raw, "```"); blockEnd != -1 {
			raw = raw[:blockEnd]
		}
	}

	raw = strings.TrimSpace(raw)
	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return raw
	}
	closer := "}"
	if raw[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(raw, closer)
	if end < start {
		return raw[start:]
	}
	return raw[start : end+1]
}

// ParseResponse decodes the model's reply. A bare JSON array is taken as a
// full event list.
func ParseResponse(raw string) (models.ScheduleResponse, error) {
	content := extractJSON(raw)
	if content == "" {
		return models.ScheduleResponse{}, fmt.Errorf("%w: empty content", ErrUnparseableResponse)
	}

	if content[0] == '[' {
		var events []models.ScheduledEvent
		if err := json.Unmarshal([]byte(content), &events); err != nil {
			return models.ScheduleResponse{}, fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
		}
		return models.ScheduleResponse{Events: events}, nil
	}

	var parsed struct {
		Events  []models.ScheduledEvent `json:"events"`
		Actions []models.CalendarAction `json:"actions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return models.ScheduleResponse{}, fmt.Errorf("%w: %v", ErrUnparseableResponse, err)
	}
	return models.ScheduleResponse{Events: parsed.Events, Actions: parsed.Actions}, nil
}
