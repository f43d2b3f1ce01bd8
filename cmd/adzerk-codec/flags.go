package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// optionFlag collects repeated -opt key=value flags. Values that are not
// valid JSON are taken as strings.
type optionFlag struct {
	keys   []string
	values []json.RawMessage
}

func (o *optionFlag) String() string { return strings.Join(o.keys, ",") }

func (o *optionFlag) Set(s string) error {
	key, value, err := parseOption(s)
	if err != nil {
		return err
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
	return nil
}

func parseOption(s string) (string, json.RawMessage, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("option %q: want key=value", s)
	}
	if json.Valid([]byte(value)) {
		return key, json.RawMessage(value), nil
	}
	quoted, err := json.Marshal(value)
	if err != nil {
		return "", nil, fmt.Errorf("option %q: %w", s, err)
	}
	return key, quoted, nil
}

// parseIntList parses a comma separated list such as "5,24".
func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
