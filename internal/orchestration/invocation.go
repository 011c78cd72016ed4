package orchestration

import (
	"fmt"
	"strings"
)

// Invocation is one task requested on the command line, written as
// name[:arg,...,key=value,...]. A backslash escapes the next character.
type Invocation struct {
	Name   string
	Args   []string
	Kwargs map[string]string
}

func (i Invocation) String() string {
	parts := append([]string(nil), i.Args...)
	for k, v := range i.Kwargs {
		parts = append(parts, k+"="+v)
	}
	if len(parts) == 0 {
		return i.Name
	}
	return i.Name + ":" + strings.Join(parts, ",")
}

// ParseInvocations parses each argument with ParseInvocation.
func ParseInvocations(args []string) ([]Invocation, error) {
	invocations := make([]Invocation, 0, len(args))
	for _, arg := range args {
		inv, err := ParseInvocation(arg)
		if err != nil {
			return nil, err
		}
		invocations = append(invocations, inv)
	}
	return invocations, nil
}

// ParseInvocation parses a single task invocation.
func ParseInvocation(s string) (Invocation, error) {
	name, rest, hasArgs := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return Invocation{}, fmt.Errorf("invalid task invocation %q: missing task name", s)
	}

	inv := Invocation{Name: name}
	if !hasArgs {
		return inv, nil
	}

	for _, part := range splitEscaped(rest, ',') {
		key, value, isKwarg := cutUnescaped(part, '=')
		if !isKwarg {
			inv.Args = append(inv.Args, unescape(part))
			continue
		}
		key = unescape(key)
		if key == "" {
			return Invocation{}, fmt.Errorf("invalid task invocation %q: empty argument name", s)
		}
		if inv.Kwargs == nil {
			inv.Kwargs = make(map[string]string)
		}
		if _, dup := inv.Kwargs[key]; dup {
			return Invocation{}, fmt.Errorf("invalid task invocation %q: %s given twice", s, key)
		}
		inv.Kwargs[key] = unescape(value)
	}

	return inv, nil
}

// splitEscaped splits s on sep, ignoring separators preceded by a backslash.
// Escapes are preserved for the caller.
func splitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func cutUnescaped(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// ParseBool converts a truth value the way command-line users write them:
// y, yes, t, true, on and 1 are true; n, no, f, false, off and 0 are false.
// Case is ignored. Anything else is an error.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid truth value %q", s)
	}
}
