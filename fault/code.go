package fault

import (
	"fmt"
	"strconv"
	"strings"
)

// A Code classifies a fault's severity.
// Codes are bit flags so a reporting mask can select any subset of them.
type Code int

const (
	Error            Code = 1 << 0
	Warning          Code = 1 << 1
	Parse            Code = 1 << 2
	Notice           Code = 1 << 3
	CoreError        Code = 1 << 4
	CoreWarning      Code = 1 << 5
	CompileError     Code = 1 << 6
	CompileWarning   Code = 1 << 7
	UserError        Code = 1 << 8
	UserWarning      Code = 1 << 9
	UserNotice       Code = 1 << 10
	Strict           Code = 1 << 11
	RecoverableError Code = 1 << 12
	Deprecated       Code = 1 << 13
	UserDeprecated   Code = 1 << 14

	// All selects every Code.
	All Code = 1<<15 - 1
)

var codeNames = map[Code]string{
	Error:            "error",
	Warning:          "warning",
	Parse:            "parse",
	Notice:           "notice",
	CoreError:        "core_error",
	CoreWarning:      "core_warning",
	CompileError:     "compile_error",
	CompileWarning:   "compile_warning",
	UserError:        "user_error",
	UserWarning:      "user_warning",
	UserNotice:       "user_notice",
	Strict:           "strict",
	RecoverableError: "recoverable_error",
	Deprecated:       "deprecated",
	UserDeprecated:   "user_deprecated",
}

// DefaultIgnore lists the codes only logged, never escalated, unless configured otherwise.
var DefaultIgnore = []Code{Notice, UserNotice, Deprecated, UserDeprecated}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return strconv.Itoa(int(c))
}

// Severe reports whether c is more than a notice or deprecation.
func (c Code) Severe() bool {
	switch c {
	case Notice, UserNotice, Deprecated, UserDeprecated, Strict:
		return false
	default:
		return true
	}
}

// ParseCode reads a Code from its name, e.g. "user_notice", or its number, e.g. "1024".
func ParseCode(s string) (Code, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range codeNames {
		if name == s {
			return c, nil
		}
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: unknown fault code %q", ErrNotValid, s)
	}

	return Code(i), nil
}

// ParseCodes reads every value in ss with ParseCode.
func ParseCodes(ss []string) ([]Code, error) {
	codes := make([]Code, 0, len(ss))
	for _, s := range ss {
		c, err := ParseCode(s)
		if err != nil {
			return nil, err
		}

		codes = append(codes, c)
	}

	return codes, nil
}
