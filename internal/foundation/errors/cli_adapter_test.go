package errors

import (
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: 0,
		},
		{
			name: "classified validation error",
			err: NewError(CategoryValidation, "invalid input").
				WithSeverity(SeverityError).
				Build(),
			expected: 2,
		},
		{
			name:     "config error",
			err:      ConfigError("bad config").Build(),
			expected: 7,
		},
		{
			name:     "block parse error",
			err:      ConfigParseError("bad block").Build(),
			expected: 3,
		},
		{
			name:     "asset error",
			err:      AssetError("fetch failed").Build(),
			expected: 8,
		},
		{
			name:     "render error",
			err:      RenderError("write failed").Build(),
			expected: 11,
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "unknown error"},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	err := ConfigError("missing embed section").WithContext("path", "config.yaml").Build()

	if got := quiet.FormatError(err); got != "Error: missing embed section" {
		t.Errorf("unexpected quiet message: %q", got)
	}
	if got := verbose.FormatError(err); !strings.Contains(got, "[config:fatal]") {
		t.Errorf("expected verbose message to carry classification, got %q", got)
	}
	if got := quiet.FormatError(InternalError("boom").Build()); !strings.Contains(got, "use -v") {
		t.Errorf("expected internal errors to be hidden, got %q", got)
	}
	if got := quiet.FormatError(&customError{msg: "plain"}); got != "Error: plain" {
		t.Errorf("unexpected unclassified message: %q", got)
	}
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
