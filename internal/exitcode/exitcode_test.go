package exitcode

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/formlane/formlane/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, Success},
		{"plain error", stderrors.New("boom"), GeneralError},
		{"network", errors.New(errors.ErrCodeNetUnreachable, "no route"), NetworkError},
		{"unauthorized", errors.New(errors.ErrCodeAPIUnauthorized, "unauthorized"), AuthError},
		{"forbidden", errors.New(errors.ErrCodeAPIForbidden, "forbidden"), AuthError},
		{"validation", errors.New(errors.ErrCodePollValidationFailed, "answers invalid"), ValidationError},
		{"config", errors.New(errors.ErrCodeConfigInvalid, "bad origin"), UsageError},
		{"not found", errors.New(errors.ErrCodeAPINotFound, "missing"), GeneralError},
		{"wrapped formlane error", fmt.Errorf("context: %w", errors.New(errors.ErrCodeNetTimeout, "timeout")), NetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.want {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
