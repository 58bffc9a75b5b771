package driven

import "context"

// CommandRunner executes an external command and returns its output.
// It exists so normalisers that shell out (PDF text extraction) can
// be tested without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
