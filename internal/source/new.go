package source

import (
	"errors"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/pkg/executor"
)

// ErrUnsupportedSource is returned for a source reference that cannot be turned into text
var ErrUnsupportedSource = errors.New("unsupported source")

const urlPlaceholder = "{{url}}"

// Config names the command that prints the transcript of a source reference.
// An argument equal to {{url}} is replaced by the reference, otherwise it is appended.
type Config struct {
	Command string
	Args    []string
}

type implResolver struct {
	cfg      Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Resolver instance
func New(cfg Config, exec executor.Executor, log logger.Logger) Resolver {
	return &implResolver{cfg: cfg, executor: exec, logger: log}
}
