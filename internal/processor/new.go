package processor

import (
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/prompts"
	"github.com/nguyentantai21042004/transcript-flow/internal/transform"
)

// Options tune the pipeline; zero values take the defaults below
type Options struct {
	ChunkSize       int
	Temperature     float32
	TargetLanguage  string
	StructureSource bool
	Detector        Detector
}

type implProcessor struct {
	transformer transform.Transformer
	prompts     *prompts.Set
	opts        Options
	logger      logger.Logger
}

// New creates a new Processor instance
func New(tr transform.Transformer, set *prompts.Set, opts Options, log logger.Logger) Processor {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = 30000
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.1
	}
	if opts.TargetLanguage == "" {
		opts.TargetLanguage = "Russian"
	}
	if opts.Detector.supported == nil {
		opts.Detector = NewDetector([]string{"English", "German", "Russian"}, "English")
	}
	return &implProcessor{
		transformer: tr,
		prompts:     set,
		opts:        opts,
		logger:      log,
	}
}
