package rekey

import (
	"github.com/go-logr/logr"

	"github.com/yago-123/wg-rekey/pkg/obfuscate"
)

type config struct {
	logger     logr.Logger
	obfuscator obfuscate.Applier
	tuner      InterfaceTuner
}

func newDefaultConfig() *config {
	return &config{
		logger: logr.Discard(),
	}
}

type Option func(*config)

// WithLogger sets the logger to use for logging. The logger must implement the logr.Logger interface
func WithLogger(logger logr.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithObfuscator sets the applier used to rebuild the obfuscation transport
// after a reconfiguration. Without one, an active obfuscator is aborted but
// never replaced.
func WithObfuscator(applier obfuscate.Applier) Option {
	return func(cfg *config) {
		cfg.obfuscator = applier
	}
}

// WithInterfaceTuner overrides the platform MTU tuner.
func WithInterfaceTuner(tuner InterfaceTuner) Option {
	return func(cfg *config) {
		cfg.tuner = tuner
	}
}
