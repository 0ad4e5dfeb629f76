package highlight

import (
	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/logging"
)

// Option configures a Service.
type Option func(*Service, *[]grammar.Registration)

// WithLogger sets the service logger. Defaults to a null logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Service, _ *[]grammar.Registration) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRegistry replaces the default registry entirely. The caller is
// responsible for registering every language, including plain text.
func WithRegistry(r *grammar.Registry) Option {
	return func(s *Service, _ *[]grammar.Registration) {
		s.registry = r
	}
}

// WithRegistrations registers additional languages on top of the
// defaults, such as script grammars from a manifest directory.
func WithRegistrations(regs ...grammar.Registration) Option {
	return func(_ *Service, extra *[]grammar.Registration) {
		*extra = append(*extra, regs...)
	}
}
