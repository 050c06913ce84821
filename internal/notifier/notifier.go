package notifier

import "github.com/mwrona/jobscout/internal/model"

// Silent drops every event. Used when notifications are suppressed by
// configuration.
type Silent struct{}

// NewSilent returns a sink that ignores all events.
func NewSilent() *Silent { return &Silent{} }

func (*Silent) Notify(model.Event) error { return nil }

// Multi fans one event out to several sinks, returning the first failure
// after every sink has been tried.
type Multi struct {
	sinks []model.Notifier
}

// NewMulti combines sinks into one notifier.
func NewMulti(sinks ...model.Notifier) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Notify(e model.Event) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Notify(e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
