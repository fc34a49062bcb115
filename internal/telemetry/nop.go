package telemetry

// NopPublisher discards all events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) error             { return nil }
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }
func (NopPublisher) IsConnected() bool               { return false }
func (NopPublisher) Close() error                    { return nil }
