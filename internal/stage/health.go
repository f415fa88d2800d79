package stage

// Health reports whether a pipeline stage can currently do useful work.
// Detail carries the blocking condition when Ready is false.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy reports a stage as ready.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy reports a stage as blocked with a human-readable reason.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}

// MissingCredential reports a stage blocked on an unconfigured API key.
// Every generation stage depends on at least one external service, so this
// is the dominant unhealthy case.
func MissingCredential(name, service string) Health {
	return Unhealthy(name, service+" api key not configured")
}
