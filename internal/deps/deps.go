package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary a pipeline stage shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the result of probing one Requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries probes each requirement on PATH. It never errors; missing
// binaries come back with Available false and a Detail the CLI and status
// RPC can show verbatim.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, probe(req))
	}
	return results
}

func probe(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	if _, err := exec.LookPath(status.Command); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Available = true
	return status
}
