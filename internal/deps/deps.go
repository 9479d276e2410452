// Package deps reports whether the external programs a transcription run
// shells out to can be found on PATH.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external program. Command may be a full command line
// such as "python3 -m punctuate"; only its first field is looked up.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Missing reports the required entries that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Duplicate executables are reported once, under the first requirement name.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	seen := make(map[string]bool, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		fields := strings.Fields(cmd)
		if len(fields) == 0 {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		binary := fields[0]
		if seen[binary] {
			continue
		}
		seen[binary] = true
		path, err := exec.LookPath(binary)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", binary)
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		results = append(results, status)
	}
	return results
}
