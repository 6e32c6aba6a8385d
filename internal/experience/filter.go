package experience

import (
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

// Filter returns the projects that take part in a render, in declaration order.
// Excluded ids and projects without an employer reference are dropped.
func Filter(doc *types.CareerDocument, exclude []string) []types.ProjectRef {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		if id = strings.TrimSpace(id); id != "" {
			skip[id] = struct{}{}
		}
	}

	retained := make([]types.ProjectRef, 0, doc.Projects.Len())
	for _, id := range doc.Projects.Keys() {
		if _, excluded := skip[id]; excluded {
			continue
		}
		project, _ := doc.Projects.Get(id)
		if strings.TrimSpace(project.Employer) == "" {
			continue
		}
		retained = append(retained, types.ProjectRef{ID: id, Project: project})
	}
	return retained
}
