package task

import "strings"

// Resolve finds a task by exact id or, failing that, by case-insensitive
// name. CLI commands accept either form.
func Resolve(s State, ref string) (Task, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, false
	}
	if i := s.Find(ref); i >= 0 {
		return s.Tasks[i], true
	}
	for _, t := range s.Tasks {
		if strings.EqualFold(t.Name, ref) {
			return t, true
		}
	}
	return Task{}, false
}
