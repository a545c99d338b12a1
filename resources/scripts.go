package resources

import "strings"

// Injection is one `+js(...)` rule which applies to a page: its raw
// argument list and the permission bits of the rule.
type Injection struct {
	Args       string         `json:"args"`
	Permission PermissionMask `json:"permission"`
}

// Scripts renders every Injection into a single script for a page.
//
// Injections with the same Args are rendered once, with their
// permissions combined.  Each rendered scriptlet is wrapped in its own
// try/catch.  The content of every resource the scriptlets depend on,
// directly or not, is placed once ahead of them.  Injections which fail
// to render, or whose dependencies cannot be satisfied, are skipped.
func (s *Storage) Scripts(injections []Injection) string {
	var (
		order []string
		perms = make(map[string]PermissionMask)
	)
	for _, inj := range injections {
		if _, ok := perms[inj.Args]; !ok {
			order = append(order, inj.Args)
		}
		perms[inj.Args] |= inj.Permission
	}

	var (
		deps        []Resource
		invocations strings.Builder
	)
	for _, raw := range order {
		perm := perms[raw]
		script, r, err := s.scriptlet(raw, perm)
		if err != nil {
			continue
		}

		required := deps
		ok := true
		for _, dep := range r.Dependencies {
			if required, ok = s.dependencies(dep, perm, required); !ok {
				break
			}
		}
		if !ok {
			continue
		}
		deps = required

		invocations.WriteString("try {\n")
		invocations.WriteString(script)
		invocations.WriteString("\n} catch ( e ) { }\n")
	}

	var result strings.Builder
	for _, dep := range deps {
		content, err := decodeText(dep.Content)
		if err != nil {
			continue
		}
		result.WriteString(content)
		result.WriteByte('\n')
	}
	result.WriteString(invocations.String())

	return result.String()
}

// dependencies appends the Resource named by ident, then everything it
// depends on, to into.  Resources already in into are skipped.  It
// returns false if any of them is missing or not injectable with perm.
func (s *Storage) dependencies(
	ident string,
	perm PermissionMask,
	into []Resource,
) ([]Resource, bool) {
	r, ok := s.Get(ident)
	if !ok || !r.Permission.IsInjectableBy(perm) {
		return into, false
	}
	for _, have := range into {
		if have.Name == r.Name {
			return into, true
		}
	}

	// Copy on first append, so a failed scriptlet leaves the caller's
	// slice as it was.
	into = append(into[:len(into):len(into)], r)
	for _, dep := range r.Dependencies {
		if into, ok = s.dependencies(dep, perm, into); !ok {
			return into, false
		}
	}
	return into, true
}
