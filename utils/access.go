package utils

import (
	_ "embed"
	"fmt"
	"strings"

	"groompro-backend/models"

	"gopkg.in/yaml.v3"
)

//go:embed access.yaml
var defaultAccessYAML []byte

type AccessRule struct {
	Prefix  string        `yaml:"prefix"`
	Methods []string      `yaml:"methods"`
	Roles   []models.Role `yaml:"roles"`
}

// AccessTable maps path prefixes to the roles allowed to reach them.
type AccessTable struct {
	SignIn string                 `yaml:"sign_in"`
	Homes  map[models.Role]string `yaml:"homes"`
	Public []string               `yaml:"public"`
	Rules  []AccessRule           `yaml:"rules"`
}

// LoadAccessTable parses a YAML access table.
func LoadAccessTable(data []byte) (*AccessTable, error) {
	var t AccessTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse access table: %w", err)
	}
	if t.SignIn == "" {
		return nil, fmt.Errorf("access table: sign_in is required")
	}
	for role := range t.Homes {
		if !role.Valid() {
			return nil, fmt.Errorf("access table: unknown role %q in homes", role)
		}
	}
	for i, r := range t.Rules {
		if r.Prefix == "" {
			return nil, fmt.Errorf("access table: rule %d has no prefix", i)
		}
		for _, role := range r.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("access table: unknown role %q for %s", role, r.Prefix)
			}
		}
		for j, m := range r.Methods {
			t.Rules[i].Methods[j] = strings.ToUpper(m)
		}
	}
	return &t, nil
}

// DefaultAccessTable returns the embedded table.
func DefaultAccessTable() *AccessTable {
	t, err := LoadAccessTable(defaultAccessYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// matchPrefix matches whole path segments: /admin matches /admin/staff but not /administrator.
func matchPrefix(prefix, path string) bool {
	if prefix == "/" {
		return true
	}
	prefix = strings.TrimRight(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// IsPublic reports whether path needs no session.
func (t *AccessTable) IsPublic(path string) bool {
	for _, p := range t.Public {
		if matchPrefix(p, path) {
			return true
		}
	}
	return false
}

// Allowed reports whether role may call method on path.
func (t *AccessTable) Allowed(role models.Role, method, path string) bool {
	longest := -1
	var matched []AccessRule
	for _, r := range t.Rules {
		if !matchPrefix(r.Prefix, path) {
			continue
		}
		switch l := len(r.Prefix); {
		case l > longest:
			longest = l
			matched = []AccessRule{r}
		case l == longest:
			matched = append(matched, r)
		}
	}

	for _, r := range matched {
		if !r.appliesTo(method) {
			continue
		}
		for _, allowed := range r.Roles {
			if allowed == role {
				return true
			}
		}
	}
	return false
}

func (r AccessRule) appliesTo(method string) bool {
	if len(r.Methods) == 0 {
		return true
	}
	method = strings.ToUpper(method)
	if method == "HEAD" {
		method = "GET"
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Home returns the dashboard a role lands on.
func (t *AccessTable) Home(role models.Role) string {
	if home, ok := t.Homes[role]; ok {
		return home
	}
	return t.SignIn
}
