package remote

import (
	"strings"

	"github.com/yosida95/uritemplate/v3"
)

// Action identifies one remote endpoint slot.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionSearch Action = "search"
)

// URLs holds the Level-1 URI template for each action, relative to the API
// prefix. A "{id}" placeholder is substituted with the annotation's
// backend-assigned id.
type URLs struct {
	Create string
	Update string
	Delete string
	Search string
}

// DefaultURLs returns the conventional endpoint layout.
func DefaultURLs() URLs {
	return URLs{
		Create: "annotations",
		Update: "annotations/{id}",
		Delete: "annotations/{id}",
		Search: "search",
	}
}

func (u URLs) forAction(a Action) string {
	switch a {
	case ActionCreate:
		return u.Create
	case ActionUpdate:
		return u.Update
	case ActionDelete:
		return u.Delete
	case ActionSearch:
		return u.Search
	}
	return ""
}

// templates precompiles the four endpoint templates.
type templates map[Action]*uritemplate.Template

func compileTemplates(u URLs) (templates, error) {
	t := make(templates, 4)
	for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete, ActionSearch} {
		raw := u.forAction(action)
		if raw == "" {
			return nil, Error.New("no url template for action %q", action)
		}
		tmpl, err := uritemplate.New(raw)
		if err != nil {
			return nil, Error.New("invalid url template for action %q: %v", action, err)
		}
		t[action] = tmpl
	}
	return t, nil
}

// urlFor joins the API prefix with the expanded template for the action. The
// id placeholder expands to the empty string when no id is given; a dangling
// trailing slash left behind by that is trimmed.
func (s *Store) urlFor(action Action, id string) (string, error) {
	tmpl, ok := s.templates[action]
	if !ok {
		return "", Error.New("no url template for action %q", action)
	}
	expanded, err := tmpl.Expand(uritemplate.Values{
		"id": uritemplate.String(id),
	})
	if err != nil {
		return "", Error.Wrap(err)
	}

	url := strings.TrimSuffix(s.config.Prefix, "/") + "/" + expanded
	if id == "" {
		url = strings.TrimSuffix(url, "/")
	}
	return url, nil
}
