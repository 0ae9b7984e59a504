// Package remoterepos implements the repositories over the backend REST API.
package remoterepos

import (
	"net/url"
	"path"

	"github.com/trezcool/proctor/client"
	"github.com/trezcool/proctor/core"
)

// Repos builds every repository on top of one client.
type Repos struct {
	c *client.Client
}

func New(c *client.Client) *Repos {
	return &Repos{c: c}
}

// resource joins base and the escaped id, plus optional trailing segments.
func resource(base string, id core.ID, sub ...string) string {
	p := base + "/" + url.PathEscape(id.String())
	if len(sub) > 0 {
		p = path.Join(append([]string{p}, sub...)...)
	}
	return p
}
