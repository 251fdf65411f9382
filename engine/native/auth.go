// SPDX-License-Identifier: GPL-3.0-or-later

package native

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bassosimone/xfer/capi"
)

// credentials are a user name and a password.
type credentials struct {
	user     string
	password string
}

// credentials returns the credentials for u from the URL, the options
// or the netrc file, or nil.
func (t *transfer) credentials(u *url.URL) *credentials {
	if t.opts.netrc == capi.NetrcRequired {
		if creds := t.netrcCredentials(u.Hostname()); creds != nil {
			return creds
		}
	}
	if u.User != nil {
		password, _ := u.User.Password()
		return &credentials{user: u.User.Username(), password: password}
	}
	if t.opts.userPwd != "" {
		user, password, _ := strings.Cut(t.opts.userPwd, ":")
		return &credentials{user: user, password: password}
	}
	if t.opts.username != "" || t.opts.password != "" {
		return &credentials{user: t.opts.username, password: t.opts.password}
	}
	if t.opts.netrc == capi.NetrcOptional {
		return t.netrcCredentials(u.Hostname())
	}
	return nil
}

// authorize adds the Authorization header to req.
func (t *transfer) authorize(req *http.Request, creds *credentials) {
	if t.opts.httpAuth&capi.AuthBearer != 0 && t.opts.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+t.opts.bearer)
		return
	}
	if creds != nil && t.opts.httpAuth&capi.AuthBasic != 0 {
		req.SetBasicAuth(creds.user, creds.password)
	}
}

// netrcPath returns the netrc file to read.
func (t *transfer) netrcPath() string {
	if t.opts.netrcFile != "" {
		return t.opts.netrcFile
	}
	if path := os.Getenv("NETRC"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netrc")
}

func (t *transfer) netrcCredentials(host string) *credentials {
	path := t.netrcPath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.debugf("Couldn't read netrc file %s", path)
		return nil
	}
	return parseNetrc(string(data), host)
}

// parseNetrc returns the credentials of the first machine entry matching
// host, or of the default entry.
func parseNetrc(data, host string) *credentials {
	var (
		current  *credentials
		matching bool
		fallback *credentials
		tokens   = strings.Fields(data)
	)
	for idx := 0; idx < len(tokens); idx++ {
		next := func() string {
			if idx+1 < len(tokens) {
				idx++
				return tokens[idx]
			}
			return ""
		}
		switch tokens[idx] {
		case "machine":
			if matching && current != nil {
				return current
			}
			current = &credentials{}
			matching = strings.EqualFold(next(), host)
		case "default":
			if matching && current != nil {
				return current
			}
			current = &credentials{}
			fallback = current
			matching = false
		case "login":
			if current != nil {
				current.user = next()
			}
		case "password":
			if current != nil {
				current.password = next()
			}
		case "account":
			next()
		case "macdef":
			// macro bodies end with an empty line, which Fields loses, so
			// skip the rest of the file
			idx = len(tokens)
		}
	}
	if matching && current != nil {
		return current
	}
	return fallback
}
