package auth

import (
	"bytes"
	"encoding/json"
)

// Claim is the decoded authorization payload returned by the authentication
// service. Only "admin" is interpreted; every other field is carried through
// untouched so it can travel with the upload event.
type Claim map[string]any

// Admin reports whether the claim grants the admin role. A missing or
// non-boolean "admin" field counts as false.
func (c Claim) Admin() bool {
	v, ok := c["admin"].(bool)
	return ok && v
}

// Username returns the caller identity, preferring "username" and falling
// back to "sub" then "email".
func (c Claim) Username() string {
	for _, k := range []string{"username", "sub", "email"} {
		if s, ok := c[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Authorize decodes raw and requires the admin role. It performs no I/O.
func Authorize(raw []byte) (Claim, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var c Claim
	if err := dec.Decode(&c); err != nil || c == nil {
		return nil, ErrMalformedClaim
	}
	if dec.More() {
		return nil, ErrMalformedClaim
	}
	if !c.Admin() {
		return nil, ErrNotAdmin
	}
	return c, nil
}
