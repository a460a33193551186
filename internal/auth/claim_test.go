package auth

import (
	"net/http"
	"testing"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		kind Kind
	}{
		{"admin", `{"username":"ada","admin":true}`, ""},
		{"not admin", `{"username":"bob","admin":false}`, InsufficientPrivilege},
		{"admin absent", `{"username":"bob"}`, InsufficientPrivilege},
		{"admin not bool", `{"admin":"true"}`, InsufficientPrivilege},
		{"not json", `eyJhbGciOi`, MalformedClaim},
		{"array", `[true]`, MalformedClaim},
		{"null", `null`, MalformedClaim},
		{"trailing data", `{"admin":true} {}`, MalformedClaim},
		{"empty", ``, MalformedClaim},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Authorize([]byte(tc.raw))
			if tc.kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !c.Admin() {
					t.Fatalf("claim should be admin")
				}
				return
			}
			f, ok := AsFailure(err)
			if !ok || f.Kind != tc.kind {
				t.Fatalf("got %v; want kind %s", err, tc.kind)
			}
		})
	}
}

func TestAuthorizeStatuses(t *testing.T) {
	_, err := Authorize([]byte(`{"admin":false}`))
	if f, _ := AsFailure(err); f.Status != http.StatusForbidden {
		t.Fatalf("non-admin status %d", f.Status)
	}
	_, err = Authorize([]byte(`nope`))
	if f, _ := AsFailure(err); f.Status != http.StatusUnauthorized {
		t.Fatalf("malformed status %d", f.Status)
	}
}

func TestClaimPreservesExtraFields(t *testing.T) {
	c, err := Authorize([]byte(`{"sub":"u-42","admin":true,"tenant":{"id":7},"exp":1700000000}`))
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if c.Username() != "u-42" {
		t.Fatalf("username %q", c.Username())
	}
	if _, ok := c["tenant"].(map[string]any); !ok {
		t.Fatalf("nested field lost: %#v", c["tenant"])
	}
	if c["exp"].(interface{ String() string }).String() != "1700000000" {
		t.Fatalf("number not preserved exactly: %v", c["exp"])
	}
}
