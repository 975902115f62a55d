package domain

// Credential holds a secret for the duration of one privileged call.
//
// The zero value and a nil pointer are both empty credentials. String and
// GoString never reveal the secret.
type Credential struct {
	secret []byte
}

// NewCredential takes ownership of secret. Callers must not reuse the slice.
func NewCredential(secret []byte) *Credential {
	return &Credential{secret: secret}
}

// Bytes exposes the secret. The returned slice is zeroed by Zero.
func (c *Credential) Bytes() []byte {
	if c == nil {
		return nil
	}
	return c.secret
}

// Empty reports whether no secret is held.
func (c *Credential) Empty() bool {
	return c == nil || len(c.secret) == 0
}

// Zero overwrites and drops the secret.
func (c *Credential) Zero() {
	if c == nil {
		return
	}
	for i := range c.secret {
		c.secret[i] = 0
	}
	c.secret = nil
}

func (c *Credential) String() string {
	return "[redacted]"
}

func (c *Credential) GoString() string {
	return "domain.Credential{[redacted]}"
}
