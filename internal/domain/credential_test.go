package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/hostwarden/internal/domain"
)

func TestCredentialZeroOverwritesSecret(t *testing.T) {
	secret := []byte("hunter2")
	cred := domain.NewCredential(secret)
	assert.False(t, cred.Empty())

	cred.Zero()
	assert.True(t, cred.Empty())
	assert.Equal(t, make([]byte, len("hunter2")), secret)
}

func TestCredentialNeverFormatsSecret(t *testing.T) {
	cred := domain.NewCredential([]byte("hunter2"))
	for _, out := range []string{
		fmt.Sprintf("%v", cred),
		fmt.Sprintf("%s", cred),
		fmt.Sprintf("%+v", cred),
		fmt.Sprintf("%#v", cred),
	} {
		assert.NotContains(t, out, "hunter2")
	}
}

func TestNilCredentialIsEmpty(t *testing.T) {
	var cred *domain.Credential
	assert.True(t, cred.Empty())
	assert.Nil(t, cred.Bytes())
	cred.Zero()
}
