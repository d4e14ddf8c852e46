package cognito

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_SecretHash(t *testing.T) {
	client := &Client{
		clientID:     "client-abc",
		clientSecret: "super-secret",
	}

	got := client.SecretHash("user@example.com")

	mac := hmac.New(sha256.New, []byte("super-secret"))
	mac.Write([]byte("user@example.com" + "client-abc"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, got)
}

func TestClient_SecretHash_DistinctPerUsername(t *testing.T) {
	client := &Client{
		clientID:     "client-abc",
		clientSecret: "super-secret",
	}

	assert.NotEqual(t,
		client.SecretHash("alice@example.com"),
		client.SecretHash("bob@example.com"))
}

func TestClient_SecretHash_EmptyWithoutSecret(t *testing.T) {
	client := &Client{clientID: "client-abc"}

	assert.Empty(t, client.SecretHash("user@example.com"))
}
