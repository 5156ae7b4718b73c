package mailer

import (
	"strings"
	"testing"
)

func TestRenderCredentialsEscapesInput(t *testing.T) {
	body, err := RenderCredentials(Credentials{
		Email:    "ana@example.com",
		Name:     "<Ana>",
		Username: "ana",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(body, "&lt;Ana&gt;") {
		t.Fatalf("expected escaped name, got %s", body)
	}
	if !strings.Contains(body, "secret1") {
		t.Fatalf("expected password in body")
	}
	if strings.Contains(body, "Sign in at") {
		t.Fatalf("login link must be omitted without url")
	}
}
