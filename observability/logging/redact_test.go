package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMaskFieldRedactsCredentialKeys(t *testing.T) {
	attr := MaskField("token", "eyJhbGciOiJIUzI1NiJ9.payload.sig")
	if attr.Value.String() != Redacted {
		t.Fatalf("token value not redacted: %q", attr.Value.String())
	}

	attr = MaskField("Idempotency_Key", "abc-123")
	if attr.Value.String() != Redacted {
		t.Fatalf("idempotency key not redacted: %q", attr.Value.String())
	}

	attr = MaskField("operation", "mint_tokens")
	if attr.Value.String() != "mint_tokens" {
		t.Fatalf("non-sensitive key mangled: %q", attr.Value.String())
	}

	attr = MaskField("token", "")
	if attr.Value.String() != "" {
		t.Fatalf("empty credential should stay empty, got %q", attr.Value.String())
	}
}

func TestHandlerMasksSensitiveAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(&buf, "zupy-gateway", "devnet")

	logger.Info("auth rejected", "token", "super-secret-bearer", "operation", "mint_tokens")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line not JSON: %v", err)
	}
	if line["token"] != Redacted {
		t.Fatalf("token leaked into log line: %v", line["token"])
	}
	if line["operation"] != "mint_tokens" {
		t.Fatalf("operation mangled: %v", line["operation"])
	}
	if line["severity"] != "INFO" || line["message"] != "auth rejected" {
		t.Fatalf("renamed keys missing: %v", line)
	}
	if strings.Contains(buf.String(), "super-secret-bearer") {
		t.Fatal("credential value present in raw output")
	}
}

func TestLevelFollowsEnvironment(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(&buf, "zupy-gateway", "mainnet")
	if logger.Enabled(nil, slog.LevelDebug) {
		t.Fatal("mainnet logger must not emit debug")
	}

	buf.Reset()
	dev := setup(&buf, "zupy-gateway", "devnet")
	if !dev.Enabled(nil, slog.LevelDebug) {
		t.Fatal("devnet logger must emit debug")
	}
}
