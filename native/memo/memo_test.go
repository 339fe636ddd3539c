package memo

import (
	"errors"
	"testing"

	"zupytoken/native/common"
)

func TestValidateAccepts(t *testing.T) {
	for _, m := range []string{
		"zupy:v1:transfer:12345",
		"zupy:v1:split:a:b:c",
		"zupy:v1:mint:tx_9f8e7d",
		"zupy:v1:x:y",
	} {
		if err := Validate(m); err != nil {
			t.Fatalf("memo %q should validate: %v", m, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	for _, m := range []string{
		"",
		"zupy",
		"zupy:v1",
		"zupy:v1:transfer",
		"zupy:v2:transfer:123",
		"zupi:v1:transfer:123",
		"zupy:v1::123",
		"zupy:v1:transfer:",
		"ZUPY:v1:transfer:123",
	} {
		err := Validate(m)
		if !errors.Is(err, common.ErrInvalidMemoFormat) {
			t.Fatalf("memo %q should reject with ErrInvalidMemoFormat, got %v", m, err)
		}
	}
}

func TestPartsKeepsEmbeddedColons(t *testing.T) {
	source, id, err := Parts("zupy:v1:split:a:b:c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "split" {
		t.Fatalf("unexpected source: %q", source)
	}
	if id != "a:b:c" {
		t.Fatalf("identifier must keep embedded colons, got %q", id)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	m := Format("restock", "2026-08-24T00:00:00Z")
	if err := Validate(m); err != nil {
		t.Fatalf("formatted memo should validate: %v", err)
	}
	source, id, err := Parts(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "restock" || id != "2026-08-24T00:00:00Z" {
		t.Fatalf("unexpected parts: %q %q", source, id)
	}
}
