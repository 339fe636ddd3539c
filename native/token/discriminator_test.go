package token

import "testing"

func TestInstructionDiscriminatorKnownVector(t *testing.T) {
	want := [8]byte{163, 52, 200, 231, 140, 3, 69, 186}
	if got := InstructionDiscriminator("transfer"); got != want {
		t.Fatalf("unexpected discriminator for transfer: %v", got)
	}
}

func TestDiscriminatorDomainsDiffer(t *testing.T) {
	if AccountDiscriminator("transfer") == InstructionDiscriminator("transfer") {
		t.Fatalf("account and instruction namespaces must not collide")
	}
}

func TestDayOfRolloverVectors(t *testing.T) {
	if DayOf(0) != 0 {
		t.Fatalf("unexpected day for 0")
	}
	if DayOf(SecondsPerDay-1) != 0 {
		t.Fatalf("unexpected day just before rollover")
	}
	if DayOf(SecondsPerDay) != 1 {
		t.Fatalf("unexpected day at rollover")
	}
	if DayOf(SecondsPerDay*19_723 + 5) != 19_723 {
		t.Fatalf("unexpected day for large timestamp")
	}
}
