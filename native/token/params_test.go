package token

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestProgramIDsAllDistinct(t *testing.T) {
	ids := []solana.PublicKey{
		ProgramID,
		Token2022Program,
		ATAProgram,
		SystemProgram,
		BubblegumProgram,
		SPLAccountCompression,
		SPLNoop,
		CompressedTokenProgram,
		LightSystemProgram,
		AccountCompressionProgram,
		LightRegistryProgram,
	}
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if ids[i].Equals(ids[j]) {
				t.Fatalf("program ids %d and %d collide: %s", i, j, ids[i])
			}
		}
	}
}

func TestSystemProgramIsAllZeros(t *testing.T) {
	if SystemProgram != (solana.PublicKey{}) {
		t.Fatalf("system program = %s", SystemProgram)
	}
}

func TestCTokenCPIAuthorityDerivation(t *testing.T) {
	derived, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("cpi_authority")},
		CompressedTokenProgram,
	)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !derived.Equals(CTokenCPIAuthority) {
		t.Fatalf("derived %s, pinned %s", derived, CTokenCPIAuthority)
	}
}

func TestAccountCompressionAuthorityDerivation(t *testing.T) {
	derived, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("cpi_authority")},
		LightSystemProgram,
	)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !derived.Equals(AccountCompressionAuthority) {
		t.Fatalf("derived %s, pinned %s", derived, AccountCompressionAuthority)
	}
}

func TestMintCapsOrdered(t *testing.T) {
	if PerTxAutoLimit > DailyAutoLimit {
		t.Fatal("per-tx auto limit exceeds the daily auto limit")
	}
	if PerTxMintLimitDevnet > DailyMintLimitDevnet {
		t.Fatal("devnet per-tx cap exceeds the devnet daily cap")
	}
	if PerTxMintLimitProduction > DailyMintLimitProduction {
		t.Fatal("production per-tx cap exceeds the production daily cap")
	}
}

func TestDayOf(t *testing.T) {
	if DayOf(0) != 0 {
		t.Fatalf("DayOf(0) = %d", DayOf(0))
	}
	if DayOf(SecondsPerDay-1) != 0 {
		t.Fatalf("DayOf(86399) = %d", DayOf(SecondsPerDay-1))
	}
	if DayOf(SecondsPerDay) != 1 {
		t.Fatalf("DayOf(86400) = %d", DayOf(SecondsPerDay))
	}
	// 2026-08-24T12:00:00Z and midnight the same day share a bucket.
	noon := int64(1_787_572_800)
	midnight := noon - noon%SecondsPerDay
	if DayOf(noon) != DayOf(midnight) {
		t.Fatal("same UTC day must share a bucket")
	}
	if DayOf(midnight) != DayOf(midnight-1)+1 {
		t.Fatal("midnight must start a new bucket")
	}
}
