package gateway

import (
	"encoding/hex"
	"time"

	"zupytoken/native/common"
	"zupytoken/native/token"
)

// DecodedState is the readable form of a persistent program record. Kind
// distinguishes the three record layouts; only the fields for that kind
// are populated.
type DecodedState struct {
	Kind string `json:"kind"`

	// TokenState fields.
	Treasury          string `json:"treasury,omitempty"`
	MintAuthority     string `json:"mintAuthority,omitempty"`
	TransferAuthority string `json:"transferAuthority,omitempty"`
	PoolATA           string `json:"poolAta,omitempty"`
	DistributionPool  string `json:"distributionPool,omitempty"`
	IncentivePool     string `json:"incentivePool,omitempty"`
	TreasuryATA       string `json:"treasuryAta,omitempty"`
	Mint              string `json:"mint,omitempty"`
	Initialized       bool   `json:"initialized,omitempty"`
	Bump              uint8  `json:"bump"`
	PerTxAutoLimit    uint64 `json:"perTxAutoLimit,omitempty"`
	DailyAutoLimit    uint64 `json:"dailyAutoLimit,omitempty"`
	DailyMinted       uint64 `json:"dailyMinted,omitempty"`
	LastReset         string `json:"lastReset,omitempty"`
	Paused            bool   `json:"paused,omitempty"`

	// RateLimitState fields.
	Authority   string `json:"authority,omitempty"`
	CurrentDay  uint64 `json:"currentDay,omitempty"`
	MintedToday uint64 `json:"mintedToday,omitempty"`

	// ZupyCard fields.
	Owner     string `json:"owner,omitempty"`
	UserID    string `json:"userId,omitempty"` // hex, identifiers are raw bytes
	CreatedAt string `json:"createdAt,omitempty"`
}

// DecodeStateRecord decodes raw account data by its 8-byte record tag.
func DecodeStateRecord(raw []byte) (*DecodedState, error) {
	if len(raw) < 8 {
		return nil, common.ErrInvalidAccountData
	}
	var disc [8]byte
	copy(disc[:], raw[:8])

	switch disc {
	case token.StateDiscriminator:
		view, err := token.ViewState(raw)
		if err != nil {
			return nil, err
		}
		return &DecodedState{
			Kind:              "TokenState",
			Treasury:          view.Treasury().String(),
			MintAuthority:     view.MintAuthorityKey().String(),
			TransferAuthority: view.TransferAuthorityKey().String(),
			PoolATA:           view.PoolATA().String(),
			DistributionPool:  view.DistributionPool().String(),
			IncentivePool:     view.IncentivePool().String(),
			TreasuryATA:       view.TreasuryATA().String(),
			Mint:              view.Mint().String(),
			Initialized:       view.Initialized(),
			Bump:              view.Bump(),
			PerTxAutoLimit:    view.PerTxAutoLimit(),
			DailyAutoLimit:    view.DailyAutoLimit(),
			DailyMinted:       view.DailyMinted(),
			LastReset:         formatUnix(view.LastResetTimestamp()),
			Paused:            view.Paused(),
		}, nil
	case token.RateLimitDiscriminator:
		view, err := token.ViewRateLimit(raw)
		if err != nil {
			return nil, err
		}
		usage := view.Usage()
		return &DecodedState{
			Kind:        "RateLimitState",
			Authority:   view.Authority().String(),
			CurrentDay:  usage.Day,
			MintedToday: usage.Minted,
			Bump:        view.Bump(),
		}, nil
	case token.CardDiscriminator:
		view, err := token.ViewCard(raw)
		if err != nil {
			return nil, err
		}
		id := view.UserID()
		return &DecodedState{
			Kind:      "ZupyCard",
			Owner:     view.Owner().String(),
			Mint:      view.Mint().String(),
			UserID:    hex.EncodeToString(id[:]),
			CreatedAt: formatUnix(view.CreatedAt()),
			Bump:      view.Bump(),
		}, nil
	default:
		return nil, common.ErrInvalidAccountData
	}
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
