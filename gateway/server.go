// Package gateway is the off-chain builder and simulator service for the
// token program. It assembles byte-exact program instructions for the
// operational flows the backend drives, deduplicates memos before they
// reach the chain, and runs declarative scenarios on the in-process
// ledger.
package gateway

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"zupytoken/config"
	"zupytoken/ledger"
	"zupytoken/native/common"
	"zupytoken/native/split"
	"zupytoken/native/token"
	"zupytoken/storage"
)

const (
	maxBodyBytes       = 1 << 20 // 1 MiB; simulate scenarios dominate
	headerIdempotency  = "Idempotency-Key"
	defaultIdemTTL     = 24 * time.Hour
	headerRequestID    = "X-Request-Id"
	maxScenarioSteps   = 64
	maxTrailingMetas   = 64
	defaultAuditLimit  = 50
	simulateClockLimit = int64(1) << 40
)

// Server exposes the gateway HTTP API.
type Server struct {
	log     *slog.Logger
	builder *Builder
	store   *Store
	audit   *Audit
	auth    *Authenticator
	limits  *RateLimiter
	metrics *Metrics
}

// ServerConfig wires a Server.
type ServerConfig struct {
	Logger    *slog.Logger
	Addresses *config.Addresses
	Store     *Store
	Audit     *Audit
	Auth      config.Auth
	RateLimit map[string]config.RateLimit
}

// NewServer assembles the service. Store is required; Audit is optional
// and a nil audit only disables the index, never a request.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		log:     logger,
		builder: NewBuilder(cfg.Addresses),
		store:   cfg.Store,
		audit:   cfg.Audit,
		auth:    NewAuthenticator(cfg.Auth, logger),
		limits:  NewRateLimiter(cfg.RateLimit),
		metrics: NewMetrics(),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(build chi.Router) {
			build.Use(s.auth.Middleware)
			build.Use(s.limits.Middleware("build"))
			build.Use(s.metrics.Middleware("build"))
			build.Post("/build/mint", s.handleBuildMint)
			build.Post("/build/restock", s.handleBuildRestock)
			build.Post("/build/distribute", s.handleBuildDistribute)
			build.Post("/build/split", s.handleBuildSplit)
			build.Post("/build/return", s.handleBuildReturn)
			build.Post("/build/return-v1", s.handleBuildReturnV1)
			build.Post("/build/withdraw", s.handleBuildWithdraw)
			build.Post("/build/pause", s.handleBuildPause)
		})
		v1.Group(func(read chi.Router) {
			read.Use(s.metrics.Middleware("read"))
			read.Post("/split/preview", s.handleSplitPreview)
			read.Post("/decode/state", s.handleDecodeState)
			read.Post("/decode/instruction", s.handleDecodeInstruction)
			read.Get("/audit", s.handleAudit)
		})
		v1.Group(func(sim chi.Router) {
			sim.Use(s.auth.Middleware)
			sim.Use(s.limits.Middleware("simulate"))
			sim.Use(s.metrics.Middleware("simulate"))
			sim.Post("/simulate", s.handleSimulate)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- build endpoints ---

func (s *Server) handleBuildMint(w http.ResponseWriter, r *http.Request) {
	var req MintRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respondBuild(w, r, req.Memo, req.Amount, func() (*BuiltInstruction, error) {
		return s.builder.Mint(req)
	})
}

func (s *Server) handleBuildRestock(w http.ResponseWriter, r *http.Request) {
	var req RestockRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respondBuild(w, r, req.Memo, req.Amount, func() (*BuiltInstruction, error) {
		return s.builder.Restock(req)
	})
}

func (s *Server) handleBuildDistribute(w http.ResponseWriter, r *http.Request) {
	var req DistributeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.checkTrailing(w, req.Trailing) {
		return
	}
	s.respondBuild(w, r, req.Memo, req.Amount, func() (*BuiltInstruction, error) {
		return s.builder.Distribute(req)
	})
}

func (s *Server) handleBuildSplit(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.checkTrailing(w, req.Trailing) {
		return
	}
	// Split transfers carry an operation type, not a memo; nothing to
	// deduplicate.
	s.respondBuild(w, r, "", req.Total, func() (*BuiltInstruction, error) {
		return s.builder.Split(req)
	})
}

func (s *Server) handleBuildReturn(w http.ResponseWriter, r *http.Request) {
	var req ReturnRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.checkTrailing(w, req.Trailing) {
		return
	}
	s.respondBuild(w, r, req.Memo, req.Amount, func() (*BuiltInstruction, error) {
		return s.builder.Return(req)
	})
}

func (s *Server) handleBuildReturnV1(w http.ResponseWriter, r *http.Request) {
	var req ReturnV1Request
	if !s.decode(w, r, &req) {
		return
	}
	if !s.checkTrailing(w, req.Forward) {
		return
	}
	s.respondBuild(w, r, "", 0, func() (*BuiltInstruction, error) {
		return s.builder.ReturnV1(req)
	})
}

func (s *Server) handleBuildWithdraw(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.checkTrailing(w, req.Trailing) {
		return
	}
	s.respondBuild(w, r, req.Memo, req.Amount, func() (*BuiltInstruction, error) {
		return s.builder.Withdraw(req)
	})
}

func (s *Server) handleBuildPause(w http.ResponseWriter, r *http.Request) {
	var req PauseRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.respondBuild(w, r, "", 0, func() (*BuiltInstruction, error) {
		return s.builder.Pause(req)
	})
}

// respondBuild runs one build, claiming the memo first so two racing
// requests can never both leave with an instruction for the same memo.
func (s *Server) respondBuild(w http.ResponseWriter, r *http.Request, memoText string, amount uint64, build func() (*BuiltInstruction, error)) {
	requestID := uuid.NewString()
	w.Header().Set(headerRequestID, requestID)

	if idemKey := strings.TrimSpace(r.Header.Get(headerIdempotency)); idemKey != "" {
		if cached, err := s.store.GetIdempotent(idemKey); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(cached.StatusCode)
			w.Write(cached.Body)
			return
		} else if !errors.Is(err, ErrIdempotencyNotFound) {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	inst, err := build()
	op := "unknown"
	if inst != nil {
		op = inst.Operation
	}
	if err != nil {
		s.metrics.RecordBuild(op, "rejected")
		s.recordAudit(AuditEntry{Operation: op, Memo: memoText, Amount: amount, Status: "rejected", Code: codeOf(err)})
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if memoText != "" {
		if err := s.store.ClaimMemo(memoText, inst.Operation, requestID); err != nil {
			if errors.Is(err, common.ErrDuplicateMemo) {
				s.metrics.RecordDuplicateMemo()
				s.metrics.RecordBuild(inst.Operation, "duplicate")
				s.recordAudit(AuditEntry{Operation: inst.Operation, Memo: memoText, Amount: amount, Status: "duplicate", Code: codeOf(err)})
				s.writeError(w, http.StatusConflict, err)
				return
			}
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	s.metrics.RecordBuild(inst.Operation, "built")
	s.recordAudit(AuditEntry{Operation: inst.Operation, Memo: memoText, Amount: amount, Status: "built", Data: inst.Data})

	body, err := json.Marshal(inst)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if idemKey := strings.TrimSpace(r.Header.Get(headerIdempotency)); idemKey != "" {
		if err := s.store.PutIdempotent(idemKey, http.StatusOK, body, defaultIdemTTL); err != nil {
			s.log.Warn("idempotency store failed", "error", err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// --- read endpoints ---

// SplitPreviewRequest asks how a gross total would be apportioned.
type SplitPreviewRequest struct {
	Total uint64 `json:"total"`
}

// SplitPreviewResponse reports the three-way apportionment.
type SplitPreviewResponse struct {
	Total     uint64 `json:"total"`
	Company   uint64 `json:"company"`
	Burn      uint64 `json:"burn"`
	Incentive uint64 `json:"incentive"`
}

func (s *Server) handleSplitPreview(w http.ResponseWriter, r *http.Request) {
	var req SplitPreviewRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := split.Calculate(req.Total)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, SplitPreviewResponse{
		Total:     req.Total,
		Company:   result.Company,
		Burn:      result.Burn,
		Incentive: result.Incentive,
	})
}

// DecodeRequest carries raw bytes to decode.
type DecodeRequest struct {
	Data string `json:"data"` // base64
}

func (s *Server) handleDecodeState(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if !s.decode(w, r, &req) {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	decoded, err := DecodeStateRecord(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, decoded)
}

func (s *Server) handleDecodeInstruction(w http.ResponseWriter, r *http.Request) {
	var req DecodeRequest
	if !s.decode(w, r, &req) {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	decoded, err := DecodeInstructionData(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, decoded)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		s.writeError(w, http.StatusNotFound, errors.New("gateway: audit index not configured"))
		return
	}
	entries, err := s.audit.Recent(defaultAuditLimit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- simulate ---

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var scenario ledger.Scenario
	if !s.decode(w, r, &scenario) {
		return
	}
	if len(scenario.Steps) == 0 || len(scenario.Steps) > maxScenarioSteps {
		s.writeError(w, http.StatusBadRequest, errors.New("gateway: scenario must have between 1 and 64 steps"))
		return
	}
	if scenario.Clock < 0 || scenario.Clock > simulateClockLimit {
		s.writeError(w, http.StatusBadRequest, errors.New("gateway: scenario clock out of range"))
		return
	}
	report, err := ledger.RunScenario(storage.NewMemDB(), &scenario)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.recordAudit(AuditEntry{Operation: "simulate", Status: "ok"})
	writeJSON(w, http.StatusOK, report)
}

// --- plumbing ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (s *Server) checkTrailing(w http.ResponseWriter, metas []AccountMeta) bool {
	if len(metas) > maxTrailingMetas {
		s.writeError(w, http.StatusBadRequest, errors.New("gateway: too many trailing accounts"))
		return false
	}
	for _, meta := range metas {
		if strings.TrimSpace(meta.Key) == "" {
			s.writeError(w, http.StatusBadRequest, errors.New("gateway: trailing account missing key"))
			return false
		}
	}
	return true
}

type errorResponse struct {
	Error string `json:"error"`
	Code  uint32 `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error(), Code: codeOf(err)}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func codeOf(err error) uint32 {
	if code, ok := common.CodeOf(err); ok {
		return code
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// operationNames lists every dispatchable operation, used when decoding an
// instruction's discriminator back to its name.
var operationNames = []string{
	"initialize_token", "initialize_metadata", "update_metadata_field",
	"mint_tokens", "treasury_restock_pool", "transfer_from_pool",
	"return_to_pool", "transfer_company_to_user", "transfer_user_to_company",
	"execute_split_transfer", "burn_tokens", "burn_from_company_pda",
	"initialize_rate_limit", "set_paused", "create_zupy_card",
	"create_coupon_nft", "mint_coupon_cnft", "withdraw_to_external",
	"return_user_to_pool", "return_user_to_pool_v1", "return_to_pool_v1",
}

// DecodedInstruction is the readable form of a program instruction.
type DecodedInstruction struct {
	Operation string `json:"operation"`
	Payload   string `json:"payload"` // base64, after the discriminator
}

func DecodeInstructionData(raw []byte) (*DecodedInstruction, error) {
	if len(raw) < 8 {
		return nil, common.ErrInvalidInstructionData
	}
	var disc [8]byte
	copy(disc[:], raw[:8])
	for _, name := range operationNames {
		if token.InstructionDiscriminator(name) == disc {
			return &DecodedInstruction{
				Operation: name,
				Payload:   base64.StdEncoding.EncodeToString(raw[8:]),
			}, nil
		}
	}
	return nil, common.ErrInvalidInstructionData
}
