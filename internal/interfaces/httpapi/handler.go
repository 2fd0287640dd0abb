package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/RSC-NA/rsc-core/internal/domain/match"
	"github.com/RSC-NA/rsc-core/internal/platform/logging"
	"github.com/RSC-NA/rsc-core/internal/usecase"
)

type matchSource interface {
	MatchByID(ctx context.Context, matchID int64) (match.Match, error)
}

type Handler struct {
	transactionService *usecase.TransactionService
	checkinService     *usecase.CheckinService
	replayService      *usecase.ReplayService
	franchiseService   *usecase.FranchiseService
	trackerService     *usecase.TrackerService
	matches            matchSource
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	transactionService *usecase.TransactionService,
	checkinService *usecase.CheckinService,
	replayService *usecase.ReplayService,
	franchiseService *usecase.FranchiseService,
	trackerService *usecase.TrackerService,
	matches matchSource,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		transactionService: transactionService,
		checkinService:     checkinService,
		replayService:      replayService,
		franchiseService:   franchiseService,
		trackerService:     trackerService,
		matches:            matches,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return id, nil
}
