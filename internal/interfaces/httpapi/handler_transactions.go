package httpapi

import (
	"context"
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/RSC-NA/rsc-core/external/rscapi"
	"github.com/RSC-NA/rsc-core/internal/domain/trade"
	"github.com/RSC-NA/rsc-core/internal/usecase"
)

type tradeRequestDTO struct {
	ExecutorDiscordID int64  `json:"executor_discord_id" validate:"required,gt=0"`
	Announcement      string `json:"announcement" validate:"required"`
	Notes             string `json:"notes" validate:"omitempty,max=500"`
}

type playerMoveDTO struct {
	ExecutorDiscordID  int64  `json:"executor_discord_id" validate:"required,gt=0"`
	PlayerDiscordID    int64  `json:"player_discord_id" validate:"required,gt=0"`
	TeamName           string `json:"team_name" validate:"omitempty,max=100"`
	PlayerOutDiscordID int64  `json:"player_out_discord_id" validate:"omitempty,gt=0"`
}

type tradeItemDTO struct {
	SourceFranchise      string `json:"source_franchise"`
	DestinationFranchise string `json:"destination_franchise"`
	PlayerName           string `json:"player_name,omitempty"`
	DestinationTeam      string `json:"destination_team,omitempty"`
	PickTier             string `json:"pick_tier,omitempty"`
	PickRound            int    `json:"pick_round,omitempty"`
	PickNumber           int    `json:"pick_number,omitempty"`
	PickSeason           int    `json:"pick_season,omitempty"`
	FuturePick           bool   `json:"future_pick,omitempty"`
}

func (h *Handler) PreviewTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewTrade")
	defer span.End()

	var req tradeRequestDTO
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	items, err := h.transactionService.ParseTrade(ctx, req.Announcement)
	if err != nil {
		h.logger.WarnContext(ctx, "trade preview failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tradeItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, tradeItemFromDomain(item))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handler) SubmitTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitTrade")
	defer span.End()

	var req tradeRequestDTO
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resp, err := h.transactionService.SubmitTrade(ctx, usecase.SubmitTradeInput{
		ExecutorDiscordID: req.ExecutorDiscordID,
		Announcement:      req.Announcement,
		Notes:             req.Notes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "trade submission failed", "executor", req.ExecutorDiscordID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.franchiseService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusCreated, resp)
}

func (h *Handler) SignPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SignPlayer")
	defer span.End()

	h.playerMove(ctx, w, r, h.transactionService.SignPlayer)
}

func (h *Handler) CutPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CutPlayer")
	defer span.End()

	h.playerMove(ctx, w, r, h.transactionService.CutPlayer)
}

func (h *Handler) ResignPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResignPlayer")
	defer span.End()

	h.playerMove(ctx, w, r, h.transactionService.ResignPlayer)
}

func (h *Handler) SubstitutePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubstitutePlayer")
	defer span.End()

	h.playerMove(ctx, w, r, h.transactionService.SubstitutePlayer)
}

func (h *Handler) playerMove(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	submit func(context.Context, usecase.PlayerMoveInput) (rscapi.TransactionResponse, error),
) {
	var req playerMoveDTO
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resp, err := submit(ctx, usecase.PlayerMoveInput{
		ExecutorDiscordID:  req.ExecutorDiscordID,
		PlayerDiscordID:    req.PlayerDiscordID,
		TeamName:           req.TeamName,
		PlayerOutDiscordID: req.PlayerOutDiscordID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "player move failed", "player", req.PlayerDiscordID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.franchiseService.Invalidate(ctx)
	writeSuccess(ctx, w, http.StatusCreated, resp)
}

func tradeItemFromDomain(item trade.Item) tradeItemDTO {
	out := tradeItemDTO{
		SourceFranchise:      item.Source.Name,
		DestinationFranchise: item.Destination.Name,
	}
	switch {
	case item.Value.Player != nil:
		out.PlayerName = item.Value.Player.Name
		out.DestinationTeam = item.Value.Player.DestTeam
	case item.Value.Pick != nil:
		pick := item.Value.Pick
		out.PickTier = pick.Tier
		out.PickRound = pick.Round
		out.PickNumber = pick.Number
		out.PickSeason = pick.Season
		out.FuturePick = pick.Future
	}
	return out
}
