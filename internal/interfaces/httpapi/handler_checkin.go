package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
	"github.com/RSC-NA/rsc-core/internal/usecase"
)

type checkInDTO struct {
	PlayerDiscordID int64  `json:"player_discord_id" validate:"required,gt=0"`
	Tier            string `json:"tier" validate:"required,max=50"`
	Visible         bool   `json:"visible"`
}

type substituteDTO struct {
	GMDiscordID        int64  `json:"gm_discord_id" validate:"required,gt=0"`
	PlayerInDiscordID  int64  `json:"player_in_discord_id" validate:"required,gt=0"`
	PlayerOutDiscordID int64  `json:"player_out_discord_id" validate:"required,gt=0"`
	Team               string `json:"team" validate:"required,max=100"`
	Tier               string `json:"tier" validate:"required,max=50"`
	Franchise          string `json:"franchise" validate:"required,max=100"`
}

type checkInResponseDTO struct {
	GuildID  int64     `json:"guild_id"`
	PlayerID int64     `json:"player_discord_id"`
	Tier     string    `json:"tier"`
	Date     time.Time `json:"date"`
	Visible  bool      `json:"visible"`
}

type substituteResponseDTO struct {
	GuildID     int64     `json:"guild_id"`
	Date        time.Time `json:"date"`
	GMID        int64     `json:"gm_discord_id"`
	PlayerInID  int64     `json:"player_in_discord_id"`
	PlayerOutID int64     `json:"player_out_discord_id"`
	Team        string    `json:"team"`
	Tier        string    `json:"tier"`
	Franchise   string    `json:"franchise"`
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckIn")
	defer span.End()

	guildID, err := pathID(r, "guildID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req checkInDTO
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

	item, err := h.checkinService.CheckIn(ctx, usecase.CheckInInput{
		GuildID:  guildID,
		PlayerID: req.PlayerDiscordID,
		Tier:     req.Tier,
		Visible:  req.Visible,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "check-in failed", "guild_id", guildID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, checkInResponse(item))
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckOut")
	defer span.End()

	guildID, err := pathID(r, "guildID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.checkinService.CheckOut(ctx, guildID, playerID); err != nil {
		h.logger.WarnContext(ctx, "check-out failed", "guild_id", guildID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "checked out"})
}

func (h *Handler) ListCheckIns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCheckIns")
	defer span.End()

	guildID, err := pathID(r, "guildID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.checkinService.ListCheckIns(ctx, guildID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]checkInResponseDTO, 0, len(items))
	for _, item := range items {
		out = append(out, checkInResponse(item))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"checkins": out})
}

func (h *Handler) DeclareSubstitute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclareSubstitute")
	defer span.End()

	guildID, err := pathID(r, "guildID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req substituteDTO
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

	item, err := h.checkinService.DeclareSubstitute(ctx, usecase.DeclareSubstituteInput{
		GuildID:     guildID,
		GMID:        req.GMDiscordID,
		PlayerInID:  req.PlayerInDiscordID,
		PlayerOutID: req.PlayerOutDiscordID,
		Team:        req.Team,
		Tier:        req.Tier,
		Franchise:   req.Franchise,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "substitute declaration failed", "guild_id", guildID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, substituteResponse(item))
}

func (h *Handler) RemoveSubstitute(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveSubstitute")
	defer span.End()

	guildID, err := pathID(r, "guildID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.checkinService.RemoveSubstitute(ctx, guildID, playerID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) ListSubstitutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubstitutes")
	defer span.End()

	guildID, err := pathID(r, "guildID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.checkinService.ListSubstitutes(ctx, guildID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]substituteResponseDTO, 0, len(items))
	for _, item := range items {
		out = append(out, substituteResponse(item))
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"substitutes": out})
}

func (h *Handler) RunExpireJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunExpireJob")
	defer span.End()

	removed, err := h.checkinService.ExpireOld(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "expire job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"removed": removed})
}

func checkInResponse(item checkin.CheckIn) checkInResponseDTO {
	return checkInResponseDTO{
		GuildID:  item.GuildID,
		PlayerID: item.PlayerID,
		Tier:     item.Tier,
		Date:     item.Date,
		Visible:  item.Visible,
	}
}

func substituteResponse(item checkin.Substitute) substituteResponseDTO {
	return substituteResponseDTO{
		GuildID:     item.GuildID,
		Date:        item.Date,
		GMID:        item.GMID,
		PlayerInID:  item.PlayerInID,
		PlayerOutID: item.PlayerOutID,
		Team:        item.Team,
		Tier:        item.Tier,
		Franchise:   item.Franchise,
	}
}
