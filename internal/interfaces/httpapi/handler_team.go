package httpapi

import (
	"net/http"
	"strings"

	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
)

type franchiseDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
	GMName string `json:"gm_name"`
}

type teamDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Tier        string `json:"tier"`
	FranchiseID int64  `json:"franchise_id"`
}

func (h *Handler) ListFranchises(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFranchises")
	defer span.End()

	franchises, err := h.franchiseService.Franchises(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]franchiseDTO, 0, len(franchises))
	for _, f := range franchises {
		out = append(out, franchiseDTO{
			ID:     f.ID,
			Name:   f.Name,
			Prefix: f.Prefix,
			GMName: f.GM.DisplayName,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"franchises": out})
}

func (h *Handler) ListFranchiseTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFranchiseTeams")
	defer span.End()

	franchiseID, err := pathID(r, "franchiseID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.franchiseService.FranchiseTeams(ctx, franchiseID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"teams": teamDTOs(teams)})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.franchiseService.Teams(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"teams": teamDTOs(teams)})
}

func (h *Handler) ListTiers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTiers")
	defer span.End()

	tiers, err := h.franchiseService.Tiers(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"tiers": tiers})
}

func (h *Handler) FindMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindMembers")
	defer span.End()

	members, err := h.trackerService.FindMembers(ctx, strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"members": members})
}

func (h *Handler) ListTrackers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTrackers")
	defer span.End()

	memberID, err := pathID(r, "memberID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	links, err := h.trackerService.Trackers(ctx, memberID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"trackers": links})
}

func teamDTOs(teams []franchise.Team) []teamDTO {
	out := make([]teamDTO, 0, len(teams))
	for _, team := range teams {
		out = append(out, teamDTO{
			ID:          team.ID,
			Name:        team.Name,
			Tier:        team.Tier,
			FranchiseID: team.FranchiseID,
		})
	}
	return out
}
