package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/franchises", handler.ListFranchises)
	mux.HandleFunc("GET /v1/franchises/{franchiseID}/teams", handler.ListFranchiseTeams)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/tiers", handler.ListTiers)
	mux.HandleFunc("GET /v1/members", handler.FindMembers)
	mux.HandleFunc("GET /v1/members/{memberID}/trackers", handler.ListTrackers)
}

func registerTransactionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/trades/preview", handler.PreviewTrade)
	mux.HandleFunc("POST /v1/trades", handler.SubmitTrade)
	mux.HandleFunc("POST /v1/transactions/sign", handler.SignPlayer)
	mux.HandleFunc("POST /v1/transactions/cut", handler.CutPlayer)
	mux.HandleFunc("POST /v1/transactions/resign", handler.ResignPlayer)
	mux.HandleFunc("POST /v1/transactions/substitution", handler.SubstitutePlayer)
}

func registerCheckinRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/guilds/{guildID}/checkins", handler.ListCheckIns)
	mux.HandleFunc("POST /v1/guilds/{guildID}/checkins", handler.CheckIn)
	mux.HandleFunc("DELETE /v1/guilds/{guildID}/checkins/{playerID}", handler.CheckOut)
	mux.HandleFunc("GET /v1/guilds/{guildID}/substitutes", handler.ListSubstitutes)
	mux.HandleFunc("POST /v1/guilds/{guildID}/substitutes", handler.DeclareSubstitute)
	mux.HandleFunc("DELETE /v1/guilds/{guildID}/substitutes/{playerID}", handler.RemoveSubstitute)
}

func registerReplayRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches/{matchID}/replays", handler.ProcessMatchReplays)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/expire-checkins", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunExpireJob)))
}
