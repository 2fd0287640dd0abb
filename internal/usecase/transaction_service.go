package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSC-NA/rsc-core/external/rscapi"
	"github.com/RSC-NA/rsc-core/internal/domain/trade"
)

// leagueTransactions is the slice of the league API the service submits to.
type leagueTransactions interface {
	SubmitTrade(ctx context.Context, req rscapi.TradeRequest) (rscapi.TransactionResponse, error)
	SignPlayer(ctx context.Context, req rscapi.TransactionRequest) (rscapi.TransactionResponse, error)
	CutPlayer(ctx context.Context, req rscapi.TransactionRequest) (rscapi.TransactionResponse, error)
	ResignPlayer(ctx context.Context, req rscapi.TransactionRequest) (rscapi.TransactionResponse, error)
	SubstitutePlayer(ctx context.Context, req rscapi.TransactionRequest) (rscapi.TransactionResponse, error)
}

type SubmitTradeInput struct {
	ExecutorDiscordID int64
	Announcement      string
	Notes             string
}

type PlayerMoveInput struct {
	ExecutorDiscordID  int64
	PlayerDiscordID    int64
	TeamName           string
	PlayerOutDiscordID int64
}

// TransactionService turns trade announcements into league API submissions
// and passes single-player moves straight through. All rule enforcement
// happens server-side; rejections surface unchanged as *rscapi.APIError.
type TransactionService struct {
	parser *trade.Parser
	league leagueTransactions
}

func NewTransactionService(parser *trade.Parser, league leagueTransactions) *TransactionService {
	return &TransactionService{parser: parser, league: league}
}

// ParseTrade resolves an announcement against the current roster without
// submitting anything. Used for previews.
func (s *TransactionService) ParseTrade(ctx context.Context, announcement string) ([]trade.Item, error) {
	ctx, span := startUsecaseSpan(ctx, "TransactionService.ParseTrade")
	defer span.End()

	if strings.TrimSpace(announcement) == "" {
		return nil, fmt.Errorf("%w: trade announcement is required", ErrInvalidInput)
	}

	items, err := s.parser.Parse(ctx, announcement)
	if err != nil {
		return nil, fmt.Errorf("parse trade announcement: %w", err)
	}

	return items, nil
}

func (s *TransactionService) SubmitTrade(ctx context.Context, input SubmitTradeInput) (rscapi.TransactionResponse, error) {
	ctx, span := startUsecaseSpan(ctx, "TransactionService.SubmitTrade")
	defer span.End()

	if input.ExecutorDiscordID <= 0 {
		return rscapi.TransactionResponse{}, fmt.Errorf("%w: executor discord id is required", ErrInvalidInput)
	}

	items, err := s.ParseTrade(ctx, input.Announcement)
	if err != nil {
		return rscapi.TransactionResponse{}, err
	}

	req := rscapi.TradeRequest{
		ExecutorDiscordID: input.ExecutorDiscordID,
		Notes:             strings.TrimSpace(input.Notes),
		Items:             make([]rscapi.TradeItemRequest, 0, len(items)),
	}
	for _, item := range items {
		converted, err := tradeItemRequest(item)
		if err != nil {
			return rscapi.TransactionResponse{}, err
		}
		req.Items = append(req.Items, converted)
	}

	resp, err := s.league.SubmitTrade(ctx, req)
	if err != nil {
		return rscapi.TransactionResponse{}, fmt.Errorf("submit trade: %w", err)
	}

	return resp, nil
}

func (s *TransactionService) SignPlayer(ctx context.Context, input PlayerMoveInput) (rscapi.TransactionResponse, error) {
	ctx, span := startUsecaseSpan(ctx, "TransactionService.SignPlayer")
	defer span.End()

	if strings.TrimSpace(input.TeamName) == "" {
		return rscapi.TransactionResponse{}, fmt.Errorf("%w: team name is required to sign a player", ErrInvalidInput)
	}
	return s.playerMove(ctx, input, s.league.SignPlayer, "sign player")
}

func (s *TransactionService) CutPlayer(ctx context.Context, input PlayerMoveInput) (rscapi.TransactionResponse, error) {
	ctx, span := startUsecaseSpan(ctx, "TransactionService.CutPlayer")
	defer span.End()

	return s.playerMove(ctx, input, s.league.CutPlayer, "cut player")
}

func (s *TransactionService) ResignPlayer(ctx context.Context, input PlayerMoveInput) (rscapi.TransactionResponse, error) {
	ctx, span := startUsecaseSpan(ctx, "TransactionService.ResignPlayer")
	defer span.End()

	return s.playerMove(ctx, input, s.league.ResignPlayer, "re-sign player")
}

func (s *TransactionService) SubstitutePlayer(ctx context.Context, input PlayerMoveInput) (rscapi.TransactionResponse, error) {
	ctx, span := startUsecaseSpan(ctx, "TransactionService.SubstitutePlayer")
	defer span.End()

	if input.PlayerOutDiscordID <= 0 {
		return rscapi.TransactionResponse{}, fmt.Errorf("%w: substitutions need the outgoing player", ErrInvalidInput)
	}
	return s.playerMove(ctx, input, s.league.SubstitutePlayer, "substitute player")
}

func (s *TransactionService) playerMove(
	ctx context.Context,
	input PlayerMoveInput,
	submit func(context.Context, rscapi.TransactionRequest) (rscapi.TransactionResponse, error),
	action string,
) (rscapi.TransactionResponse, error) {
	if input.ExecutorDiscordID <= 0 {
		return rscapi.TransactionResponse{}, fmt.Errorf("%w: executor discord id is required", ErrInvalidInput)
	}
	if input.PlayerDiscordID <= 0 {
		return rscapi.TransactionResponse{}, fmt.Errorf("%w: player discord id is required", ErrInvalidInput)
	}

	resp, err := submit(ctx, rscapi.TransactionRequest{
		ExecutorDiscordID:  input.ExecutorDiscordID,
		PlayerDiscordID:    input.PlayerDiscordID,
		TeamName:           strings.TrimSpace(input.TeamName),
		PlayerOutDiscordID: input.PlayerOutDiscordID,
	})
	if err != nil {
		return rscapi.TransactionResponse{}, fmt.Errorf("%s: %w", action, err)
	}

	return resp, nil
}

func tradeItemRequest(item trade.Item) (rscapi.TradeItemRequest, error) {
	if item.Source.ID <= 0 || item.Destination.ID <= 0 {
		return rscapi.TradeItemRequest{}, fmt.Errorf("%w: trade item franchises are unresolved", ErrInvalidInput)
	}

	out := rscapi.TradeItemRequest{
		SourceFranchiseID:      item.Source.ID,
		DestinationFranchiseID: item.Destination.ID,
	}

	switch {
	case item.Value.Player != nil:
		out.PlayerID = item.Value.Player.PlayerID
		out.DestinationTeam = item.Value.Player.DestTeam
	case item.Value.Pick != nil:
		pick := item.Value.Pick
		out.PickTier = pick.Tier
		out.PickRound = pick.Round
		out.PickNumber = pick.Number
		out.PickSeason = pick.Season
		out.FuturePick = pick.Future
	default:
		return rscapi.TradeItemRequest{}, fmt.Errorf("%w: trade item carries no value", ErrInvalidInput)
	}

	return out, nil
}
