package memory

import (
	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
	"github.com/RSC-NA/rsc-core/internal/domain/trade"
)

const SeedGuildID int64 = 900100

func SeedFranchises() []franchise.Franchise {
	return []franchise.Franchise{
		{ID: 1, Name: "Arctic Foxes", Prefix: "AF", GM: franchise.GeneralManager{MemberID: 1001, DisplayName: "Harlan"}},
		{ID: 2, Name: "Boulder Bison", Prefix: "BB", GM: franchise.GeneralManager{MemberID: 1002, DisplayName: "Priya"}},
		{ID: 3, Name: "Cinder Wolves", Prefix: "CW", GM: franchise.GeneralManager{MemberID: 1003, DisplayName: "Mateo"}},
	}
}

func SeedTeams() []franchise.Team {
	return []franchise.Team{
		{ID: 10, Name: "Arctic Foxes Elite", Tier: "Elite", FranchiseID: 1},
		{ID: 11, Name: "Arctic Foxes Major", Tier: "Major", FranchiseID: 1},
		{ID: 20, Name: "Boulder Bison Elite", Tier: "Elite", FranchiseID: 2},
		{ID: 21, Name: "Boulder Bison Major", Tier: "Major", FranchiseID: 2},
		{ID: 30, Name: "Cinder Wolves Elite", Tier: "Elite", FranchiseID: 3},
	}
}

func SeedPlayers() []trade.Player {
	franchises := SeedFranchises()
	return []trade.Player{
		{ID: 501, Name: "Vex", Tier: "Elite", Franchise: franchises[0]},
		{ID: 502, Name: "Kestrel", Tier: "Major", Franchise: franchises[0]},
		{ID: 503, Name: "Onyx", Tier: "Elite", Franchise: franchises[1]},
		{ID: 504, Name: "Raptor", Tier: "Major", Franchise: franchises[1]},
		{ID: 505, Name: "Slate", Tier: "Elite", Franchise: franchises[2]},
	}
}
