package views

import (
	"sort"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/service"
	"github.com/google/uuid"
)

type CategoryData struct {
	Name       string
	Rounds     []service.Round
	ThirdPlace *bracket.Match
	PairNames  map[uuid.UUID]string
}

type BracketData struct {
	Tournament bracket.Tournament
	Categories []CategoryData
	CourtNames map[uuid.UUID]string
}

func PrepareBracketData(view service.BracketView) BracketData {
	courtNames := make(map[uuid.UUID]string, len(view.Courts))
	for _, c := range view.Courts {
		courtNames[c.ID] = c.Name
	}

	categories := make([]CategoryData, 0, len(view.Categories))
	for _, cd := range view.Categories {
		pairNames := make(map[uuid.UUID]string, len(cd.Pairs))
		for _, p := range cd.Pairs {
			pairNames[p.ID] = shortID(&p.PlayerAID) + " / " + shortID(&p.PlayerBID)
		}

		rounds := make([]service.Round, len(cd.Rounds))
		copy(rounds, cd.Rounds)
		sortRounds(rounds)

		categories = append(categories, CategoryData{
			Name:       cd.Category.Name,
			Rounds:     rounds,
			ThirdPlace: cd.ThirdPlace,
			PairNames:  pairNames,
		})
	}

	return BracketData{
		Tournament: view.Tournament,
		Categories: categories,
		CourtNames: courtNames,
	}
}

func sortRounds(rounds []service.Round) {
	for i := range rounds {
		matches := append([]bracket.Match(nil), rounds[i].Matches...)
		sort.Slice(matches, func(a, b int) bool {
			return matches[a].MatchOrder < matches[b].MatchOrder
		})
		rounds[i].Matches = matches
	}
}

func (c CategoryData) pairName(id *uuid.UUID) string {
	if id == nil {
		return "TBD"
	}
	if name, ok := c.PairNames[*id]; ok {
		return name
	}
	return shortID(id)
}
