package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/racquet-draw/internal/bracket"
	"github.com/AdamBeresnev/racquet-draw/internal/utils"
	"github.com/google/uuid"
)

func shortID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()[:8]
}

func scoreLine(m bracket.Match) string {
	var sets []string
	for _, set := range [][2]*int{{m.Set1A, m.Set1B}, {m.Set2A, m.Set2B}, {m.Set3A, m.Set3B}} {
		if set[0] == nil || set[1] == nil {
			continue
		}
		sets = append(sets, fmt.Sprintf("%d-%d", *set[0], *set[1]))
	}
	return strings.Join(sets, " ")
}

// scheduleLine reads "date start-end court" for a match that has a court.
func scheduleLine(m bracket.Match, courts map[uuid.UUID]string) string {
	return fmt.Sprintf("%s %s-%s %s",
		utils.OrZero(m.ScheduledDate), utils.OrZero(m.StartTime), utils.OrZero(m.EndTime), courts[*m.CourtID])
}

func positionLabel(e bracket.RankingEntry) string {
	if e.Position == nil {
		return ""
	}
	return strconv.Itoa(*e.Position)
}

func trendLabel(e bracket.RankingEntry) string {
	switch t := e.Trend(); {
	case t > 0:
		return "+" + strconv.Itoa(t)
	case t < 0:
		return strconv.Itoa(t)
	}
	return "="
}
