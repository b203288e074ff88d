package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-cinema-seat-booking/internal/domain/program"
)

// DefaultCatalog は初回起動時に投入する既定の上映スケジュールを返す
// 各上映回は A1..A36 の36席で構成される
func DefaultCatalog() ([]*program.Program, error) {
	seed := []struct {
		title    string
		showings []time.Duration
	}{
		{title: "スペース・オデッセイ 完全版", showings: []time.Duration{26 * time.Hour, 50 * time.Hour}},
		{title: "真夏の東京急行", showings: []time.Duration{30 * time.Hour}},
	}

	now := time.Now().Truncate(time.Hour)
	programs := make([]*program.Program, 0, len(seed))
	for _, sp := range seed {
		showings := make([]*program.Showing, 0, len(sp.showings))
		for _, offset := range sp.showings {
			sh, err := program.NewShowing(uuid.New().String(), now.Add(offset), program.NewSeats("A", 36))
			if err != nil {
				return nil, err
			}
			showings = append(showings, sh)
		}
		p, err := program.NewProgram(uuid.New().String(), sp.title, showings)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, nil
}
