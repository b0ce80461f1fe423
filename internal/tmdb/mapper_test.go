package tmdb

import (
	"fmt"
	"testing"

	"github.com/nfoedit/nfoedit/internal/nfo"
)

func TestMovieToRecord(t *testing.T) {
	movie := &Movie{
		Title:               "Heat",
		OriginalTitle:       "Heat",
		ReleaseDate:         "1995-12-15",
		Overview:            "A crew of thieves.",
		Runtime:             170,
		VoteAverage:         8.31,
		PosterPath:          "/poster.jpg",
		Genres:              []Genre{{Name: "Crime"}, {Name: "Drama"}},
		ProductionCompanies: []Company{{Name: "Warner Bros."}, {Name: "Regency"}},
		Credits: Credits{
			Crew: []CrewMember{
				{Name: "Michael Mann", Job: "Director"},
				{Name: "Dante Spinotti", Job: "Director of Photography"},
			},
			Cast: []CastMember{{Name: "Al Pacino", Character: "Vincent Hanna", Order: 0}},
		},
	}

	rec := MovieToRecord(movie)

	if rec.Type != nfo.TypeMovie {
		t.Errorf("got type %s", rec.Type)
	}
	if rec.Title != "Heat" || rec.Year != "1995" || rec.Runtime != "170" {
		t.Errorf("got %+v", rec)
	}
	if rec.Rating != "8.3" {
		t.Errorf("got rating %q, want 8.3", rec.Rating)
	}
	// First production company is the studio
	if rec.Studio != "Warner Bros." {
		t.Errorf("got studio %q", rec.Studio)
	}
	if len(rec.Genres) != 2 || rec.Genres[0] != "Crime" {
		t.Errorf("got genres %v", rec.Genres)
	}
	// Only the Director job maps; a DP is not a director
	if len(rec.Directors) != 1 || rec.Directors[0] != "Michael Mann" {
		t.Errorf("got directors %v", rec.Directors)
	}
	if len(rec.Actors) != 1 || rec.Actors[0].Role != "Vincent Hanna" {
		t.Errorf("got actors %+v", rec.Actors)
	}
	if rec.Poster != imageBaseURL+"/poster.jpg" {
		t.Errorf("got poster %q", rec.Poster)
	}
	if rec.Fanart != "" {
		t.Errorf("got fanart %q for empty backdrop", rec.Fanart)
	}

	if ok, errs := nfo.Validate(rec); !ok {
		t.Errorf("mapped record fails validation: %v", errs)
	}
}

func TestTVToRecord(t *testing.T) {
	tv := &TV{
		Name:           "Breaking Bad",
		FirstAirDate:   "2008-01-20",
		EpisodeRunTime: []int{47, 60},
		VoteAverage:    8.9,
		Networks:       []Company{{Name: "AMC"}},
		Genres:         []Genre{{Name: "Drama"}},
	}

	rec := TVToRecord(tv)

	if rec.Type != nfo.TypeTVShow {
		t.Errorf("got type %s", rec.Type)
	}
	if rec.Title != "Breaking Bad" || rec.Year != "2008" {
		t.Errorf("got %+v", rec)
	}
	if rec.Runtime != "47" {
		t.Errorf("got runtime %q", rec.Runtime)
	}
	if rec.Studio != "AMC" {
		t.Errorf("got studio %q", rec.Studio)
	}
}

func TestMapCreditsCapsCast(t *testing.T) {
	var cast []CastMember
	for i := 0; i < 30; i++ {
		cast = append(cast, CastMember{Name: fmt.Sprintf("Actor %d", i), Order: i})
	}

	rec := &nfo.Record{}
	mapCredits(rec, Credits{Cast: cast})

	if len(rec.Actors) != 20 {
		t.Errorf("got %d actors, want 20", len(rec.Actors))
	}
	if rec.Actors[0].Name != "Actor 0" {
		t.Errorf("got first actor %q", rec.Actors[0].Name)
	}
}

func TestMapperEdgeValues(t *testing.T) {
	rec := MovieToRecord(&Movie{Title: "x"})
	if rec.Year != "" || rec.Rating != "" || rec.Runtime != "" {
		t.Errorf("empty source should map to empty fields, got %+v", rec)
	}

	if got := yearOf("199"); got != "" {
		t.Errorf("yearOf short date: got %q", got)
	}
	if got := formatRating(0); got != "" {
		t.Errorf("formatRating(0): got %q", got)
	}
}
