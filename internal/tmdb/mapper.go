package tmdb

import (
	"fmt"
	"strconv"

	"github.com/nfoedit/nfoedit/internal/nfo"
)

const imageBaseURL = "https://image.tmdb.org/t/p/original"

// MovieToRecord maps TMDB movie details onto an NFO record
func MovieToRecord(m *Movie) *nfo.Record {
	rec := &nfo.Record{
		Type:          nfo.TypeMovie,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Year:          yearOf(m.ReleaseDate),
		Plot:          m.Overview,
		Rating:        formatRating(m.VoteAverage),
		Poster:        imageURL(m.PosterPath),
		Fanart:        imageURL(m.BackdropPath),
	}
	if m.Runtime > 0 {
		rec.Runtime = strconv.Itoa(m.Runtime)
	}
	if len(m.ProductionCompanies) > 0 {
		rec.Studio = m.ProductionCompanies[0].Name
	}
	for _, g := range m.Genres {
		rec.Genres = append(rec.Genres, g.Name)
	}
	mapCredits(rec, m.Credits)
	return rec
}

// TVToRecord maps TMDB TV show details onto an NFO record
func TVToRecord(t *TV) *nfo.Record {
	rec := &nfo.Record{
		Type:          nfo.TypeTVShow,
		Title:         t.Name,
		OriginalTitle: t.OriginalName,
		Year:          yearOf(t.FirstAirDate),
		Plot:          t.Overview,
		Rating:        formatRating(t.VoteAverage),
		Poster:        imageURL(t.PosterPath),
		Fanart:        imageURL(t.BackdropPath),
	}
	if len(t.EpisodeRunTime) > 0 {
		rec.Runtime = strconv.Itoa(t.EpisodeRunTime[0])
	}
	if len(t.Networks) > 0 {
		rec.Studio = t.Networks[0].Name
	}
	for _, g := range t.Genres {
		rec.Genres = append(rec.Genres, g.Name)
	}
	mapCredits(rec, t.Credits)
	return rec
}

func mapCredits(rec *nfo.Record, credits Credits) {
	for _, crew := range credits.Crew {
		if crew.Job == "Director" {
			rec.Directors = append(rec.Directors, crew.Name)
		}
	}
	// Top billing only; a full cast list bloats the NFO
	cast := credits.Cast
	if len(cast) > 20 {
		cast = cast[:20]
	}
	for _, c := range cast {
		rec.Actors = append(rec.Actors, nfo.Actor{
			Name:  c.Name,
			Role:  c.Character,
			Thumb: imageURL(c.ProfilePath),
			Order: c.Order,
		})
	}
}

func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

func formatRating(v float64) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f", v)
}

func imageURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}
