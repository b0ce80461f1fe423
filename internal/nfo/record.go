// Package nfo implements the NFO metadata record: the XML-backed data model
// used by media centers, its parser and serializer, and field validation.
package nfo

// Type identifies the kind of NFO file by its XML root element
type Type string

const (
	TypeMovie   Type = "movie"
	TypeTVShow  Type = "tvshow"
	TypeEpisode Type = "episodedetails"
)

// Actor is one cast entry in an NFO record
type Actor struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Thumb string `json:"thumb,omitempty"`
	Order int    `json:"order"`
}

// Record holds all fields of one parsed NFO file. Unknown tags are kept in
// Extra so a parse/save round trip never drops data the editor does not
// understand.
type Record struct {
	Type          Type     `json:"nfo_type"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"originaltitle"`
	Year          string   `json:"year"`
	Plot          string   `json:"plot"`
	Runtime       string   `json:"runtime"`
	Studio        string   `json:"studio"`
	Rating        string   `json:"rating"`
	Poster        string   `json:"poster"`
	Fanart        string   `json:"fanart"`
	Genres        []string `json:"genres"`
	Directors     []string `json:"directors"`
	Actors        []Actor  `json:"actors"`

	// TV show / episode specific
	Season  string `json:"season,omitempty"`
	Episode string `json:"episode,omitempty"`
	Aired   string `json:"aired,omitempty"`

	Extra []Fragment `json:"-"`
}

// FieldValues returns a batch-editable field as a value list. Single-valued
// fields come back as a one-element (or empty) list so the mutation logic
// can treat every field uniformly.
func (r *Record) FieldValues(field string) ([]string, bool) {
	switch field {
	case "studio":
		if r.Studio == "" {
			return nil, true
		}
		return []string{r.Studio}, true
	case "genre":
		return r.Genres, true
	case "director":
		return r.Directors, true
	}
	return nil, false
}

// SetFieldValues stores a value list back into a batch-editable field
func (r *Record) SetFieldValues(field string, values []string) bool {
	switch field {
	case "studio":
		if len(values) == 0 {
			r.Studio = ""
		} else {
			r.Studio = values[0]
		}
		return true
	case "genre":
		r.Genres = values
		return true
	case "director":
		r.Directors = values
		return true
	}
	return false
}
