package tmdb

// SearchResult is one page of multi-search results
type SearchResult struct {
	Page    int          `json:"page"`
	Results []SearchItem `json:"results"`
}

// SearchItem is one search hit; movies use Title/ReleaseDate, TV shows
// use Name/FirstAirDate
type SearchItem struct {
	ID            int     `json:"id"`
	MediaType     string  `json:"media_type"`
	Title         string  `json:"title"`
	Name          string  `json:"name"`
	OriginalTitle string  `json:"original_title"`
	OriginalName  string  `json:"original_name"`
	ReleaseDate   string  `json:"release_date"`
	FirstAirDate  string  `json:"first_air_date"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
}

// DisplayTitle returns the item's title regardless of media type
func (i SearchItem) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// Year returns the four-digit release year, empty when unknown
func (i SearchItem) Year() string {
	date := i.ReleaseDate
	if date == "" {
		date = i.FirstAirDate
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// Genre is a TMDB genre entry
type Genre struct {
	Name string `json:"name"`
}

// Company is a TMDB production company
type Company struct {
	Name string `json:"name"`
}

// CastMember is one cast credit
type CastMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is one crew credit
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits holds cast and crew for a movie or show
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Movie is a TMDB movie details response
type Movie struct {
	ID                  int       `json:"id"`
	Title               string    `json:"title"`
	OriginalTitle       string    `json:"original_title"`
	ReleaseDate         string    `json:"release_date"`
	Overview            string    `json:"overview"`
	Runtime             int       `json:"runtime"`
	VoteAverage         float64   `json:"vote_average"`
	PosterPath          string    `json:"poster_path"`
	BackdropPath        string    `json:"backdrop_path"`
	Genres              []Genre   `json:"genres"`
	ProductionCompanies []Company `json:"production_companies"`
	Credits             Credits   `json:"credits"`
}

// TV is a TMDB TV show details response
type TV struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	OriginalName   string    `json:"original_name"`
	FirstAirDate   string    `json:"first_air_date"`
	Overview       string    `json:"overview"`
	EpisodeRunTime []int     `json:"episode_run_time"`
	VoteAverage    float64   `json:"vote_average"`
	PosterPath     string    `json:"poster_path"`
	BackdropPath   string    `json:"backdrop_path"`
	Genres         []Genre   `json:"genres"`
	Networks       []Company `json:"networks"`
	Credits        Credits   `json:"credits"`
}
