package domain

// Song is one entry of the content catalog players draw and guess.
type Song struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Category string `json:"category"`
	Language string `json:"language"`
}

// SongHints is what guessers are shown when a round starts. Which fields are
// populated depends on the configured difficulty: easy reveals the artist,
// anything but hard reveals the category, hard reveals neither.
type SongHints struct {
	Artist   string `json:"artist,omitempty"`
	Category string `json:"category,omitempty"`
}

// HintsFor derives the guesser hints for the given difficulty.
func (s *Song) HintsFor(d Difficulty) SongHints {
	var h SongHints
	if d == DifficultyEasy {
		h.Artist = s.Artist
	}
	if d != DifficultyHard {
		h.Category = s.Category
	}
	return h
}
