package postgres

import (
	"database/sql"
	"fmt"
	"log"
)

const (
	createSongsTable = `
		CREATE TABLE IF NOT EXISTS songs (
			id SERIAL PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			artist VARCHAR(200) NOT NULL,
			category VARCHAR(50),
			language_code VARCHAR(10) NOT NULL DEFAULT 'en',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(title, artist)
		);`

	createMatchResultsTable = `
		CREATE TABLE IF NOT EXISTS match_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			room_code VARCHAR(10) NOT NULL,
			cancel_message TEXT,
			finished_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`

	createPlayerScoresTable = `
		CREATE TABLE IF NOT EXISTS player_scores (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			match_id UUID REFERENCES match_results(id) ON DELETE CASCADE NOT NULL,
			player_id UUID NOT NULL,
			username VARCHAR(50) NOT NULL,
			score INT NOT NULL DEFAULT 0
		);`

	createIndexes = `
		CREATE INDEX IF NOT EXISTS idx_songs_language_code ON songs(language_code);
		CREATE INDEX IF NOT EXISTS idx_match_results_room_code ON match_results(room_code);
		CREATE INDEX IF NOT EXISTS idx_player_scores_match_id ON player_scores(match_id);
		CREATE INDEX IF NOT EXISTS idx_player_scores_player_id ON player_scores(player_id);`

	insertSampleSongs = `
		INSERT INTO songs (title, artist, category, language_code) VALUES
		('Bohemian Rhapsody', 'Queen', 'Rock', 'en'),
		('Billie Jean', 'Michael Jackson', 'Pop', 'en'),
		('Hotel California', 'Eagles', 'Rock', 'en'),
		('Rolling in the Deep', 'Adele', 'Pop', 'en'),
		('Smells Like Teen Spirit', 'Nirvana', 'Rock', 'en'),
		('Hey Jude', 'The Beatles', 'Rock', 'en'),
		('Shape of You', 'Ed Sheeran', 'Pop', 'en'),
		('Lose Yourself', 'Eminem', 'Hip-Hop', 'en'),
		('Take Five', 'Dave Brubeck', 'Jazz', 'en'),
		('Thunderstruck', 'AC/DC', 'Rock', 'en'),
		('Gülpembe', 'Barış Manço', 'Rock', 'tr'),
		('Firuze', 'Sezen Aksu', 'Pop', 'tr')
		ON CONFLICT (title, artist) DO NOTHING;`
)

// initDB creates every table the service needs and seeds the song pool.
func initDB(db *sql.DB) error {
	tables := []struct {
		name  string
		query string
	}{
		{"songs", createSongsTable},
		{"match_results", createMatchResultsTable},
		{"player_scores", createPlayerScoresTable},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create '%s' table: %w", table.name, err)
		}
	}

	if _, err := db.Exec(insertSampleSongs); err != nil {
		return fmt.Errorf("failed to insert sample songs: %w", err)
	}

	if _, err := db.Exec(createIndexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database initialized successfully with all tables and indexes")
	return nil
}
