package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"MePlay/model"
)

// TrackRepository reads and writes the songs catalog.
type TrackRepository interface {
	ListTracks(ctx context.Context) ([]model.Track, error)
	GetTrackByID(ctx context.Context, id int64) (*model.Track, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CreateTrack(ctx context.Context, track *model.Track) (int64, error)
	// ListLikedTracks returns the user's liked tracks, most recently liked first.
	ListLikedTracks(ctx context.Context, userID int64) ([]model.Track, error)
	// ListPlaylistTracks returns a playlist's tracks, most recently added first.
	ListPlaylistTracks(ctx context.Context, playlistID string) ([]model.Track, error)
}

// mysqlTrackRepository implements TrackRepository with plain SQL.
// AudioURI and CoverURI carry the stored paths; the server turns them into
// playable URIs.
type mysqlTrackRepository struct {
	DB *sql.DB
}

// NewMySQLTrackRepository creates a new instance of mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{DB: db}
}

const songColumns = `s.id, s.title, s.artist, s.album, s.genre, s.duration, s.file_path, s.cover_path`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (model.Track, error) {
	var (
		id                                int64
		album, genre, duration, coverPath sql.NullString
		track                             model.Track
	)
	err := row.Scan(&id, &track.Title, &track.Artist, &album, &genre, &duration, &track.AudioURI, &coverPath)
	if err != nil {
		return model.Track{}, err
	}
	track.ID = model.FormatID(id)
	track.Album = album.String
	track.Genre = genre.String
	track.Duration = strings.TrimSpace(duration.String)
	if track.Duration == "" {
		track.Duration = model.DefaultDuration
	}
	track.CoverURI = coverPath.String
	return track, nil
}

func (r *mysqlTrackRepository) queryTracks(ctx context.Context, op, query string, args ...any) ([]model.Track, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks in %s: %w", op, err)
	}
	defer rows.Close()

	tracks := make([]model.Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in %s: %w", op, err)
		}
		tracks = append(tracks, track)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in %s: %w", op, err)
	}
	return tracks, nil
}

// ListTracks retrieves the whole catalog, newest first.
func (r *mysqlTrackRepository) ListTracks(ctx context.Context) ([]model.Track, error) {
	query := `SELECT ` + songColumns + ` FROM songs s ORDER BY s.created_at DESC, s.id DESC`
	return r.queryTracks(ctx, "ListTracks", query)
}

// GetTrackByID retrieves a track by its ID. It returns nil, nil when absent.
func (r *mysqlTrackRepository) GetTrackByID(ctx context.Context, id int64) (*model.Track, error) {
	query := `SELECT ` + songColumns + ` FROM songs s WHERE s.id = ?`
	track, err := scanTrack(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track by ID %d: %w", id, err)
	}
	return &track, nil
}

// Exists reports whether a song with id is in the catalog.
func (r *mysqlTrackRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs WHERE id = ?`, id).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check song %d: %w", id, err)
	}
	return count > 0, nil
}

// CreateTrack adds a new song and returns its id.
func (r *mysqlTrackRepository) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	query := `INSERT INTO songs (title, artist, album, genre, duration, file_path, cover_path, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	duration := strings.TrimSpace(track.Duration)
	if duration == "" {
		duration = model.DefaultDuration
	}
	res, err := r.DB.ExecContext(ctx, query,
		strings.TrimSpace(track.Title), strings.TrimSpace(track.Artist),
		strings.TrimSpace(track.Album), strings.TrimSpace(track.Genre),
		duration, strings.TrimSpace(track.AudioURI), strings.TrimSpace(track.CoverURI), time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateTrack: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateTrack: %w", err)
	}
	track.ID = model.FormatID(id)
	track.Duration = duration
	return id, nil
}

func (r *mysqlTrackRepository) ListLikedTracks(ctx context.Context, userID int64) ([]model.Track, error) {
	query := `SELECT ` + songColumns + `
		FROM songs s
		INNER JOIN liked_songs ls ON s.id = ls.song_id
		WHERE ls.user_id = ?
		ORDER BY ls.liked_at DESC, ls.id DESC`
	return r.queryTracks(ctx, "ListLikedTracks", query, userID)
}

func (r *mysqlTrackRepository) ListPlaylistTracks(ctx context.Context, playlistID string) ([]model.Track, error) {
	query := `SELECT ` + songColumns + `
		FROM songs s
		INNER JOIN playlist_songs ps ON s.id = ps.song_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.added_at DESC, ps.id DESC`
	return r.queryTracks(ctx, "ListPlaylistTracks", query, playlistID)
}
