package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"MePlay/config"
	"MePlay/logger"
	"MePlay/model"
	"MePlay/repository"
	"MePlay/storage"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	trackRepo    repository.TrackRepository
	likeRepo     repository.LikeRepository
	playlistRepo repository.PlaylistRepository
	objects      *storage.ObjectStore
	defaultCover string
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	trackRepo repository.TrackRepository,
	likeRepo repository.LikeRepository,
	playlistRepo repository.PlaylistRepository,
	objects *storage.ObjectStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		trackRepo:    trackRepo,
		likeRepo:     likeRepo,
		playlistRepo: playlistRepo,
		objects:      objects,
		defaultCover: cfg.DefaultCover,
	}
}

// readAction reads the action request from the query string on GET and from
// the JSON body otherwise. ok is false when a response was already written.
func readAction(w http.ResponseWriter, r *http.Request) (model.ActionRequest, bool) {
	var req model.ActionRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.Action = q.Get("action")
		req.PlaylistID = q.Get("playlist_id")
		if id := q.Get("song_id"); id != "" {
			req.SongID, _ = json.Marshal(id)
		}
	} else if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "Invalid JSON data")
			return req, false
		}
	}

	req.Action = strings.TrimSpace(req.Action)
	req.PlaylistID = strings.TrimSpace(req.PlaylistID)
	if req.Action == "" {
		respondError(w, http.StatusBadRequest, "Action is required")
		return req, false
	}
	return req, true
}

// songKey turns the request's song id into a songs table key. ok is false
// when the id is missing or malformed.
func songKey(req model.ActionRequest) (int64, string, bool) {
	if len(req.SongID) == 0 {
		return 0, "", false
	}
	id, err := model.ParseID(req.SongID)
	if err != nil {
		return 0, "", false
	}
	key, err := model.SongKey(id)
	if err != nil {
		return 0, id, false
	}
	return key, id, true
}

func (h *APIHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "User not authenticated. Please login.")
		return 0, false
	}
	return userID, true
}

// resolveTracks turns stored paths into URIs a client can play.
func (h *APIHandler) resolveTracks(ctx context.Context, tracks []model.Track) []model.Track {
	for i := range tracks {
		t := &tracks[i]
		if uri, err := h.objects.URL(ctx, t.AudioURI); err == nil {
			t.AudioURI = uri
		} else {
			logger.Warn("audio uri not resolved", logger.String("track", t.ID), logger.ErrorField(err))
		}
		t.CoverURI = t.CoverOrDefault(h.defaultCover)
		if t.CoverURI == h.defaultCover {
			continue
		}
		if uri, err := h.objects.URL(ctx, t.CoverURI); err == nil {
			t.CoverURI = uri
		} else {
			logger.Warn("cover uri not resolved", logger.String("track", t.ID), logger.ErrorField(err))
		}
	}
	return tracks
}

// GetSongsHandler lists the catalog, newest first.
func (h *APIHandler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	if action := r.URL.Query().Get("action"); action != "" && action != "get_songs" {
		respondError(w, http.StatusBadRequest, "Invalid action")
		return
	}
	tracks, err := h.trackRepo.ListTracks(r.Context())
	if err != nil {
		respondServerError(w, "list songs", err)
		return
	}
	respondList(w, "Songs retrieved successfully", h.resolveTracks(r.Context(), tracks))
}

// addSongRequest is the body of an add_song request.
type addSongRequest struct {
	Action    string `json:"action"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Album     string `json:"album"`
	Genre     string `json:"genre"`
	Duration  string `json:"duration"`
	FilePath  string `json:"file_path"`
	CoverPath string `json:"cover_path"`
}

// AddSongHandler adds a song to the catalog.
func (h *APIHandler) AddSongHandler(w http.ResponseWriter, r *http.Request) {
	var req addSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON data")
		return
	}
	if req.Action != "add_song" {
		respondError(w, http.StatusBadRequest, "Invalid action")
		return
	}
	for _, f := range []struct{ name, value string }{
		{"title", req.Title}, {"artist", req.Artist}, {"file_path", req.FilePath},
	} {
		if strings.TrimSpace(f.value) == "" {
			respondError(w, http.StatusBadRequest, "Missing required field: "+f.name)
			return
		}
	}

	track := &model.Track{
		Title:    req.Title,
		Artist:   req.Artist,
		Album:    req.Album,
		Genre:    req.Genre,
		Duration: req.Duration,
		AudioURI: req.FilePath,
		CoverURI: req.CoverPath,
	}
	if _, err := h.trackRepo.CreateTrack(r.Context(), track); err != nil {
		respondServerError(w, "add song", err)
		return
	}
	logger.Info("song added", logger.String("song", track.ID), logger.String("title", track.Title))
	respond(w, http.StatusOK, true, "Song added successfully", map[string]string{"id": track.ID})
}
