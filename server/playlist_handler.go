package server

import (
	"net/http"
	"strings"

	"MePlay/logger"
	"MePlay/model"
)

// PlaylistsHandler serves /api/playlists.
func (h *APIHandler) PlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := readAction(w, r)
	if !ok {
		return
	}

	logger.Debug("playlists api called",
		logger.Int64("user", userID),
		logger.String("action", req.Action),
		logger.String("method", r.Method))

	switch {
	case req.Action == "get_playlists" && r.Method == http.MethodGet:
		h.getPlaylists(w, r, userID)
	case req.Action == "get_playlist_songs" && r.Method == http.MethodGet:
		h.getPlaylistSongs(w, r, userID, req)
	case req.Action == "create_playlist" && r.Method == http.MethodPost:
		h.createPlaylist(w, r, userID, req)
	case req.Action == "delete_playlist" && r.Method == http.MethodPost:
		h.deletePlaylist(w, r, userID, req)
	case req.Action == "add_song_to_playlist" && r.Method == http.MethodPost:
		h.addSongToPlaylist(w, r, userID, req)
	case req.Action == "remove_song_from_playlist" && r.Method == http.MethodPost:
		h.removeSongFromPlaylist(w, r, userID, req)
	default:
		respondError(w, http.StatusBadRequest, "Invalid action: "+req.Action)
	}
}

// ownPlaylist 校验歌单属于当前用户, 否则写入 404
func (h *APIHandler) ownPlaylist(w http.ResponseWriter, r *http.Request, userID int64, playlistID string) bool {
	playlist, err := h.playlistRepo.GetByIDForUser(r.Context(), playlistID, userID)
	if err != nil {
		respondServerError(w, "get playlist", err)
		return false
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return false
	}
	return true
}

func (h *APIHandler) createPlaylist(w http.ResponseWriter, r *http.Request, userID int64, req model.ActionRequest) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}
	playlist := &model.Playlist{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.playlistRepo.Create(r.Context(), playlist); err != nil {
		respondServerError(w, "create playlist", err)
		return
	}
	logger.Info("playlist created",
		logger.Int64("user", userID),
		logger.String("playlist", playlist.ID),
		logger.String("name", name))
	respond(w, http.StatusOK, true, "Playlist created successfully", model.CreatedPlaylist{PlaylistID: playlist.ID})
}

func (h *APIHandler) getPlaylists(w http.ResponseWriter, r *http.Request, userID int64) {
	playlists, err := h.playlistRepo.ListByUser(r.Context(), userID)
	if err != nil {
		respondServerError(w, "get playlists", err)
		return
	}
	respondList(w, "", playlists)
}

func (h *APIHandler) deletePlaylist(w http.ResponseWriter, r *http.Request, userID int64, req model.ActionRequest) {
	if req.PlaylistID == "" {
		respondError(w, http.StatusBadRequest, "Playlist ID is required")
		return
	}
	if !h.ownPlaylist(w, r, userID, req.PlaylistID) {
		return
	}
	if err := h.playlistRepo.Delete(r.Context(), req.PlaylistID); err != nil {
		respondServerError(w, "delete playlist", err)
		return
	}
	logger.Info("playlist deleted", logger.Int64("user", userID), logger.String("playlist", req.PlaylistID))
	respond(w, http.StatusOK, true, "Playlist deleted successfully", nil)
}

func (h *APIHandler) addSongToPlaylist(w http.ResponseWriter, r *http.Request, userID int64, req model.ActionRequest) {
	if req.PlaylistID == "" || len(req.SongID) == 0 {
		respondError(w, http.StatusBadRequest, "Playlist ID and Song ID are required")
		return
	}
	if !h.ownPlaylist(w, r, userID, req.PlaylistID) {
		return
	}
	key, _, ok := songKey(req)
	if ok {
		exists, err := h.trackRepo.Exists(r.Context(), key)
		if err != nil {
			respondServerError(w, "add song to playlist", err)
			return
		}
		ok = exists
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}

	added, err := h.playlistRepo.AddSong(r.Context(), req.PlaylistID, key)
	if err != nil {
		respondServerError(w, "add song to playlist", err)
		return
	}
	if !added {
		respond(w, http.StatusOK, false, "Song already in playlist", nil)
		return
	}
	respond(w, http.StatusOK, true, "Song added to playlist", nil)
}

// removeSongFromPlaylist succeeds even when a well-formed song id was not a member.
func (h *APIHandler) removeSongFromPlaylist(w http.ResponseWriter, r *http.Request, userID int64, req model.ActionRequest) {
	if req.PlaylistID == "" || len(req.SongID) == 0 {
		respondError(w, http.StatusBadRequest, "Playlist ID and Song ID are required")
		return
	}
	if !h.ownPlaylist(w, r, userID, req.PlaylistID) {
		return
	}
	key, _, ok := songKey(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid song ID")
		return
	}
	if _, err := h.playlistRepo.RemoveSong(r.Context(), req.PlaylistID, key); err != nil {
		respondServerError(w, "remove song from playlist", err)
		return
	}
	respond(w, http.StatusOK, true, "Song removed from playlist", nil)
}

func (h *APIHandler) getPlaylistSongs(w http.ResponseWriter, r *http.Request, userID int64, req model.ActionRequest) {
	if req.PlaylistID == "" {
		respondError(w, http.StatusBadRequest, "Playlist ID is required")
		return
	}
	if !h.ownPlaylist(w, r, userID, req.PlaylistID) {
		return
	}
	tracks, err := h.trackRepo.ListPlaylistTracks(r.Context(), req.PlaylistID)
	if err != nil {
		respondServerError(w, "get playlist songs", err)
		return
	}
	respondList(w, "", h.resolveTracks(r.Context(), tracks))
}
