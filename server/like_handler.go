package server

import (
	"net/http"

	"MePlay/logger"
	"MePlay/model"
)

// LikesHandler serves /api/likes. GET takes the action from the query string,
// POST from the JSON body.
func (h *APIHandler) LikesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	req, ok := readAction(w, r)
	if !ok {
		return
	}

	logger.Debug("likes api called",
		logger.Int64("user", userID),
		logger.String("action", req.Action),
		logger.String("method", r.Method))

	switch {
	case req.Action == "get_liked_songs" && r.Method == http.MethodGet:
		h.getLikedSongs(w, r, userID)
	case req.Action == "is_song_liked" && r.Method == http.MethodGet:
		h.isSongLiked(w, r, userID, req)
	case req.Action == "like_song" && r.Method == http.MethodPost:
		h.likeSong(w, r, userID, req)
	case req.Action == "unlike_song" && r.Method == http.MethodPost:
		h.unlikeSong(w, r, userID, req)
	default:
		respondError(w, http.StatusBadRequest, "Invalid action: "+req.Action)
	}
}

func (h *APIHandler) likeSong(w http.ResponseWriter, r *http.Request, userID int64, req model.ActionRequest) {
	if len(req.SongID) == 0 {
		respondError(w, http.StatusBadRequest, "Song ID is required")
		return
	}
	key, id, ok := songKey(req)
	if ok {
		exists, err := h.trackRepo.Exists(r.Context(), key)
		if err != nil {
			respondServerError(w, "like song", err)
			return
		}
		ok = exists
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Song not found in database")
		return
	}

	inserted, err := h.likeRepo.Like(r.Context(), userID, key)
	if err != nil {
		respondServerError(w, "like song", err)
		return
	}
	if !inserted {
		respond(w, http.StatusOK, false, "Song already liked", nil)
		return
	}
	logger.Info("song liked", logger.Int64("user", userID), logger.String("song", id))
	respond(w, http.StatusOK, true, "Song liked successfully", model.LikeStatus{SongID: id, Liked: true})
}

func (h *APIHandler) unlikeSong(w http.ResponseWriter, r *http.Request, userID int64, req model.ActionRequest) {
	if len(req.SongID) == 0 {
		respondError(w, http.StatusBadRequest, "Song ID is required")
		return
	}
	key, id, ok := songKey(req)
	removed := false
	if ok {
		var err error
		removed, err = h.likeRepo.Unlike(r.Context(), userID, key)
		if err != nil {
			respondServerError(w, "unlike song", err)
			return
		}
	}
	if !removed {
		respond(w, http.StatusOK, false, "Song was not liked or already unliked", nil)
		return
	}
	logger.Info("song unliked", logger.Int64("user", userID), logger.String("song", id))
	respond(w, http.StatusOK, true, "Song unliked successfully", model.LikeStatus{SongID: id, Liked: false})
}

func (h *APIHandler) getLikedSongs(w http.ResponseWriter, r *http.Request, userID int64) {
	tracks, err := h.trackRepo.ListLikedTracks(r.Context(), userID)
	if err != nil {
		respondServerError(w, "get liked songs", err)
		return
	}
	respondList(w, "", h.resolveTracks(r.Context(), tracks))
}

func (h *APIHandler) isSongLiked(w http.ResponseWriter, r *http.Request, userID int64, req model.ActionRequest) {
	if len(req.SongID) == 0 {
		respondError(w, http.StatusBadRequest, "Song ID is required")
		return
	}
	key, id, ok := songKey(req)
	liked := false
	if ok {
		var err error
		liked, err = h.likeRepo.IsLiked(r.Context(), userID, key)
		if err != nil {
			respondServerError(w, "is song liked", err)
			return
		}
	}
	respond(w, http.StatusOK, true, "", model.LikeStatus{SongID: id, Liked: liked})
}
