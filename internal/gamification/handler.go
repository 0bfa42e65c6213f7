package gamification

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"studysphere/internal/apperr"
	"studysphere/internal/auth"
	"studysphere/internal/models"
	"studysphere/pkg/cache"
)

const defaultLeaderboardSize = 20

type Handler struct {
	service *Service
	cache   *cache.RedisCache
	log     *zap.SugaredLogger
}

func NewHandler(service *Service, redisCache *cache.RedisCache, log *zap.SugaredLogger) *Handler {
	return &Handler{service: service, cache: redisCache, log: log}
}

// GetProgress returns the caller's progress overview, cache-aside with a
// short TTL.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var cached Overview
	if err := h.cache.GetProgress(userID, &cached); err == nil {
		json.NewEncoder(w).Encode(cached)
		return
	}

	overview, err := h.service.GetOverview(userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			http.Error(w, "Progress not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.cache.SetProgress(userID, overview); err != nil {
		h.log.Warnw("progress cache write failed", "user_id", userID, "error", err)
	}

	json.NewEncoder(w).Encode(overview)
}

// GetLeaderboard returns the global XP leaderboard from the redis sorted set.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultLeaderboardSize)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	scores, err := h.cache.TopLeaderboard(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ids := make([]uint, len(scores))
	for i, s := range scores {
		ids[i] = s.UserID
	}
	names, err := h.service.ResolveUsernames(ids)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	entries := make([]models.LeaderboardEntry, 0, len(scores))
	for _, s := range scores {
		entries = append(entries, models.LeaderboardEntry{
			UserID:   s.UserID,
			Username: names[s.UserID],
			XPPoints: s.XP,
			Level:    CalculateLevel(s.XP),
		})
	}

	json.NewEncoder(w).Encode(entries)
}

// GetBadgeCatalog returns the static badge catalog.
func (h *Handler) GetBadgeCatalog(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(Catalog)
}
