package export

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"studysphere/internal/apperr"
	"studysphere/internal/auth"
)

type Handler struct {
	exporter *Exporter
	log      *zap.SugaredLogger
}

func NewHandler(exporter *Exporter, log *zap.SugaredLogger) *Handler {
	return &Handler{exporter: exporter, log: log}
}

// ExportProgress sends the user's study report as an .xlsx attachment. The
// workbook is buffered so failures still produce a clean error response.
func (h *Handler) ExportProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteReport(userID, &buf); err != nil {
		h.log.Errorw("progress export failed", "user_id", userID, "error", err)
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	filename := fmt.Sprintf("progress-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
