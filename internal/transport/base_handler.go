package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/talentgrid/hiring-management/internal"
	"github.com/talentgrid/hiring-management/pkg/logger"
)

// Envelope is the uniform response body: success flag, optional message,
// optional payload.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *internal.AppError `json:"error,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteData writes a success envelope with payload.
func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, data interface{}) {
	h.writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope with a message and optional payload.
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	h.writeEnvelope(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteError writes a failure envelope with the given status and message.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.writeEnvelope(w, status, Envelope{Success: false, Message: message})
}

// HandleServiceError maps service errors onto the HTTP taxonomy. AppErrors
// carry their own status; anything else is a redacted 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			h.Logger.Error("internal error", "error", err)
			h.writeEnvelope(w, appErr.StatusCode, Envelope{Success: false, Message: "Internal server error"})
			return
		}
		h.writeEnvelope(w, appErr.StatusCode, Envelope{Success: false, Message: appErr.Message, Error: appErr})
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.writeEnvelope(w, http.StatusInternalServerError, Envelope{Success: false, Message: "Internal server error"})
}

func (h *BaseHandler) writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
