package httpserver

import (
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "net/http"

    "github.com/go-chi/chi/v5"
    chiMiddleware "github.com/go-chi/chi/v5/middleware"
    "github.com/go-chi/cors"

    "github.com/bryanwahyu/symptom-assist/internal/application/diagnosis"
    "github.com/bryanwahyu/symptom-assist/internal/domain/ai"
    "github.com/bryanwahyu/symptom-assist/internal/domain/analysis"
    "github.com/bryanwahyu/symptom-assist/internal/middleware"
)

// Options configures the router around the service
type Options struct {
    AllowedOrigins []string
    Checkers       map[string]middleware.HealthChecker
    Logger         *slog.Logger
}

type Router struct {
    svc    *diagnosis.Service
    logger *slog.Logger
}

func NewRouter(svc *diagnosis.Service, opts Options) http.Handler {
    logger := opts.Logger
    if logger == nil {
        logger = slog.Default()
    }
    origins := opts.AllowedOrigins
    if len(origins) == 0 {
        origins = []string{"*"}
    }

    r := &Router{svc: svc, logger: logger}
    mux := chi.NewRouter()

    mux.Use(chiMiddleware.StripSlashes)
    mux.Use(middleware.RequestID)
    mux.Use(middleware.Logging(logger))
    mux.Use(chiMiddleware.Recoverer)
    mux.Use(middleware.MetricsMiddleware)
    mux.Use(cors.Handler(cors.Options{
        AllowedOrigins: origins,
        AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
        AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
        ExposedHeaders: []string{middleware.RequestIDHeader},
        MaxAge:         300,
    }))

    mux.Get("/health", middleware.HealthHandler(opts.Checkers))
    mux.Get("/ready", middleware.ReadinessHandler)
    mux.Get("/live", middleware.LivenessHandler)
    mux.Get("/metrics", middleware.MetricsHandler)

    mux.Post("/diagnose", r.wrapJSON(r.handleDiagnose))
    mux.Post("/chat", r.wrapJSON(r.handleChat))
    mux.Get("/analyses", r.wrap(r.handleAnalyses))
    mux.Get("/models", r.wrap(r.handleModels))

    return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// errBadBody marks a request body that is not the expected JSON
var errBadBody = errors.New("invalid JSON body")

// wrap is the default error path: plain-text 500
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
    return func(w http.ResponseWriter, req *http.Request) {
        if err := h(w, req); err != nil {
            r.logger.ErrorContext(req.Context(), "request failed",
                "path", req.URL.Path, "error", err, "request_id", middleware.GetRequestID(req.Context()))
            http.Error(w, err.Error(), http.StatusInternalServerError)
        }
    }
}

// wrapJSON maps validation errors to 400 and everything else to a 500,
// both as {"error": message}
func (r *Router) wrapJSON(h handlerFunc) http.HandlerFunc {
    return func(w http.ResponseWriter, req *http.Request) {
        err := h(w, req)
        if err == nil {
            return
        }
        if errors.Is(err, analysis.ErrValidation) || errors.Is(err, errBadBody) {
            writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
            return
        }
        if ai.IsProviderError(err) {
            middleware.IncrementProviderFailures()
        }
        r.logger.ErrorContext(req.Context(), "request failed",
            "path", req.URL.Path,
            "error", err,
            "provider", ai.IsProviderError(err),
            "quota", errors.Is(err, ai.ErrQuotaExceeded),
            "request_id", middleware.GetRequestID(req.Context()),
        )
        writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
    }
}

type errorBody struct {
    Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    return json.NewEncoder(w).Encode(v)
}

func decodeBody(req *http.Request, v any) error {
    if err := json.NewDecoder(req.Body).Decode(v); err != nil {
        return fmt.Errorf("%w: %v", errBadBody, err)
    }
    return nil
}

type diagnoseResponse struct {
    ID         analysis.AnalysisID `json:"id"`
    ResultMD   string              `json:"result_md"`
    Confidence analysis.Confidence `json:"confidence"`
}

// POST /diagnose/
// Body: {"symptoms": "<text>"}
func (r *Router) handleDiagnose(w http.ResponseWriter, req *http.Request) error {
    var body struct {
        Symptoms string `json:"symptoms"`
    }
    if err := decodeBody(req, &body); err != nil {
        return err
    }

    a, err := r.svc.Diagnose(req.Context(), body.Symptoms)
    if err != nil {
        return err
    }
    middleware.IncrementDiagnoses()
    if len(a.Confidence.Items()) == 0 {
        middleware.IncrementConfidenceMisses()
    }

    return writeJSON(w, http.StatusOK, diagnoseResponse{
        ID:         a.ID,
        ResultMD:   a.ResultMD,
        Confidence: a.Confidence,
    })
}

// historyEntry is one chat turn as sent by the caller. Only an absent role
// means the patient; a null role decodes to "" and renders as the assistant.
type historyEntry struct {
    Role    string
    Content string
}

func (h *historyEntry) UnmarshalJSON(b []byte) error {
    var raw map[string]json.RawMessage
    if err := json.Unmarshal(b, &raw); err != nil {
        return err
    }
    h.Role = ai.RoleUser
    if v, ok := raw["role"]; ok {
        var role *string
        if err := json.Unmarshal(v, &role); err != nil {
            return fmt.Errorf("history role: %w", err)
        }
        h.Role = ""
        if role != nil {
            h.Role = *role
        }
    }
    if v, ok := raw["content"]; ok {
        var content *string
        if err := json.Unmarshal(v, &content); err != nil {
            return fmt.Errorf("history content: %w", err)
        }
        if content != nil {
            h.Content = *content
        }
    }
    return nil
}

func (h historyEntry) turn() ai.Turn {
    return ai.Turn{Role: h.Role, Content: h.Content}
}

// POST /chat/
// Body: {"message": "<text>", "history": [{"role": "user|assistant", "content": "<text>"}]}
func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) error {
    var body struct {
        Message string         `json:"message"`
        History []historyEntry `json:"history"`
    }
    if err := decodeBody(req, &body); err != nil {
        return err
    }

    history := make([]ai.Turn, 0, len(body.History))
    for _, h := range body.History {
        history = append(history, h.turn())
    }

    reply, err := r.svc.Chat(req.Context(), body.Message, history)
    if err != nil {
        return err
    }
    middleware.IncrementChats()

    return writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// GET /analyses/?limit=20
func (r *Router) handleAnalyses(w http.ResponseWriter, req *http.Request) error {
    limit := middleware.ValidateLimit(req.URL.Query().Get("limit"))

    list, err := r.svc.Recent(req.Context(), limit)
    if err != nil {
        return err
    }
    return writeJSON(w, http.StatusOK, list)
}

// GET /models/
func (r *Router) handleModels(w http.ResponseWriter, req *http.Request) error {
    models, err := r.svc.Models(req.Context())
    if err != nil {
        return err
    }
    if models == nil {
        models = []string{}
    }
    return writeJSON(w, http.StatusOK, map[string][]string{"available_models": models})
}
