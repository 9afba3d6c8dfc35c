// Handlers пакет для функционирования http-обработчиков
package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SversusN/reviewcheck/internal/analyzeclient"
	"github.com/SversusN/reviewcheck/internal/internalerrors"
	mw "github.com/SversusN/reviewcheck/internal/middleware"
	"github.com/SversusN/reviewcheck/internal/result"
	"github.com/SversusN/reviewcheck/internal/session"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
	"github.com/SversusN/reviewcheck/internal/submit"
	"github.com/SversusN/reviewcheck/internal/trust"
	"github.com/SversusN/reviewcheck/internal/visits"
)

// HistoryLimit сколько записей отдает /history
const HistoryLimit = 10

//go:embed templates/*.html
var templates embed.FS

// Handlers тип для внедрения зависимости
type Handlers struct {
	s        storage.Storage
	sessions *session.Manager
	submit   *submit.Controller
	result   *result.Controller
	log      *zap.Logger
	pages    *template.Template
	now      func() time.Time
}

// JSONErrorResponse JSON ответ с ошибкой
type JSONErrorResponse struct {
	Error string `json:"error"`
}

// JSONSubmitResponse ответ /api/submit
type JSONSubmitResponse struct {
	Redirect string `json:"redirect"`
}

// JSONAnalyzeResponse ответ /analyze
type JSONAnalyzeResponse struct {
	ID           string `json:"id"`
	Platform     string `json:"platform"`
	AnalyzedText string `json:"analyzed_text"`
}

// JSONResultResponse ответ /api/result
type JSONResultResponse struct {
	result.Analysis
	View result.View `json:"view"`
}

// JSONSessionResponse ответ /api/session
type JSONSessionResponse struct {
	SubmittedURL    string `json:"submitted_url"`
	SubmittedReview string `json:"submitted_review"`
	Loading         bool   `json:"loading"`
	Visits          int    `json:"visits"`
}

type page struct {
	Title      string
	URL        string
	ReviewText string
	Error      string
	Loading    bool
}

// NewHandlers инициализация объекта handlers
func NewHandlers(s storage.Storage, sm *session.Manager, sc *submit.Controller, rc *result.Controller, log *zap.Logger) *Handlers {
	pages := template.Must(template.ParseFS(templates, "templates/*.html"))
	return &Handlers{s: s, sessions: sm, submit: sc, result: rc, log: log, pages: pages, now: time.Now}
}

// stores хранилище сессии и долговременное хранилище клиента
func (h *Handlers) stores(r *http.Request) (storage.Store, storage.Store, bool) {
	clientID, ok := mw.ClientID(r.Context())
	if !ok {
		return nil, nil, false
	}
	sessionID, ok := mw.SessionID(r.Context())
	if !ok {
		return nil, nil, false
	}
	return h.sessions.Store(sessionID), storage.Scoped(h.s, clientID), true
}

// HandlerIndex стартовая страница
func (h *Handlers) HandlerIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index.html", page{Title: "Welcome"})
}

// HandlerDetectPage форма отправки
func (h *Handlers) HandlerDetectPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "detect.html", page{Title: "Detect Fake Reviews"})
}

// HandlerDetectForm отправка формы без JavaScript: 303 на /result или форма с ошибкой
func (h *Handlers) HandlerDetectForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form", http.StatusBadRequest)
		return
	}
	sess, _, ok := h.stores(r)
	if !ok {
		http.Error(w, "No session", http.StatusUnauthorized)
		return
	}
	url, review := r.PostFormValue("url"), r.PostFormValue("review_text")
	ind := session.NewIndicator(r.Context(), sess, h.log)
	path, err := h.submit.Submit(r.Context(), sess, ind, url, review)
	if err != nil {
		h.render(w, statusFor(err), "detect.html", page{
			Title:      "Detect Fake Reviews",
			URL:        url,
			ReviewText: review,
			Error:      internalerrors.UserMessage(err),
		})
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// HandlerSubmitJSON отправка формы в JSON формате
func (h *Handlers) HandlerSubmitJSON(w http.ResponseWriter, r *http.Request) {
	var req analyzeclient.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, JSONErrorResponse{Error: "Bad JSON request"})
		return
	}
	sess, _, ok := h.stores(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, JSONErrorResponse{Error: "No session"})
		return
	}
	ind := session.NewIndicator(r.Context(), sess, h.log)
	path, err := h.submit.Submit(r.Context(), sess, ind, req.URL, req.ReviewText)
	if err != nil {
		writeJSON(w, statusFor(err), JSONErrorResponse{Error: internalerrors.UserMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, JSONSubmitResponse{Redirect: path})
}

// HandlerAnalyze эндпоинт анализа: сохраняет запись в историю
func (h *Handlers) HandlerAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeclient.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, JSONErrorResponse{Error: "Bad JSON request"})
		return
	}
	text := req.ReviewText
	if text == "" {
		text = req.URL
	}
	if strings.TrimSpace(text) == "" {
		writeJSON(w, http.StatusBadRequest, JSONErrorResponse{Error: "No text to analyze"})
		return
	}
	a := storage.Analysis{
		ID:           uuid.NewString(),
		URL:          req.URL,
		ReviewText:   req.ReviewText,
		AnalyzedText: text,
		Platform:     trust.Platform(req.URL),
		AnalyzedAt:   h.now(),
	}
	if err := h.s.SaveAnalysis(r.Context(), a); err != nil {
		h.log.Error("failed to save analysis", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, JSONErrorResponse{Error: "Can`t save analysis"})
		return
	}
	writeJSON(w, http.StatusOK, JSONAnalyzeResponse{ID: a.ID, Platform: a.Platform, AnalyzedText: a.AnalyzedText})
}

// HandlerHistory последние анализы, новые первыми
func (h *Handlers) HandlerHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.s.GetHistory(r.Context(), HistoryLimit)
	if err != nil {
		h.log.Error("failed to get history", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, JSONErrorResponse{Error: "Can`t get from storage"})
		return
	}
	if history == nil {
		history = []storage.Analysis{}
	}
	writeJSON(w, http.StatusOK, history)
}

// HandlerResultPage страница результата, данные приходят потоком /api/result/stream
func (h *Handlers) HandlerResultPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "result.html", page{Title: "Analysis Results"})
}

// HandlerResultJSON вердикт одной загрузкой без анимации
func (h *Handlers) HandlerResultJSON(w http.ResponseWriter, r *http.Request) {
	sess, durable, ok := h.stores(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, JSONErrorResponse{Error: "No session"})
		return
	}
	a, err := h.result.Evaluate(r.Context(), sess, durable)
	switch {
	case errors.Is(err, internalerrors.ErrMissingURL):
		writeJSON(w, http.StatusBadRequest, JSONResultResponse{View: result.ErrorView(err)})
		return
	case err != nil:
		h.log.Error("failed to evaluate result", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, JSONErrorResponse{Error: "Can`t evaluate result"})
		return
	}
	writeJSON(w, http.StatusOK, JSONResultResponse{Analysis: a, View: a.Final()})
}

// HandlerResultStream вердикт и анимация точности как server-sent events.
// Каждое событие несет id прогона; переподключение EventSource с этим id
// получает итоговый кадр без повторного подсчета посещения
func (h *Handlers) HandlerResultStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	sess, durable, ok := h.stores(r)
	if !ok {
		http.Error(w, "No session", http.StatusUnauthorized)
		return
	}
	if lastID := r.Header.Get("Last-Event-ID"); lastID != "" {
		if run, found := h.lastRun(r, sess); found && run.ID == lastID {
			startStream(w)
			_ = writeEvent(w, flusher, run.ID, "view", run.Analysis.Final())
			_ = writeEvent(w, flusher, run.ID, "done", struct{}{})
			return
		}
	}

	a, err := h.result.Evaluate(r.Context(), sess, durable)
	if err != nil && !errors.Is(err, internalerrors.ErrMissingURL) {
		h.log.Error("failed to evaluate result", zap.Error(err))
		http.Error(w, "Can`t evaluate result", http.StatusInternalServerError)
		return
	}
	var runID string
	if err == nil {
		runID = uuid.NewString()
		if serr := h.saveRun(r, sess, streamRun{ID: runID, Analysis: a}); serr != nil {
			h.log.Warn("failed to save stream run", zap.Error(serr))
			runID = ""
		}
	}

	startStream(w)
	display := result.DisplayFunc(func(v result.View) error {
		return writeEvent(w, flusher, runID, "view", v)
	})
	if err != nil {
		_ = display.Render(result.ErrorView(err))
	} else if perr := h.result.Play(r.Context(), a, display); perr != nil {
		// клиент ушел или перезагрузил страницу
		h.log.Debug("result stream aborted", zap.Error(perr))
		return
	}
	_ = writeEvent(w, flusher, runID, "done", struct{}{})
}

// streamRun последний прогон потока результата в сессии
type streamRun struct {
	ID       string          `json:"id"`
	Analysis result.Analysis `json:"analysis"`
}

func (h *Handlers) lastRun(r *http.Request, sess storage.Store) (streamRun, bool) {
	var run streamRun
	raw, err := sess.Get(r.Context(), session.KeyStreamRun)
	if err != nil {
		return run, false
	}
	if err = json.Unmarshal([]byte(raw), &run); err != nil {
		h.log.Warn("bad stream run in session", zap.Error(err))
		return run, false
	}
	return run, true
}

func (h *Handlers) saveRun(r *http.Request, sess storage.Store, run streamRun) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return sess.Set(r.Context(), session.KeyStreamRun, string(b))
}

// HandlerSession значения сессии и состояние индикатора загрузки
func (h *Handlers) HandlerSession(w http.ResponseWriter, r *http.Request) {
	sess, durable, ok := h.stores(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, JSONErrorResponse{Error: "No session"})
		return
	}
	var resp JSONSessionResponse
	var err error
	if resp.SubmittedURL, err = optional(sess.Get(r.Context(), session.KeyURL)); err != nil {
		writeJSON(w, http.StatusInternalServerError, JSONErrorResponse{Error: err.Error()})
		return
	}
	if resp.SubmittedReview, err = optional(sess.Get(r.Context(), session.KeyReview)); err != nil {
		writeJSON(w, http.StatusInternalServerError, JSONErrorResponse{Error: err.Error()})
		return
	}
	if resp.Loading, err = session.Loading(r.Context(), sess); err != nil {
		writeJSON(w, http.StatusInternalServerError, JSONErrorResponse{Error: err.Error()})
		return
	}
	if resp.SubmittedURL != "" {
		if resp.Visits, err = visits.NewCounter(durable).Count(r.Context(), resp.SubmittedURL); err != nil {
			writeJSON(w, http.StatusInternalServerError, JSONErrorResponse{Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlerDBPing проверяет возможность использования БД
func (h *Handlers) HandlerDBPing(res http.ResponseWriter, req *http.Request) {
	pinger, ok := h.s.(storage.Pinger)
	if !ok {
		http.Error(res, "No DB to ping , sorry...", http.StatusBadRequest)
		return
	}
	res.Header().Set("Content-Type", "text/plain")
	if err := pinger.Ping(req.Context()); err == nil {
		res.WriteHeader(http.StatusOK)
		res.Write([]byte("OK ping"))
	} else {
		res.WriteHeader(http.StatusInternalServerError)
		res.Write([]byte("BAD ping"))
	}
}

func (h *Handlers) render(w http.ResponseWriter, status int, name string, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages.ExecuteTemplate(w, name, p); err != nil {
		h.log.Error("failed to render page", zap.String("page", name), zap.Error(err))
	}
}

// statusFor код ответа для ошибки отправки
func statusFor(err error) int {
	var (
		te *internalerrors.TransportError
		se *internalerrors.ServerError
	)
	switch {
	case errors.Is(err, internalerrors.ErrEmptySubmission):
		return http.StatusBadRequest
	case errors.As(err, &te), errors.As(err, &se):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func optional(v string, err error) (string, error) {
	if errors.Is(err, internalerrors.ErrNotFound) {
		return "", nil
	}
	return v, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// интервал переподключения EventSource, мс
const streamRetry = 3000

func startStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", streamRetry)
}

func writeEvent(w http.ResponseWriter, f http.Flusher, id, event string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var sb strings.Builder
	if id != "" {
		sb.WriteString("id: " + id + "\n")
	}
	sb.WriteString("event: " + event + "\ndata: " + string(b) + "\n\n")
	if _, err = w.Write([]byte(sb.String())); err != nil {
		return err
	}
	f.Flush()
	return nil
}
