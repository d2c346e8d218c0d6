package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/randomtoy/arcana-web/internal/app"
	"github.com/randomtoy/arcana-web/internal/domain"
	"github.com/randomtoy/arcana-web/internal/ports"
)

const sessionCookie = "arcana_session"

type Handler struct {
	svc     *app.ReadingService
	catalog ports.CardCatalog
	limits  *RateLimiter
	about   template.HTML
}

func NewHandler(svc *app.ReadingService, catalog ports.CardCatalog, limits *RateLimiter) (*Handler, error) {
	about, err := renderAboutHTML()
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, catalog: catalog, limits: limits, about: about}, nil
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/", h.ShowForm)
	e.POST("/reading", h.HandleForm)
	e.POST("/v1/readings", h.CreateReading, RateLimitMiddleware(h.limits))
	e.GET("/about", h.About)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// formPage is the template payload for the form view.
type formPage struct {
	State  domain.FormState
	Counts []int
	Known  []string
}

type aboutPage struct {
	Content template.HTML
}

func (h *Handler) ShowForm(c echo.Context) error {
	h.session(c)
	return h.renderForm(c, http.StatusOK, domain.NewFormState())
}

func (h *Handler) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about.html", aboutPage{Content: h.about})
}

// HandleForm serves the no-script form flow. The posted fields are folded
// through the reducer, then the action button decides what happens: "resize"
// re-renders with the new card count, "draw" fills the slots from the deck,
// anything else submits for a reading.
func (h *Handler) HandleForm(c echo.Context) error {
	state, err := formStateFromPost(c)
	if err != nil {
		fresh := domain.NewFormState()
		fresh, _ = domain.Apply(fresh, domain.SubmitFailed{Message: "The form could not be read. Card count must be between 1 and 10."})
		return h.renderForm(c, http.StatusBadRequest, fresh)
	}

	switch c.FormValue("action") {
	case "resize":
		return h.renderForm(c, http.StatusOK, state)

	case "draw":
		drawn, err := h.svc.Draw(c.Request().Context(), state)
		if err != nil {
			state, _ = domain.Apply(state, domain.SubmitFailed{Message: drawMessage(err)})
			return h.renderForm(c, statusFor(c, err), state)
		}
		return h.renderForm(c, http.StatusOK, drawn)

	default:
		if ok, retryAfter := h.limits.Allow(c.RealIP()); !ok {
			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			state, _ = domain.Apply(state, domain.SubmitFailed{Message: "The cards need a moment to rest. Please wait before asking again."})
			return h.renderForm(c, http.StatusTooManyRequests, state)
		}
		result, _, err := h.svc.Read(c.Request().Context(), h.session(c), state)
		return h.renderForm(c, statusFor(c, err), result)
	}
}

// CreateReading is the JSON flow: one request carries the question plus
// either explicit card names or a draw instruction, and the response carries
// the reading.
func (h *Handler) CreateReading(c echo.Context) error {
	var req ReadingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	state := domain.NewFormState()
	state, _ = domain.Apply(state, domain.SetQuestion{Text: req.Question})

	var err error
	switch {
	case req.Draw:
		count := req.Count
		if count == 0 {
			count = domain.DefaultCardCount
		}
		if state, err = domain.Apply(state, domain.SetCardCount{Count: count}); err != nil {
			return mapError(c, err)
		}
		if state, err = h.svc.Draw(c.Request().Context(), state); err != nil {
			return mapError(c, err)
		}

	case len(req.Cards) > 0:
		if state, err = domain.Apply(state, domain.SetCardCount{Count: len(req.Cards)}); err != nil {
			return mapError(c, err)
		}
		if state, err = domain.Apply(state, domain.SetCardNames{Names: req.Cards}); err != nil {
			return mapError(c, err)
		}
	}

	result, meta, err := h.svc.Read(c.Request().Context(), h.flightKey(c), state)
	if err != nil {
		return mapError(c, err)
	}

	requestID, _ := c.Get("request_id").(string)
	return c.JSON(http.StatusOK, ReadingResponse{
		Reading: result.Reading,
		Cards:   result.NonEmptyCards(),
		Meta: MetaResp{
			Model:     meta.Model,
			RequestID: requestID,
			LatencyMS: meta.LatencyMS,
		},
	})
}

func (h *Handler) renderForm(c echo.Context, status int, state domain.FormState) error {
	known, err := h.catalog.Cards(c.Request().Context())
	if err != nil {
		// the page still works without the datalist
		slog.Error("card catalog unavailable", "error", err)
	}
	names := make([]string, len(known))
	for i, card := range known {
		names[i] = card.Name
	}
	counts := make([]int, 0, domain.MaxCardCount)
	for i := domain.MinCardCount; i <= domain.MaxCardCount; i++ {
		counts = append(counts, i)
	}
	return c.Render(status, "form.html", formPage{State: state, Counts: counts, Known: names})
}

// session returns the browser session id, minting a cookie when absent. The
// id keys single-flight tracking so a newer submit cancels an older one.
func (h *Handler) session(c echo.Context) string {
	if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// flightKey for the JSON API: an explicit header wins, then the browser
// cookie; empty disables single-flight tracking for the request.
func (h *Handler) flightKey(c echo.Context) string {
	if id := c.Request().Header.Get("X-Session-Id"); id != "" {
		return id
	}
	if ck, err := c.Cookie(sessionCookie); err == nil {
		return ck.Value
	}
	return ""
}

// formStateFromPost folds the posted fields through the reducer: question,
// then count, then each card input in document order. Card values past the
// new count are dropped, matching shrink semantics.
func formStateFromPost(c echo.Context) (domain.FormState, error) {
	state := domain.NewFormState()
	state, _ = domain.Apply(state, domain.SetQuestion{Text: c.FormValue("question")})

	count, err := strconv.Atoi(c.FormValue("count"))
	if err != nil {
		return domain.FormState{}, domain.ErrInvalidCardCount
	}
	state, err = domain.Apply(state, domain.SetCardCount{Count: count})
	if err != nil {
		return domain.FormState{}, err
	}

	for i, name := range c.Request().PostForm["card"] {
		if i >= state.CardCount {
			break
		}
		state, err = domain.Apply(state, domain.SetCardName{Index: i, Name: name})
		if err != nil {
			return domain.FormState{}, err
		}
	}
	return state, nil
}

func drawMessage(err error) string {
	if errors.Is(err, domain.ErrDrawExceedsDeck) {
		return "Not enough cards in the deck for that draw."
	}
	return "The draw could not be completed."
}

// statusFor maps service errors onto HTTP statuses and logs the server-side
// ones with the request id.
func statusFor(c echo.Context, err error) int {
	if err == nil {
		return http.StatusOK
	}
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrEmptyQuestion),
		errors.Is(err, domain.ErrNoCards),
		errors.Is(err, domain.ErrInvalidCardCount),
		errors.Is(err, domain.ErrCardIndex),
		errors.Is(err, domain.ErrDrawExceedsDeck):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstreamLLM):
		slog.Error("upstream LLM failure", "request_id", requestID, "error", err)
		return http.StatusBadGateway
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return http.StatusInternalServerError
	}
}

func mapError(c echo.Context, err error) error {
	switch status := statusFor(c, err); status {
	case http.StatusBadRequest:
		return c.JSON(status, ErrorResponse{Error: err.Error()})
	case http.StatusServiceUnavailable:
		return c.JSON(status, ErrorResponse{Error: "generation is not configured"})
	case http.StatusConflict:
		return c.JSON(status, ErrorResponse{Error: "superseded by a newer request"})
	case http.StatusBadGateway:
		return c.JSON(status, ErrorResponse{Error: "generation failed"})
	default:
		return c.JSON(status, ErrorResponse{Error: "internal error"})
	}
}
