package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewHandler serves the server-rendered page. html/template escapes habit
// names, so user text is always shown literally.
type ViewHandler struct {
	habits *services.HabitService
	tmpl   *template.Template

	// set by EnableLogin
	auth   *services.AuthService
	tokens middleware.TokenValidator
}

type pageData struct {
	Stats        domain.Stats
	Cards        []domain.HabitCard
	Today        string
	CanEdit      bool
	LoginEnabled bool
}

func NewViewHandler(habits *services.HabitService) *ViewHandler {
	return &ViewHandler{
		habits: habits,
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// EnableLogin puts the form routes behind the owner password. The page stays
// readable without it.
func (h *ViewHandler) EnableLogin(auth *services.AuthService, tokens middleware.TokenValidator) {
	h.auth = auth
	h.tokens = tokens
}

func (h *ViewHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Index)

	if h.auth != nil {
		router.POST("/login", h.Login)
	}

	forms := router.Group("")
	if h.tokens != nil {
		forms.Use(middleware.CookieAuthMiddleware(h.tokens))
	}
	forms.POST("/habits", h.Create)
	forms.POST("/habits/:id/toggle", h.Toggle)
	forms.POST("/habits/:id/delete", h.Delete)
}

func (h *ViewHandler) Index(c *gin.Context) {
	today := h.habits.Today()
	habits := h.habits.List(c.Request.Context())

	cards := make([]domain.HabitCard, 0, len(habits))
	for _, habit := range habits {
		cards = append(cards, domain.NewHabitCard(habit, today))
	}

	c.Render(http.StatusOK, render.HTML{
		Template: h.tmpl,
		Name:     "index",
		Data: pageData{
			Stats:        services.Summarize(habits, today),
			Cards:        cards,
			Today:        today.String(),
			CanEdit:      h.canEdit(c),
			LoginEnabled: h.auth != nil,
		},
	})
}

func (h *ViewHandler) Login(c *gin.Context) {
	token, err := h.auth.Login(c.PostForm("password"))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		c.String(http.StatusUnauthorized, "Wrong password.")
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, 0, "/", "", false, true)
	h.redirectHome(c)
}

func (h *ViewHandler) Create(c *gin.Context) {
	if _, err := h.habits.Create(c.Request.Context(), c.PostForm("name")); err != nil {
		h.fail(c, err)
		return
	}
	h.redirectHome(c)
}

func (h *ViewHandler) Toggle(c *gin.Context) {
	if _, err := h.habits.ToggleToday(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.redirectHome(c)
}

func (h *ViewHandler) Delete(c *gin.Context) {
	if err := h.habits.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.redirectHome(c)
}

func (h *ViewHandler) canEdit(c *gin.Context) bool {
	if h.tokens == nil {
		return true
	}
	token, err := c.Cookie(middleware.SessionCookie)
	if err != nil {
		return false
	}
	_, err = h.tokens.ValidateToken(token)
	return err == nil
}

func (h *ViewHandler) redirectHome(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *ViewHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Your change could not be saved. Please try again.")
}
