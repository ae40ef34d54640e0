package handlers

import (
	"net/http"

	"github.com/robertozapata/portfolio/internal/api/dto/common"
	prefdto "github.com/robertozapata/portfolio/internal/api/dto/v1/preference"
	"github.com/robertozapata/portfolio/internal/api/validation"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/preference"
	"github.com/robertozapata/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// PreferenceHandler exposes the language and theme contexts mounted by the
// Preferences middleware
type PreferenceHandler struct {
	catalog *i18n.Catalog
	logger  *logging.Logger
}

func NewPreferenceHandler(catalog *i18n.Catalog, logger *logging.Logger) *PreferenceHandler {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &PreferenceHandler{catalog: catalog, logger: logger}
}

// Get handles GET /api/preferences
func (h *PreferenceHandler) Get(c *gin.Context) {
	h.respond(c)
}

// SetLanguage handles PUT /api/preferences/language
func (h *PreferenceHandler) SetLanguage(c *gin.Context) {
	lc := preference.MustLanguage(c.Request.Context())

	var req prefdto.SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, lc.Language(), err, validation.TagLanguage, "preferences.unsupportedLanguage")
		return
	}
	lang, err := i18n.ParseLanguage(req.Language)
	if err != nil {
		utils.HandleError(c, http.StatusBadRequest, common.ErrTitleBadRequest, h.catalog.T(lc.Language(), "preferences.unsupportedLanguage"), nil)
		return
	}
	if err := lc.SetLanguage(lang); err != nil {
		utils.HandleAPIError(c, h.logger, err, http.StatusInternalServerError, common.ErrTitleInternalServer, h.catalog.T(lc.Language(), "preferences.saveFailed"))
		return
	}
	h.respond(c)
}

// ToggleLanguage handles POST /api/preferences/language/toggle
func (h *PreferenceHandler) ToggleLanguage(c *gin.Context) {
	lc := preference.MustLanguage(c.Request.Context())
	if _, err := lc.ToggleLanguage(); err != nil {
		utils.HandleAPIError(c, h.logger, err, http.StatusInternalServerError, common.ErrTitleInternalServer, h.catalog.T(lc.Language(), "preferences.saveFailed"))
		return
	}
	h.respond(c)
}

// SetTheme handles PUT /api/preferences/theme
func (h *PreferenceHandler) SetTheme(c *gin.Context) {
	lang := preference.MustLanguage(c.Request.Context()).Language()
	tc := preference.MustTheme(c.Request.Context())

	var req prefdto.SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, lang, err, validation.TagTheme, "preferences.unsupportedTheme")
		return
	}
	theme, err := preference.ParseTheme(req.Theme)
	if err != nil {
		utils.HandleError(c, http.StatusBadRequest, common.ErrTitleBadRequest, h.catalog.T(lang, "preferences.unsupportedTheme"), nil)
		return
	}
	if err := tc.SetTheme(theme); err != nil {
		utils.HandleAPIError(c, h.logger, err, http.StatusInternalServerError, common.ErrTitleInternalServer, h.catalog.T(lang, "preferences.saveFailed"))
		return
	}
	h.respond(c)
}

// ToggleTheme handles POST /api/preferences/theme/toggle
func (h *PreferenceHandler) ToggleTheme(c *gin.Context) {
	lang := preference.MustLanguage(c.Request.Context()).Language()
	if _, err := preference.MustTheme(c.Request.Context()).ToggleTheme(); err != nil {
		utils.HandleAPIError(c, h.logger, err, http.StatusInternalServerError, common.ErrTitleInternalServer, h.catalog.T(lang, "preferences.saveFailed"))
		return
	}
	h.respond(c)
}

// bindError answers 400. Fields failing tag get the message under key;
// a body that could not be decoded gets the generic message.
func (h *PreferenceHandler) bindError(c *gin.Context, lang i18n.Language, err error, tag, key string) {
	generic := h.catalog.T(lang, "api.badRequest")
	fields := validation.FormatValidationError(err)
	if fields == nil {
		utils.HandleError(c, http.StatusBadRequest, common.ErrTitleBadRequest, generic, nil)
		return
	}

	msg := generic
	details := lo.Map(fields, func(fe validation.FieldError, _ int) common.ValidationError {
		if fe.Tag == tag {
			msg = h.catalog.T(lang, key)
			return common.ValidationError{Field: fe.Field, Message: msg}
		}
		return common.ValidationError{Field: fe.Field, Message: generic}
	})
	utils.HandleError(c, http.StatusBadRequest, common.ErrTitleBadRequest, msg, details)
}

func (h *PreferenceHandler) respond(c *gin.Context) {
	ctx := c.Request.Context()
	utils.HandleSuccess(c, prefdto.PreferencesResponse{
		Language: preference.MustLanguage(ctx).Language().String(),
		Theme:    preference.MustTheme(ctx).Theme().String(),
		Languages: lo.Map(i18n.Supported(), func(l i18n.Language, _ int) string {
			return l.String()
		}),
	})
}
