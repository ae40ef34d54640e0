package handlers

import (
	"net/http"

	"github.com/robertozapata/portfolio/internal/api/dto/common"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/preference"
	"github.com/robertozapata/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
)

// I18nHandler serves translation bundles to front-end clients
type I18nHandler struct {
	catalog     *i18n.Catalog
	defaultLang i18n.Language
}

func NewI18nHandler(catalog *i18n.Catalog, defaultLang i18n.Language) *I18nHandler {
	return &I18nHandler{catalog: catalog, defaultLang: defaultLang}
}

// Bundle handles GET /api/i18n/:lang
func (h *I18nHandler) Bundle(c *gin.Context) {
	reqLang := preference.LanguageOr(c.Request.Context(), h.defaultLang)

	lang, err := i18n.ParseLanguage(c.Param("lang"))
	if err != nil {
		utils.HandleError(c, http.StatusNotFound, common.ErrTitleNotFound, h.catalog.T(reqLang, "preferences.unsupportedLanguage"), nil)
		return
	}
	bundle, ok := h.catalog.Bundle(lang)
	if !ok {
		utils.HandleError(c, http.StatusNotFound, common.ErrTitleNotFound, h.catalog.T(reqLang, "api.notFound"), nil)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, bundle)
}
