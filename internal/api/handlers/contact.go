package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/robertozapata/portfolio/internal/api/constants"
	"github.com/robertozapata/portfolio/internal/api/dto/common"
	contactdto "github.com/robertozapata/portfolio/internal/api/dto/v1/contact"
	"github.com/robertozapata/portfolio/internal/contact"
	"github.com/robertozapata/portfolio/internal/i18n"
	"github.com/robertozapata/portfolio/internal/logging"
	"github.com/robertozapata/portfolio/internal/mail"
	"github.com/robertozapata/portfolio/internal/preference"
	"github.com/robertozapata/portfolio/internal/utils"
	"github.com/robertozapata/portfolio/internal/version"

	"github.com/gin-gonic/gin"
)

// maxContactBody bounds the submission body
const maxContactBody = 64 << 10

type ContactHandler struct {
	service     *contact.Service
	catalog     *i18n.Catalog
	defaultLang i18n.Language
	logger      *logging.Logger
}

func NewContactHandler(service *contact.Service, catalog *i18n.Catalog, defaultLang i18n.Language, logger *logging.Logger) *ContactHandler {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &ContactHandler{
		service:     service,
		catalog:     catalog,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	lang := preference.LanguageOr(c.Request.Context(), h.defaultLang)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBody)

	var in contact.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		var typeErr *json.UnmarshalTypeError
		var sizeErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			// Valid JSON that is not an object: every field is missing
			in = contact.Input{}
		case errors.As(err, &sizeErr):
			utils.HandleAPIError(c, h.logger, err, http.StatusRequestEntityTooLarge, common.ErrTitleBadRequest, h.catalog.T(lang, "api.badRequest"))
			return
		default:
			utils.HandleAPIError(c, h.logger, err, http.StatusInternalServerError, common.ErrTitleInternalServer, h.catalog.T(lang, "contact.unexpected"))
			return
		}
	}

	receipt, err := h.service.Submit(c.Request.Context(), in, lang)
	if err != nil {
		h.handleSubmitError(c, err, lang)
		return
	}

	utils.HandleSuccess(c, contactdto.ContactResponse{
		Success: true,
		Message: h.catalog.T(lang, "contact.success"),
		ID:      receipt.ID,
	})
}

func (h *ContactHandler) handleSubmitError(c *gin.Context, err error, lang i18n.Language) {
	var verr *contact.ValidationError
	var rerr *contact.RateLimitError

	switch {
	case errors.As(err, &verr):
		utils.HandleError(c, http.StatusBadRequest, common.ErrTitleValidation, h.catalog.T(lang, "contact.invalid"), verr.Fields)

	case errors.As(err, &rerr):
		seconds := rerr.RetryAfterSeconds()
		c.Header(constants.HeaderRetryAfter, strconv.Itoa(seconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewRateLimitResponse(
			h.catalog.T(lang, "contact.rateLimited", i18n.Args{"seconds": seconds}),
			seconds,
		))

	case errors.Is(err, mail.ErrNotConfigured), errors.Is(err, mail.ErrDelivery):
		// Configuration and provider failures look the same to the caller
		utils.HandleAPIError(c, h.logger, err, http.StatusInternalServerError, common.ErrTitleEmailFailed, h.catalog.T(lang, "contact.sendFailed"))

	default:
		utils.HandleAPIError(c, h.logger, err, http.StatusInternalServerError, common.ErrTitleInternalServer, h.catalog.T(lang, "contact.unexpected"))
	}
}

// Info handles GET /api/contact
func (h *ContactHandler) Info(c *gin.Context) {
	lang := preference.LanguageOr(c.Request.Context(), h.defaultLang)
	seconds := int(h.service.Window().Seconds())

	utils.HandleSuccess(c, contactdto.ContactInfoResponse{
		Name:           "Contact API",
		Version:        version.APIVersion,
		Description:    h.catalog.T(lang, "contact.api.description"),
		Method:         http.MethodPost,
		RequiredFields: contact.Fields,
		RateLimit:      h.catalog.T(lang, "contact.api.rateLimit", i18n.Args{"seconds": seconds}),
	})
}
