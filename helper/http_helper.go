package helper

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"sciarticles/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

const (
	codeTypeBadRequest   = `badRequest`
	codeTypeValidation   = `validationError`
	codeTypeUnauthorized = `unAuthorized`
	codeTypeForbidden    = `forbidden`
	codeTypeNotFound     = `notFound`
	codeTypeInternal     = `internalError`
)

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
	Log        *zap.Logger
}

// NewHTTPHelper wires an english validator whose error keys are JSON field names.
func NewHTTPHelper(log *zap.Logger) *HTTPHelper {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	return &HTTPHelper{
		Validate:   validate,
		Translator: trans,
		Log:        log,
	}
}

// ValidateStruct returns a models.ErrorValidation describing every failed field.
func (u *HTTPHelper) ValidateStruct(s interface{}) error {
	err := u.Validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return models.ErrorValidation{Message: err.Error()}
	}

	fields := map[string][]string{}
	for _, fe := range validationErrors {
		fields[fe.Field()] = append(fields[fe.Field()], fe.Translate(u.Translator))
	}
	return models.ErrorValidation{Message: "Invalid article payload", Fields: fields}
}

// GetStatusCode ...
func (u *HTTPHelper) GetStatusCode(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var (
		unauthorized models.ErrorUnauthorized
		identity     models.ErrorIdentityUnavailable
		notFound     models.ErrorNotFound
		forbidden    models.ErrorForbidden
		validation   models.ErrorValidation
	)
	switch {
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, codeTypeUnauthorized
	case errors.As(err, &identity):
		return http.StatusNotFound, codeTypeNotFound
	case errors.As(err, &notFound):
		return http.StatusNotFound, codeTypeNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden, codeTypeForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest, codeTypeValidation
	default:
		return http.StatusInternalServerError, codeTypeInternal
	}
}

// SendServiceError maps a service error to its HTTP status and logs it.
// Internal errors are reported with a generic message.
func (u *HTTPHelper) SendServiceError(c *gin.Context, err error, fallback string) {
	status, codeType := u.GetStatusCode(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	}
	if status >= http.StatusInternalServerError {
		u.Log.Error(fallback, fields...)
	} else {
		u.Log.Warn("request rejected", fields...)
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = fallback
	}
	var internal models.ErrorInternalServer
	if errors.As(err, &internal) {
		message = internal.Message
	}
	var identity models.ErrorIdentityUnavailable
	if errors.As(err, &identity) {
		message = identity.Message
	}

	body := gin.H{"error": message, "code_type": codeType}
	var validation models.ErrorValidation
	if errors.As(err, &validation) && len(validation.Fields) > 0 {
		body["fields"] = validation.Fields
	}

	c.AbortWithStatusJSON(status, body)
}

// SendBadRequest ...
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "code_type": codeTypeBadRequest})
}

// SendUnauthorizedError ...
func (u *HTTPHelper) SendUnauthorizedError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message, "code_type": codeTypeUnauthorized})
}

// SendSuccess ...
func (u *HTTPHelper) SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
