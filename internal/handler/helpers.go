package handler

import (
	"errors"
	"net/http"
	"reflect"

	"buyonline/internal/apierror"
	"buyonline/internal/dto"
	"buyonline/internal/middleware"
	"buyonline/internal/model"
	"buyonline/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails.
// The caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error(), c.Request.URL.Path))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(c.Request.URL.Path, fields))
		return false
	}
	return true
}

// pathID parses the :name path parameter as a UUID, answering 400 when it
// is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name, c.Request.URL.Path))
		return uuid.Nil, false
	}
	return id, true
}

// principal fetches the identity resolved by JWTAuth.
func principal(c *gin.Context) (model.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required", c.Request.URL.Path))
	}
	return p, ok
}

// writeError maps catalog failures onto HTTP statuses. Anything that is not
// a catalog failure is attached to the context for ErrorHandler.
func writeError(c *gin.Context, err error) {
	switch {
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, apierror.New(err.Error(), c.Request.URL.Path))
	case service.IsBadRequest(err):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error(), c.Request.URL.Path))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error", c.Request.URL.Path))
	}
}

func outcomeResponse(o service.Outcome) dto.OutcomeResponse {
	return dto.OutcomeResponse{Status: string(o.Kind), Reason: string(o.Reason), Message: o.Message}
}
