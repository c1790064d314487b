package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
)

const (
	ErrCodeUnknownVendor   = "unknown_vendor"
	ErrCodeMissingLocation = "missing_location"
	ErrCodeVendorTimeout   = "vendor_timeout"
	ErrCodeVendorTransport = "vendor_unreachable"
	ErrCodeVendorUpstream  = "vendor_bad_response"
	ErrCodeVendorPayload   = "vendor_bad_payload"
)

// NewResponseError maps err to the response rendered for it.
func NewResponseError(err error) *ResponseError {
	resp := &ResponseError{
		Status:       http.StatusInternalServerError,
		Err:          err,
		ErrorMessage: err.Error(),
	}

	var (
		he *echo.HTTPError
		re *ResponseError
	)
	switch {
	case errors.As(err, &re):
		return re
	case errors.As(err, &he):
		resp.Status = he.Code
		resp.ErrorMessage = fmt.Sprint(he.Message)
	case errors.Is(err, models.ErrUnknownVendor):
		resp.Status = http.StatusNotFound
		resp.ErrorCode = ErrCodeUnknownVendor
	case errors.Is(err, models.ErrMissingLocation):
		resp.Status = http.StatusBadRequest
		resp.ErrorCode = ErrCodeMissingLocation
	default:
		if fe, ok := models.AsFetchError(err); ok {
			fetchErrorResponse(resp, fe)
		}
	}
	return resp
}

func fetchErrorResponse(resp *ResponseError, fe *models.FetchError) {
	data := map[string]interface{}{
		"vendor": fe.Vendor,
		"phase":  fe.Phase,
	}
	resp.Status = http.StatusBadGateway
	resp.ErrorData = data

	switch fe.Kind {
	case models.KindTransport:
		resp.ErrorCode = ErrCodeVendorTransport
		if fe.Canceled() {
			resp.Status = http.StatusGatewayTimeout
			resp.ErrorCode = ErrCodeVendorTimeout
		}
	case models.KindUpstream:
		resp.ErrorCode = ErrCodeVendorUpstream
		data["status"] = fe.Status
	case models.KindPayload:
		resp.ErrorCode = ErrCodeVendorPayload
		data["reason"] = fe.Reason
		if fe.Field != "" {
			data["field"] = fe.Field
		}
		if fe.Index >= 0 {
			data["index"] = fe.Index
		}
	}
}

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := NewResponseError(err)

		// detect canceled request error
		if errors.Is(err, context.Canceled) && errors.Is(c.Request().Context().Err(), context.Canceled) {
			resp.Status = 499
		}

		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}
