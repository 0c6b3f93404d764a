package handler

import (
	"net/http"

	"onlinestore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 成功時は {success:true, data}
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// 失敗時は {success:false, error:{code,message,details?}}
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(status int, message string, details any) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: status, Message: message, Details: details},
	}
}

func writeOK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func writeCreated(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, NewErrorResponse(status, message, nil))
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := usecase.AsAppError(err); ok {
		if ae.Status >= http.StatusInternalServerError {
			c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		}
		return c.JSON(ae.Status, NewErrorResponse(ae.Status, ae.Message, ae.Details))
	}

	//500
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return fail(c, http.StatusInternalServerError, "Internal server error")
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get("user_id")
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}
