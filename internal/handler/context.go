package handler

import (
	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/store"
	"github.com/labstack/echo/v4"
)

const evaluationKey = "evaluation"

func getCtxEvaluation(c echo.Context) *service.Evaluation {
	if ev, ok := c.Get(evaluationKey).(*service.Evaluation); ok {
		return ev
	}
	return service.NewEvaluation("", "")
}

func getCtxUser(c echo.Context) *store.User {
	return getCtxEvaluation(c).User()
}
