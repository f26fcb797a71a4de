package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/haatos/simple-cms/internal/service"
	"github.com/labstack/echo/v4"
)

func SetupModuleRoutes(g *echo.Group, h *ModuleHandler, m *Middleware) {
	modulesGroup := g.Group("/settings/modules")
	modulesGroup.GET("", h.GetModules, m.Action("Settings", "Modules"))
	modulesGroup.POST("/:module", h.PostInstallModule, m.Action("Settings", "InstallModule"))
	modulesGroup.DELETE("/:module", h.DeleteModule, m.Action("Settings", "UninstallModule"))
	modulesGroup.GET("/:module/settings/:name", h.GetModuleSetting, m.Action("Settings", "Modules"))
	modulesGroup.PUT("/:module/settings/:name", h.PutModuleSetting, m.Action("Settings", "Modules"))
}

type ModuleServicer interface {
	ListInstalledModules(context.Context) ([]string, error)
	InstallModule(context.Context, string) (string, error)
	UninstallModule(context.Context, string) error
	GetModuleSetting(context.Context, string, string) (string, error)
	SetModuleSetting(context.Context, string, string, string) error
}

type ModuleHandler struct {
	moduleService ModuleServicer
}

func NewModuleHandler(moduleService ModuleServicer) *ModuleHandler {
	return &ModuleHandler{moduleService}
}

func (h *ModuleHandler) GetModules(c echo.Context) error {
	modules, err := h.moduleService.ListInstalledModules(c.Request().Context())
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "unable to list modules")
	}
	return c.JSON(http.StatusOK, modules)
}

func (h *ModuleHandler) PostInstallModule(c echo.Context) error {
	mp := new(ModuleParams)
	if err := c.Bind(mp); err != nil || mp.Module == "" {
		return newError(c, err, http.StatusBadRequest, "invalid module")
	}
	name, err := h.moduleService.InstallModule(c.Request().Context(), mp.Module)
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "unable to install module")
	}
	return c.JSON(http.StatusCreated, map[string]string{"module": name})
}

func (h *ModuleHandler) DeleteModule(c echo.Context) error {
	mp := new(ModuleParams)
	if err := c.Bind(mp); err != nil || mp.Module == "" {
		return newError(c, err, http.StatusBadRequest, "invalid module")
	}
	if err := h.moduleService.UninstallModule(c.Request().Context(), mp.Module); err != nil {
		if errors.Is(err, service.ErrProtectedModule) {
			return newError(c, err, http.StatusBadRequest, "this module cannot be uninstalled")
		}
		return newError(c, err, http.StatusInternalServerError, "unable to uninstall module")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ModuleHandler) GetModuleSetting(c echo.Context) error {
	sp := new(ModuleSettingParams)
	if err := c.Bind(sp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid module setting")
	}
	value, err := h.moduleService.GetModuleSetting(c.Request().Context(), sp.Module, sp.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return newError(c, err, http.StatusNotFound, "setting not found")
	}
	if err != nil {
		return newError(c, err, http.StatusInternalServerError, "unable to read setting")
	}
	return c.JSON(http.StatusOK, map[string]string{"name": sp.Name, "value": value})
}

func (h *ModuleHandler) PutModuleSetting(c echo.Context) error {
	sp := new(ModuleSettingParams)
	if err := c.Bind(sp); err != nil {
		return newError(c, err, http.StatusBadRequest, "invalid module setting")
	}
	if err := h.moduleService.SetModuleSetting(
		c.Request().Context(), sp.Module, sp.Name, sp.Value,
	); err != nil {
		return newError(c, err, http.StatusInternalServerError, "unable to store setting")
	}
	return c.NoContent(http.StatusNoContent)
}
