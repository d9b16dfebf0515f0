package controllers

import (
	"net/http"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsSvc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{SettingsSvc: svc}
}

type settingPayload struct {
	Value string `json:"value"`
}

func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	list, err := ctrl.SettingsSvc.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make(map[string]string, len(list))
	for _, s := range list {
		out[s.Key] = s.Value
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *SettingsController) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	var payload settingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if err := ctrl.SettingsSvc.Update(c.Request.Context(), key, payload.Value); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Setting saved", gin.H{"key": key, "value": payload.Value})
}
