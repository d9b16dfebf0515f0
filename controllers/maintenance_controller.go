package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hotel-backoffice/middleware"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type MaintenanceController struct {
	MaintenanceSvc *services.MaintenanceService
	StatusSvc      *services.RoomStatusService
}

func NewMaintenanceController(m *services.MaintenanceService, status *services.RoomStatusService) *MaintenanceController {
	return &MaintenanceController{MaintenanceSvc: m, StatusSvc: status}
}

// GET /api/maintenance/schedules?room_id=
func (ctrl *MaintenanceController) ListSchedules(c *gin.Context) {
	roomID, ok := queryID(c, "room_id")
	if !ok {
		return
	}
	list, err := ctrl.MaintenanceSvc.List(c.Request.Context(), roomID, middleware.ActingAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *MaintenanceController) CreateSchedule(c *gin.Context) {
	var in services.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	m, err := ctrl.MaintenanceSvc.Create(c.Request.Context(), in, middleware.ActingAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Maintenance scheduled", m)
}

func (ctrl *MaintenanceController) UpdateSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var in services.ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	m, err := ctrl.MaintenanceSvc.Update(c.Request.Context(), id, in, middleware.ActingAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Maintenance updated", m)
}

func (ctrl *MaintenanceController) DeleteSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.MaintenanceSvc.Delete(c.Request.Context(), id, middleware.ActingAdmin(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusOK, "Maintenance deleted", nil)
}

// POST /api/maintenance/reconcile
func (ctrl *MaintenanceController) Reconcile(c *gin.Context) {
	summary, err := ctrl.StatusSvc.ReconcileMaintenanceStatuses(c.Request.Context(), middleware.ActingAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}

func logLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "200"))
	if err != nil || limit <= 0 {
		return 200
	}
	return limit
}

// GET /api/maintenance/logs?room_id=&limit=
func (ctrl *MaintenanceController) ListLogs(c *gin.Context) {
	roomID, ok := queryID(c, "room_id")
	if !ok {
		return
	}
	entries, err := ctrl.MaintenanceSvc.Log(c.Request.Context(), roomID, logLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, entries)
}

// GET /api/maintenance/logs/export?room_id=
func (ctrl *MaintenanceController) ExportLogs(c *gin.Context) {
	roomID, ok := queryID(c, "room_id")
	if !ok {
		return
	}
	entries, err := ctrl.MaintenanceSvc.Log(c.Request.Context(), roomID, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := utils.GenerateMaintenanceLogExport(entries)
	if err != nil {
		_ = c.Error(err)
		utils.JSONError(c, http.StatusInternalServerError, "error.exportFailed", "could not build the export file")
		return
	}
	filename := fmt.Sprintf("maintenance-log-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, data)
}
