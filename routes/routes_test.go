package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
	"hotel-backoffice/repository"
	"hotel-backoffice/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type testApp struct {
	router *gin.Engine
	store  *repository.MemoryStore
}

// buildTestApp wires the full router over an in-memory store seeded with a
// full "Standard" type (1), a "Deluxe" type (2) with one free room, a room
// of each type and a confirmed Deluxe booking.
func buildTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	store := repository.NewMemoryStore()
	logger := zap.NewNop()

	require.NoError(t, store.CreateRoomType(ctx, &models.RoomType{
		ID:              1,
		Name:            "Standard",
		MaxGuests:       3,
		PricePerNight:   decimal.NewFromInt(100),
		PriceSingle:     decimal.NewNullDecimal(decimal.NewFromInt(80)),
		SingleEnabled:   true,
		DoubleEnabled:   true,
		ChildrenAllowed: true,
		TotalRooms:      2,
		RoomsAvailable:  0,
	}))
	require.NoError(t, store.CreateRoomType(ctx, &models.RoomType{
		ID:              2,
		Name:            "Deluxe",
		MaxGuests:       3,
		PricePerNight:   decimal.NewFromInt(150),
		SingleEnabled:   true,
		DoubleEnabled:   true,
		TripleEnabled:   true,
		ChildrenAllowed: true,
		TotalRooms:      3,
		RoomsAvailable:  1,
	}))
	store.PutIndividualRoom(&models.IndividualRoom{ID: 11, RoomTypeID: 1, RoomNumber: "S01", Status: models.RoomAvailable})
	store.PutIndividualRoom(&models.IndividualRoom{ID: 21, RoomTypeID: 2, RoomNumber: "D01", Status: models.RoomAvailable})
	store.PutBooking(&models.Booking{
		ID:               10,
		BookingReference: "BK-ROUTE001",
		RoomID:           2,
		GuestName:        "Sam Guest",
		GuestEmail:       "sam@example.com",
		CheckInDate:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		CheckOutDate:     time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		NumberOfNights:   2,
		NumberOfGuests:   1,
		AdultGuests:      1,
		OccupancyType:    models.OccupancySingle,
		TotalAmount:      decimal.NewFromInt(300),
		Status:           models.BookingConfirmed,
	})

	settings := services.NewSettingsService(store, nil, 0, logger)
	status := services.NewRoomStatusService(store, logger)
	roomTypes := services.NewRoomTypeService(store, settings, logger)
	bookings := services.NewBookingEditService(store, settings, status, services.MultiNotifier{}, logger)
	maintenance := services.NewMaintenanceService(store, status, logger)

	router := SetupRouter(Controllers{
		Bookings:    controllers.NewBookingController(bookings),
		RoomTypes:   controllers.NewRoomTypeController(roomTypes),
		Rooms:       controllers.NewRoomController(roomTypes, status),
		Maintenance: controllers.NewMaintenanceController(maintenance, status),
		Settings:    controllers.NewSettingsController(settings),
	}, []string{"*"}, logger)

	return &testApp{router: router, store: store}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AdminIDHeader, "3")
	resp := httptest.NewRecorder()
	a.router.ServeHTTP(resp, req)
	return resp
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body
}

func TestHealth(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get(middleware.RequestIDHeader))
}

func TestGetBooking_NotFoundAndBadID(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodGet, "/api/bookings/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "error.notFound", decodeError(t, resp).Error.Code)

	resp = app.do(t, http.MethodGet, "/api/bookings/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.invalidRequest", decodeError(t, resp).Error.Code)
}

func TestUpdateBooking_FullTargetRoomTypeIsConflict(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodPut, "/api/bookings/10", services.EditBookingRequest{
		RoomTypeID:     1,
		GuestName:      "Sam Guest",
		GuestEmail:     "sam@example.com",
		CheckInDate:    "2026-05-01",
		CheckOutDate:   "2026-05-03",
		NumberOfGuests: 1,
		OccupancyType:  models.OccupancySingle,
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "error.roomUnavailable", decodeError(t, resp).Error.Code)

	b, err := app.store.GetBooking(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, uint(2), b.RoomID)
}

func TestUpdateBooking_RepricesStay(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodPut, "/api/bookings/10", services.EditBookingRequest{
		RoomTypeID:     2,
		GuestName:      "Sam Guest",
		GuestEmail:     "sam@example.com",
		CheckInDate:    "2026-05-01",
		CheckOutDate:   "2026-05-04",
		NumberOfGuests: 1,
		OccupancyType:  models.OccupancySingle,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Quote   services.PriceQuote `json:"quote"`
		Changes services.ChangeSet  `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "450", body.Quote.Total.String())
	assert.Equal(t, "2026-05-04", body.Changes["check_out_date"].New)
}

func TestQuote_DisabledOccupancyIsPolicyViolation(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodPost, "/api/bookings/quote", services.QuoteRequest{
		RoomTypeID:     1,
		CheckInDate:    "2026-05-01",
		CheckOutDate:   "2026-05-02",
		NumberOfGuests: 3,
		OccupancyType:  models.OccupancyTriple,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "error.policyViolation", decodeError(t, resp).Error.Code)
}

func TestQuote_MissingFieldsIsBadRequest(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodPost, "/api/bookings/quote", gin.H{"room_id": 1})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.invalidRequest", decodeError(t, resp).Error.Code)
}

func TestMaintenanceFlow(t *testing.T) {
	app := buildTestApp(t)
	now := time.Now()
	schedule := services.ScheduleInput{
		IndividualRoomID: 21,
		Title:            "Replace AC unit",
		StartDate:        now.Add(-time.Hour).Format("2006-01-02 15:04"),
		EndDate:          now.Add(2 * time.Hour).Format("2006-01-02 15:04"),
	}

	resp := app.do(t, http.MethodPost, "/api/maintenance/schedules", schedule)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	room, err := app.store.GetIndividualRoom(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, models.RoomMaintenance, room.Status)

	// a second blocking schedule over the same window clashes
	resp = app.do(t, http.MethodPost, "/api/maintenance/schedules", schedule)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "error.scheduleOverlap", decodeError(t, resp).Error.Code)

	// housekeeping cannot release a blocked room
	resp = app.do(t, http.MethodPatch, "/api/rooms/21/status", gin.H{"status": "available", "reason": "Checked"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var statusBody struct {
		Message string                `json:"message"`
		Data    models.IndividualRoom `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &statusBody))
	assert.Equal(t, models.RoomMaintenance, statusBody.Data.Status)
	assert.Contains(t, statusBody.Message, "maintenance")

	resp = app.do(t, http.MethodGet, "/api/maintenance/logs/export?room_id=21", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "maintenance-log-")

	f, err := excelize.OpenReader(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Maintenance Log")
	require.NoError(t, err)
	assert.Len(t, rows, 2, "header plus the block entry")
}

func TestUpdateRoomStatus_UnknownStatus(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodPatch, "/api/rooms/11/status", gin.H{"status": "haunted"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "error.validation", decodeError(t, resp).Error.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodPut, "/api/settings/vat_rate", gin.H{"value": "7"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = app.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "7", body.Data["vat_rate"])
}

func TestSuccessEnvelope(t *testing.T) {
	app := buildTestApp(t)

	requests := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/api/bookings/10", nil},
		{http.MethodPost, "/api/bookings/quote", services.QuoteRequest{
			RoomTypeID: 2, CheckInDate: "2026-05-01", CheckOutDate: "2026-05-02",
			NumberOfGuests: 1, OccupancyType: models.OccupancySingle,
		}},
		{http.MethodGet, "/api/room-types", nil},
		{http.MethodGet, "/api/settings", nil},
		{http.MethodPut, "/api/settings/site_name", gin.H{"value": "Seaside"}},
		{http.MethodGet, "/api/maintenance/schedules", nil},
		{http.MethodGet, "/api/maintenance/logs", nil},
		{http.MethodPost, "/api/maintenance/reconcile", nil},
	}
	for _, r := range requests {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			resp := app.do(t, r.method, r.path, r.body)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, true, body["success"])
			assert.Contains(t, body, "data")
		})
	}
}

func TestDeleteSchedule_MessageEnvelope(t *testing.T) {
	app := buildTestApp(t)
	now := time.Now()

	resp := app.do(t, http.MethodPost, "/api/maintenance/schedules", services.ScheduleInput{
		IndividualRoomID: 11,
		Title:            "Fix shower",
		StartDate:        now.Add(24 * time.Hour).Format("2006-01-02 15:04"),
		EndDate:          now.Add(26 * time.Hour).Format("2006-01-02 15:04"),
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created struct {
		Success bool                       `json:"success"`
		Data    models.MaintenanceSchedule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.True(t, created.Success)

	resp = app.do(t, http.MethodDelete, "/api/maintenance/schedules/"+strconv.FormatUint(uint64(created.Data.ID), 10), nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var deleted map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &deleted))
	assert.Equal(t, true, deleted["success"])
	assert.Equal(t, "Maintenance deleted", deleted["message"])
	assert.NotContains(t, deleted, "data")
}

func TestUpdateRoomType_OmittedTotalRoomsKeepsCounters(t *testing.T) {
	app := buildTestApp(t)

	resp := app.do(t, http.MethodPut, "/api/room-types/2", gin.H{
		"name":            "Deluxe",
		"description":     "Sea view",
		"price_per_night": "150",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	rt, err := app.store.GetRoomType(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Sea view", rt.Description)
	assert.Equal(t, 3, rt.TotalRooms)
	assert.Equal(t, 1, rt.RoomsAvailable)
}
