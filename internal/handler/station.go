package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brlacerra/gh2o-sistema/internal/auth"
	"github.com/brlacerra/gh2o-sistema/internal/middleware"
	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StationHandler owns the station listing, creation and per-station reads.
type StationHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewStationHandler(db *gorm.DB, pageSize int) *StationHandler {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &StationHandler{
		DB:       db,
		PageSize: pageSize,
	}
}

// ---------- request/response shapes ----------

type createStationReq struct {
	Code       string   `json:"code" binding:"required"`
	Name       string   `json:"name" binding:"max=128"`
	Alias      string   `json:"alias" binding:"max=64"`
	ClientCode string   `json:"client_code" binding:"max=32"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Resolution *float64 `json:"resolution"`
	PeriodMin  int      `json:"period_min"`
	IsPublic   bool     `json:"is_public"`
	OwnerCode  string   `json:"owner_code"`
	Control    bool     `json:"control"`

	HasPulse      bool `json:"has_pulse"`
	HasTemp       bool `json:"has_temp"`
	HasPressure   bool `json:"has_pressure"`
	HasHumidity   bool `json:"has_humidity"`
	HasLuminosity bool `json:"has_luminosity"`
	HasWind       bool `json:"has_wind"`
	HasWindDir    bool `json:"has_wind_dir"`
}

type readingResp struct {
	Ts          int64    `json:"ts"`
	Pulses      *int64   `json:"pulses"`
	TempAvg     *float64 `json:"temp_avg"`
	PressureAvg *float64 `json:"pressure_avg"`
	HumidityAvg *float64 `json:"humidity_avg"`
	LumAvg      *float64 `json:"lum_avg"`
	WindAvg     *float64 `json:"wind_avg"`
	WindDir     *float64 `json:"wind_dir"`
}

type readingFullResp struct {
	readingResp
	TempMin     *float64 `json:"temp_min"`
	TempMax     *float64 `json:"temp_max"`
	PressureMin *float64 `json:"pressure_min"`
	PressureMax *float64 `json:"pressure_max"`
	HumidityMin *float64 `json:"humidity_min"`
	HumidityMax *float64 `json:"humidity_max"`
	LumMin      *float64 `json:"lum_min"`
	LumMax      *float64 `json:"lum_max"`
	WindMin     *float64 `json:"wind_min"`
	WindMax     *float64 `json:"wind_max"`
}

type stationResp struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Alias      string   `json:"alias"`
	ClientCode string   `json:"client_code"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Resolution *float64 `json:"resolution"`
	PeriodMin  int      `json:"period_min"`
	IsPublic   bool     `json:"is_public"`
	OwnerCode  string   `json:"owner_code"`
	Control    bool     `json:"control"`

	HasPulse      bool `json:"has_pulse"`
	HasTemp       bool `json:"has_temp"`
	HasPressure   bool `json:"has_pressure"`
	HasHumidity   bool `json:"has_humidity"`
	HasLuminosity bool `json:"has_luminosity"`
	HasWind       bool `json:"has_wind"`
	HasWindDir    bool `json:"has_wind_dir"`

	LatestReading *readingResp `json:"latest_reading,omitempty"`
	Health        string       `json:"health,omitempty"`
}

func toStationResp(s *models.Station) stationResp {
	return stationResp{
		Code:       s.Code,
		Name:       s.Name,
		Alias:      s.Alias,
		ClientCode: s.ClientCode,
		Lat:        s.Lat,
		Lng:        s.Lng,
		Resolution: s.Resolution,
		PeriodMin:  s.PeriodMin,
		IsPublic:   s.IsPublic,
		OwnerCode:  s.OwnerCode,
		Control:    s.Control,

		HasPulse:      s.HasPulse,
		HasTemp:       s.HasTemp,
		HasPressure:   s.HasPressure,
		HasHumidity:   s.HasHumidity,
		HasLuminosity: s.HasLuminosity,
		HasWind:       s.HasWind,
		HasWindDir:    s.HasWindDir,
	}
}

func toReadingResp(r *models.Reading) *readingResp {
	return &readingResp{
		Ts:          r.Ts,
		Pulses:      r.Pulses,
		TempAvg:     r.TempAvg,
		PressureAvg: r.PressureAvg,
		HumidityAvg: r.HumidityAvg,
		LumAvg:      r.LumAvg,
		WindAvg:     r.WindAvg,
		WindDir:     r.WindDir,
	}
}

func toReadingFullResp(r *models.Reading) readingFullResp {
	return readingFullResp{
		readingResp: *toReadingResp(r),
		TempMin:     r.TempMin,
		TempMax:     r.TempMax,
		PressureMin: r.PressureMin,
		PressureMax: r.PressureMax,
		HumidityMin: r.HumidityMin,
		HumidityMax: r.HumidityMax,
		LumMin:      r.LumMin,
		LumMax:      r.LumMax,
		WindMin:     r.WindMin,
		WindMax:     r.WindMax,
	}
}

// healthFromTs classifies a station by the age of its last reading:
// up to 15 min is ok, up to 600 min is warn, older is offline.
func healthFromTs(ts *int64, now time.Time) string {
	if ts == nil {
		return "unknown"
	}
	age := now.Sub(time.Unix(*ts, 0))
	switch {
	case age <= 15*time.Minute:
		return "ok"
	case age <= 600*time.Minute:
		return "warn"
	default:
		return "offline"
	}
}

// gateStation loads a station by code and runs the access gate for the
// current user. On refusal it writes the matching status (404/401/403)
// and returns ok=false.
func gateStation(c *gin.Context, db *gorm.DB, code string) (*models.Station, bool) {
	var station *models.Station
	var found models.Station
	err := db.Where("code = ?", code).First(&found).Error
	switch {
	case err == nil:
		station = &found
	case errors.Is(err, gorm.ErrRecordNotFound):
		station = nil
	default:
		log.Printf("lookup station: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return nil, false
	}

	decision := auth.CanAccess(station, middleware.UserFrom(c))
	if decision.Allowed {
		return station, true
	}

	switch decision.Reason {
	case auth.ReasonNotFound:
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "estação não encontrada")
	case auth.ReasonUnauthenticated:
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "não autenticado")
	default:
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "sem permissão para esta estação")
	}
	return nil, false
}

// ---------- listing ----------

// ListStations returns the stations the caller may see, each with its most
// recent reading and a derived health state. Anonymous callers get public
// stations, admins everything, other users public plus their own.
func (h *StationHandler) ListStations(c *gin.Context) {
	user := middleware.UserFrom(c)

	var stations []models.Station
	if err := auth.ScopeStations(h.DB, user).
		Order("code ASC").
		Find(&stations).Error; err != nil {
		log.Printf("list stations: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	latest, err := h.latestReadings()
	if err != nil {
		log.Printf("latest readings: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	now := time.Now()
	items := make([]stationResp, 0, len(stations))
	for i := range stations {
		resp := toStationResp(&stations[i])
		if r, ok := latest[stations[i].Code]; ok {
			resp.LatestReading = toReadingResp(&r)
			resp.Health = healthFromTs(&r.Ts, now)
		} else {
			resp.Health = "unknown"
		}
		items = append(items, resp)
	}

	util.Success(c, util.Response{
		"stations": items,
	})
}

// latestReadings fetches the newest reading of every station in one query.
func (h *StationHandler) latestReadings() (map[string]models.Reading, error) {
	var rows []models.Reading
	err := h.DB.Raw(`
		SELECT r.* FROM readings r
		JOIN (
			SELECT station_code, MAX(ts) AS max_ts
			FROM readings
			GROUP BY station_code
		) m ON r.station_code = m.station_code AND r.ts = m.max_ts`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[string]models.Reading, len(rows))
	for _, r := range rows {
		latest[r.StationCode] = r
	}
	return latest, nil
}

// ---------- creation (admin only, enforced by the router) ----------

// CreateStation registers a new station. Owner defaults to the creator;
// an explicit owner must be an existing user.
func (h *StationHandler) CreateStation(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req createStationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "parâmetros inválidos")
		return
	}

	req.Code = strings.TrimSpace(req.Code)
	if err := util.ValidateStationCode(req.Code); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "código de estação inválido")
		return
	}

	// coordinates come as a pair or not at all
	if (req.Lat == nil) != (req.Lng == nil) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "latitude e longitude devem ser informadas juntas")
		return
	}
	if req.Lat != nil {
		if err := util.ValidateCoordinates(*req.Lat, *req.Lng); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "coordenadas inválidas")
			return
		}
	}

	if req.PeriodMin == 0 {
		req.PeriodMin = 15
	}
	if err := util.ValidatePeriod(req.PeriodMin); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "período de leitura inválido")
		return
	}

	ownerCode := req.OwnerCode
	if ownerCode == "" {
		ownerCode = user.Code
	} else {
		var count int64
		if err := h.DB.Model(&models.User{}).Where("code = ?", ownerCode).Count(&count).Error; err != nil {
			log.Printf("lookup owner: %v", err)
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
			return
		}
		if count == 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "usuário proprietário não encontrado")
			return
		}
	}

	var count int64
	if err := h.DB.Model(&models.Station{}).Where("code = ?", req.Code).Count(&count).Error; err != nil {
		log.Printf("check station code: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "já existe uma estação com este código")
		return
	}

	station := models.Station{
		Code:       req.Code,
		Name:       strings.TrimSpace(req.Name),
		Alias:      strings.TrimSpace(req.Alias),
		ClientCode: strings.TrimSpace(req.ClientCode),
		Lat:        req.Lat,
		Lng:        req.Lng,
		Resolution: req.Resolution,
		PeriodMin:  req.PeriodMin,
		IsPublic:   req.IsPublic,
		OwnerCode:  ownerCode,
		Control:    req.Control,

		HasPulse:      req.HasPulse,
		HasTemp:       req.HasTemp,
		HasPressure:   req.HasPressure,
		HasHumidity:   req.HasHumidity,
		HasLuminosity: req.HasLuminosity,
		HasWind:       req.HasWind,
		HasWindDir:    req.HasWindDir,
	}
	if err := h.DB.Create(&station).Error; err != nil {
		log.Printf("create station: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	util.Success(c, util.Response{
		"station": toStationResp(&station),
	})
}

// ---------- per-station reads (gated) ----------

// GetStation returns one station's details if the gate allows it.
func (h *StationHandler) GetStation(c *gin.Context) {
	station, ok := gateStation(c, h.DB, c.Param("code"))
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"station": toStationResp(station),
	})
}

// ListReadings returns a window of readings for one station, newest first.
// from/to are unix seconds; limit is capped by the configured page size.
func (h *StationHandler) ListReadings(c *gin.Context) {
	station, ok := gateStation(c, h.DB, c.Param("code"))
	if !ok {
		return
	}

	q := h.DB.Where("station_code = ?", station.Code)

	if v := c.Query("from"); v != "" {
		from, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "parâmetro from inválido")
			return
		}
		q = q.Where("ts >= ?", from)
	}
	if v := c.Query("to"); v != "" {
		to, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "parâmetro to inválido")
			return
		}
		q = q.Where("ts <= ?", to)
	}

	limit := h.PageSize
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "parâmetro limit inválido")
			return
		}
		if n < limit {
			limit = n
		}
	}

	var readings []models.Reading
	if err := q.Order("ts DESC").Limit(limit).Find(&readings).Error; err != nil {
		log.Printf("list readings: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	items := make([]readingFullResp, 0, len(readings))
	for i := range readings {
		items = append(items, toReadingFullResp(&readings[i]))
	}

	util.Success(c, util.Response{
		"station_code": station.Code,
		"readings":     items,
	})
}
