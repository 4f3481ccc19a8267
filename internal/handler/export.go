package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/brlacerra/gh2o-sistema/internal/models"
	"github.com/brlacerra/gh2o-sistema/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler dumps a station's readings as CSV or XLSX. Access goes
// through the same gate as the JSON endpoints.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

var exportHeader = []string{
	"timestamp", "pulses",
	"temp_avg", "temp_min", "temp_max",
	"pressure_avg", "pressure_min", "pressure_max",
	"humidity_avg", "humidity_min", "humidity_max",
	"lum_avg", "lum_min", "lum_max",
	"wind_avg", "wind_min", "wind_max",
	"wind_dir",
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func exportRow(r *models.Reading) []string {
	return []string{
		time.Unix(r.Ts, 0).UTC().Format(time.RFC3339),
		fmtInt(r.Pulses),
		fmtFloat(r.TempAvg), fmtFloat(r.TempMin), fmtFloat(r.TempMax),
		fmtFloat(r.PressureAvg), fmtFloat(r.PressureMin), fmtFloat(r.PressureMax),
		fmtFloat(r.HumidityAvg), fmtFloat(r.HumidityMin), fmtFloat(r.HumidityMax),
		fmtFloat(r.LumAvg), fmtFloat(r.LumMin), fmtFloat(r.LumMax),
		fmtFloat(r.WindAvg), fmtFloat(r.WindMin), fmtFloat(r.WindMax),
		fmtFloat(r.WindDir),
	}
}

func (h *ExportHandler) loadReadings(code string) ([]models.Reading, error) {
	var readings []models.Reading
	err := h.DB.Where("station_code = ?", code).
		Order("ts ASC").
		Find(&readings).Error
	return readings, err
}

// ExportCSV streams all readings of one station as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	station, ok := gateStation(c, h.DB, c.Param("code"))
	if !ok {
		return
	}

	readings, err := h.loadReadings(station.Code)
	if err != nil {
		log.Printf("export csv: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.csv\"",
		station.Code, time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps pick the right encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader)
	for i := range readings {
		writer.Write(exportRow(&readings[i]))
	}
}

// ExportXLSX writes all readings of one station as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	station, ok := gateStation(c, h.DB, c.Param("code"))
	if !ok {
		return
	}

	readings, err := h.loadReadings(station.Code)
	if err != nil {
		log.Printf("export xlsx: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "erro interno")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leituras"
	f.SetSheetName("Sheet1", sheet)

	header := make([]interface{}, len(exportHeader))
	for i, col := range exportHeader {
		header[i] = col
	}
	_ = f.SetSheetRow(sheet, "A1", &header)

	for i := range readings {
		row := exportRow(&readings[i])
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetSheetRow(sheet, cell, &cells)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.xlsx\"",
		station.Code, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("write xlsx: %v", err)
	}
}
