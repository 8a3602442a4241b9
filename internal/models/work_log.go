package models

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"strings"
	"time"
)

// WorkLog - запись о рабочем дне
type WorkLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Date          time.Time `gorm:"type:date;not null;index" json:"date"`
	Location      string    `json:"location"`
	StartTime     string    `json:"start_time"`
	FinishTime    string    `json:"finish_time"`
	BreakDuration string    `json:"break_duration"`
	BaseHours     float64   `gorm:"not null;default:0" json:"base_hours"`
	OTHours       float64   `gorm:"column:ot_hours;not null;default:0" json:"ot_hours"`
	Fingerprint   string    `gorm:"uniqueIndex;not null" json:"fingerprint"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WorkLog) TableName() string {
	return "work_logs"
}

// Известные значения location
const (
	LocationWFH        = "Working from home"
	LocationOffice     = "Normal work location"
	LocationOnLeave    = "On leave"
	LocationAfterHours = "AFTER HOURS"
	LocationRDO        = "RDO"
	LocationPublicHol  = "Public Holiday"
	LocationAnnual     = "Annual Leave"
	LocationSick       = "Sick Leave"
)

// Fingerprint вычисляет отпечаток логической записи: дата, начало, конец, место.
// Часы в отпечаток не входят: один и тот же слот нельзя записать дважды.
func Fingerprint(date, start, finish, location string) string {
	raw := date +
		strings.ToLower(strings.TrimSpace(start)) +
		strings.ToLower(strings.TrimSpace(finish)) +
		strings.TrimSpace(location)

	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ComputeFingerprint заполняет поле Fingerprint по текущим значениям
func (w *WorkLog) ComputeFingerprint() string {
	w.Fingerprint = Fingerprint(w.Date.Format("2006-01-02"), w.StartTime, w.FinishTime, w.Location)
	return w.Fingerprint
}

// TotalHours - базовые часы плюс переработка
func (w *WorkLog) TotalHours() float64 {
	return w.BaseHours + w.OTHours
}

// IsValid проверяет минимальные требования к записи
func (w *WorkLog) IsValid() bool {
	if w.Date.IsZero() {
		return false
	}
	for _, h := range []float64{w.BaseHours, w.OTHours} {
		if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return false
		}
	}
	return w.Fingerprint != ""
}
