package calc

import (
	"fmt"
	"strings"
	"time"
)

// Downtime tiempo transcurrido entre la apertura de un reporte y su resolución (o ahora).
type Downtime struct {
	Days    int64  `json:"days"`
	Hours   int64  `json:"hours"`
	Minutes int64  `json:"minutes"`
	Label   string `json:"label"`
}

// Elapsed duración total en minutos enteros.
func (d Downtime) Elapsed() time.Duration {
	return time.Duration(d.Days*24*60+d.Hours*60+d.Minutes) * time.Minute
}

// OpenedAt combina la fecha del reporte con la hora "HH:MM" (o "HH:MM:SS").
// Una hora vacía o ilegible se toma como medianoche.
func OpenedAt(reportDate time.Time, reportTime string) time.Time {
	y, m, d := reportDate.Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, reportDate.Location())
	clock := strings.TrimSpace(reportTime)
	if clock == "" {
		return base
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return base.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second)
		}
	}
	return base
}

// CalculateDowntimePeriod calcula el tiempo fuera de servicio; si resolvedAt es nil usa now.
// Nunca se persiste: es siempre función de (apertura, resolución-o-ahora).
func CalculateDowntimePeriod(reportDate time.Time, reportTime string, resolvedAt *time.Time, now time.Time) Downtime {
	start := OpenedAt(reportDate, reportTime)
	end := now
	if resolvedAt != nil && !resolvedAt.IsZero() {
		end = *resolvedAt
	}
	elapsed := end.Sub(start)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	totalMinutes := int64(elapsed / time.Minute)
	dt := Downtime{
		Days:    totalMinutes / (24 * 60),
		Hours:   (totalMinutes % (24 * 60)) / 60,
		Minutes: totalMinutes % 60,
	}
	dt.Label = formatDowntime(dt)
	return dt
}

func formatDowntime(d Downtime) string {
	switch {
	case d.Days > 0:
		return fmt.Sprintf("%d يوم %d ساعة", d.Days, d.Hours)
	case d.Hours > 0:
		return fmt.Sprintf("%d ساعة %d دقيقة", d.Hours, d.Minutes)
	default:
		return fmt.Sprintf("%d دقيقة", d.Minutes)
	}
}
