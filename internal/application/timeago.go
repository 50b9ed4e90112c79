package application

import (
	"fmt"
	"math"
	"time"
)

const (
	minutesInDay       = 1440
	minutesInTwoDays   = 2520 // "almost two days" boundary
	minutesInMonth     = 43200
	minutesInTwoMonths = 86400
)

// TimeAgo renders the distance between t and now in Brazilian Portuguese with a
// relative suffix ("há 5 minutos", "em cerca de 2 horas"). Rounding thresholds
// follow the ones the web client uses for story cards.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}

	distance := distanceWords(d)
	if future {
		return "em " + distance
	}
	return "há " + distance
}

func distanceWords(d time.Duration) string {
	minutes := int(math.Round(d.Seconds() / 60))

	switch {
	case minutes == 0:
		return "menos de um minuto"
	case minutes < 45:
		return plural(minutes, "1 minuto", "%d minutos")
	case minutes < 90:
		return "cerca de 1 hora"
	case minutes < minutesInDay:
		return plural(roundDiv(minutes, 60), "cerca de 1 hora", "cerca de %d horas")
	case minutes < minutesInTwoDays:
		return "1 dia"
	case minutes < minutesInMonth:
		return plural(roundDiv(minutes, minutesInDay), "1 dia", "%d dias")
	case minutes < minutesInTwoMonths:
		return plural(roundDiv(minutes, minutesInMonth), "cerca de 1 mês", "cerca de %d meses")
	}

	months := minutes / minutesInMonth
	if months < 12 {
		return plural(roundDiv(minutes, minutesInMonth), "1 mês", "%d meses")
	}

	years, rem := months/12, months%12
	switch {
	case rem < 3:
		return plural(years, "cerca de 1 ano", "cerca de %d anos")
	case rem < 9:
		return plural(years, "mais de 1 ano", "mais de %d anos")
	default:
		return plural(years+1, "quase 1 ano", "quase %d anos")
	}
}

func roundDiv(n, d int) int {
	return int(math.Round(float64(n) / float64(d)))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return fmt.Sprintf(many, n)
}
