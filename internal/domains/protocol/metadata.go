package protocol

import (
	"fmt"
	"time"
)

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FormatDate renders a protocol date, e.g. "05 марта 2025 г.".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d г.", t.Day(), monthsGenitive[t.Month()-1], t.Year())
}

// FormatNumber renders the protocol number, e.g. "№ 20250305-ТС".
func FormatNumber(t time.Time) string {
	return "№ " + t.Format("20060102") + "-ТС"
}
