package sources

import (
	"fmt"
	"html"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
)

// DefaultIcon is used for object types without a dedicated icon
const DefaultIcon = "circle"

var icons = map[string]string{
	"Химический завод":         "industry",
	"Мусоросжигательный завод": "fire",
	"Теплоэлектроцентраль":     "bolt",
	"Полигон ТБО":              "trash",
	"Нефтебаза":                "oil-can",
	"Автомагистраль":           "road",
	"Порт":                     "ship",
	"Аэропорт":                 "plane",
}

// IconFor returns the Font Awesome icon key for an object type
func IconFor(objectType string) string {
	if icon, ok := icons[objectType]; ok {
		return icon
	}
	return DefaultIcon
}

// Markers prepares the source set for display
func Markers(set []models.PollutionSource) []models.SourceMarker {
	markers := make([]models.SourceMarker, 0, len(set))
	for _, s := range set {
		markers = append(markers, models.SourceMarker{
			PollutionSource: s,
			Icon:            IconFor(s.ObjectType),
			Popup:           fmt.Sprintf("<b>%s</b>", html.EscapeString(s.Name)),
		})
	}
	return markers
}
