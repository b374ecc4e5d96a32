package sources

import "github.com/jengzang/ecorisk-backend-go/internal/models"

// Demo returns the built-in Saint Petersburg source set used until a user uploads their own
func Demo() []models.PollutionSource {
	return []models.PollutionSource{
		{Name: `Химический завод "Нева"`, Lat: 59.985, Lon: 30.300, PollutionLevel: 9.5, DangerLevel: "Критический", ObjectType: "Химический завод"},
		{Name: "Мусоросжигательный завод №4", Lat: 59.870, Lon: 30.480, PollutionLevel: 9.0, DangerLevel: "Критический", ObjectType: "Мусоросжигательный завод"},
		{Name: "ТЭЦ-2", Lat: 59.935, Lon: 30.350, PollutionLevel: 8.5, DangerLevel: "Высокий", ObjectType: "Теплоэлектроцентраль"},
		{Name: `Полигон ТБО "Северный"`, Lat: 59.920, Lon: 30.230, PollutionLevel: 8.5, DangerLevel: "Высокий", ObjectType: "Полигон ТБО"},
		{Name: `Нефтебаза "Восточная"`, Lat: 59.910, Lon: 30.200, PollutionLevel: 8.0, DangerLevel: "Высокий", ObjectType: "Нефтебаза"},
		{Name: "Автомагистраль КАД", Lat: 59.900, Lon: 30.400, PollutionLevel: 7.5, DangerLevel: "Высокий", ObjectType: "Автомагистраль"},
		{Name: `Порт "Большой порт Санкт-Петербург"`, Lat: 59.880, Lon: 30.220, PollutionLevel: 7.0, DangerLevel: "Высокий", ObjectType: "Порт"},
		{Name: "Аэропорт Пулково", Lat: 59.800, Lon: 30.260, PollutionLevel: 7.5, DangerLevel: "Высокий", ObjectType: "Аэропорт"},
	}
}
