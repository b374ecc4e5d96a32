package sources

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `name,lat,lon,pollution_level,danger_level,object_type
"Химический завод ""Нева""",59.985,30.300,9.5,Критический,Химический завод
ТЭЦ-2,59.935,30.350,8.5,Высокий,Теплоэлектроцентраль
`

func TestParseCSV_Valid(t *testing.T) {
	set, err := ParseCSV(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, set, 2)

	assert.Equal(t, `Химический завод "Нева"`, set[0].Name)
	assert.Equal(t, 59.985, set[0].Lat)
	assert.Equal(t, 30.300, set[0].Lon)
	assert.Equal(t, 9.5, set[0].PollutionLevel)
	assert.Equal(t, "Критический", set[0].DangerLevel)
	assert.Equal(t, "Химический завод", set[0].ObjectType)
}

func TestParseCSV_AliasesAndColumnOrder(t *testing.T) {
	in := "\ufeffobjectType,Latitude,lng,pollutionLevel,dangerLevel,Name\n" +
		"Порт,59.88,30.22,\"7,0\",Высокий,Port\n" +
		"\n"

	set, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "Port", set[0].Name)
	assert.Equal(t, "Порт", set[0].ObjectType)
	assert.Equal(t, 7.0, set[0].PollutionLevel)
	assert.Equal(t, 30.22, set[0].Lon)
}

func TestParseCSV_RejectsWholeSet(t *testing.T) {
	header := "name,lat,lon,pollution_level,danger_level,object_type\n"
	good := "A,59.9,30.3,5,Высокий,Порт\n"

	cases := []struct {
		name string
		in   string
		msg  string
	}{
		{"empty file", "", "empty file"},
		{"header only", header, "no sources"},
		{"missing column", "name,lat,lon,danger_level,object_type\nA,1,2,x,y\n", "pollution_level"},
		{"duplicate column", "name,lat,latitude,lon,pollution_level,danger_level,object_type\n", "duplicate"},
		{"non numeric lat", header + good + "B,north,30.3,5,Высокий,Порт\n", "line 3"},
		{"lat out of range", header + good + "B,95,30.3,5,Высокий,Порт\n", "lat 95"},
		{"lon out of range", header + "B,59,181,5,Высокий,Порт\n", "lon 181"},
		{"negative level", header + "B,59,30,-1,Высокий,Порт\n", "negative"},
		{"NaN level", header + "B,59,30,NaN,Высокий,Порт\n", "not finite"},
		{"empty name", header + " ,59,30,1,Высокий,Порт\n", "empty name"},
		{"empty type", header + "B,59,30,1,Высокий,\n", "empty object_type"},
		{"short row", header + "B,59,30\n", "line 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := ParseCSV(strings.NewReader(tc.in))
			require.ErrorIs(t, err, ErrInvalidSourceData)
			assert.Contains(t, err.Error(), tc.msg)
			assert.Nil(t, set)
		})
	}
}
