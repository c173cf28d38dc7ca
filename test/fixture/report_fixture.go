package fixture

import (
	"bytes"

	"github.com/ugorji/go/codec"

	"github.com/geop/globe/report"
)

// This is an example world: five states, and relations between them, two of
// which reference states that are not loaded.
var (
	USA = report.State{ID: "USA", Name: "United States", Lon: -98.5, Lat: 39.8}
	RUS = report.State{ID: "RUS", Name: "Russia", Lon: 105.3, Lat: 61.5}
	UKR = report.State{ID: "UKR", Name: "Ukraine", Lon: 31.2, Lat: 48.4}
	CHN = report.State{ID: "CHN", Name: "China", Lon: 104.2, Lat: 35.9}
	FRA = report.State{ID: "FRA", Name: "France", Lon: 2.2, Lat: 46.2}

	States = report.States{USA, RUS, UKR, CHN, FRA}

	Relations = report.Relations{
		{Source: "RUS", Target: "UKR", EventType: report.Attack, Weight: report.Weight(42)},
		{Source: "UKR", Target: "RUS", EventType: report.Attack, Weight: report.Weight(17)},
		{Source: "RUS", Target: "UKR", EventType: report.Threat, Weight: report.Weight(9)},
		{Source: "USA", Target: "CHN", EventType: report.DiplomaticAction, Weight: report.Weight(5)},
		{Source: "CHN", Target: "USA", EventType: report.CyberOperation, Weight: report.Weight(3)},
		{Source: "FRA", Target: "RUS", EventType: report.CoerciveAction},
		{Source: "USA", Target: "RUS", EventType: "SANCTION", Weight: report.Weight(2)},
		{Source: "FRA", Target: "FRA", EventType: report.Protest, Weight: report.Weight(11)},
		{Source: "ISR", Target: "IRN", EventType: report.Attack, Weight: report.Weight(8)},
		{Source: "USA", Target: "PRK", EventType: report.Threat, Weight: report.Weight(1)},
	}

	// ResolvableRelations is how many of Relations have both ends in States.
	ResolvableRelations = 8
)

// JSON encodes v as the backend would serve it.
func JSON(v interface{}) []byte {
	var buf bytes.Buffer
	if err := codec.NewEncoder(&buf, &codec.JsonHandle{}).Encode(v); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
