// ABOUTME: Discipline enum for apnea performances.
// ABOUTME: Each discipline declares its value grammar and whether higher or lower is better.
package models

import (
	"fmt"
	"strings"

	"github.com/harperreed/apnealog/internal/codec"
)

// Discipline identifies a fixed apnea discipline.
type Discipline string

const (
	DisciplineStatic         Discipline = "sta"
	DisciplineDynamic        Discipline = "dyn"
	DisciplineDynamicBiFins  Discipline = "dyn_bf"
	DisciplineDynamicNoFins  Discipline = "dnf"
	DisciplineDepth          Discipline = "depth"
	DisciplineSpeedEndurance Discipline = "sprint_16x25"
)

// Direction tells which end of the scale wins.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

func (d Direction) String() string {
	if d == LowerIsBetter {
		return "lower is better"
	}
	return "higher is better"
}

// DisciplineInfo describes how a discipline's values are entered and compared.
type DisciplineInfo struct {
	Label     string
	Kind      codec.Kind
	Direction Direction
}

// DisciplineInfos maps each discipline to its description.
var DisciplineInfos = map[Discipline]DisciplineInfo{
	DisciplineStatic:         {Label: "Static Apnea (STA)", Kind: codec.KindTime, Direction: HigherIsBetter},
	DisciplineDynamic:        {Label: "Dynamic Monofin (DYN)", Kind: codec.KindDistance, Direction: HigherIsBetter},
	DisciplineDynamicBiFins:  {Label: "Dynamic Bi-fins (DYN-BF)", Kind: codec.KindDistance, Direction: HigherIsBetter},
	DisciplineDynamicNoFins:  {Label: "Dynamic No-fins (DNF)", Kind: codec.KindDistance, Direction: HigherIsBetter},
	DisciplineDepth:          {Label: "Depth (CWT)", Kind: codec.KindDistance, Direction: HigherIsBetter},
	DisciplineSpeedEndurance: {Label: "16x25m Speed Endurance", Kind: codec.KindTime, Direction: LowerIsBetter},
}

// AllDisciplines lists disciplines in display order.
var AllDisciplines = []Discipline{
	DisciplineStatic,
	DisciplineDynamic,
	DisciplineDynamicBiFins,
	DisciplineDynamicNoFins,
	DisciplineDepth,
	DisciplineSpeedEndurance,
}

// IsValidDiscipline checks if a string is a discipline code.
func IsValidDiscipline(s string) bool {
	_, ok := DisciplineInfos[Discipline(s)]
	return ok
}

// ParseDiscipline accepts a discipline code or its label, case-insensitively.
func ParseDiscipline(s string) (Discipline, error) {
	trimmed := strings.TrimSpace(s)
	for _, d := range AllDisciplines {
		if strings.EqualFold(trimmed, string(d)) || strings.EqualFold(trimmed, DisciplineInfos[d].Label) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown discipline: %q", s)
}

// Label returns the human-readable discipline name.
func (d Discipline) Label() string {
	if info, ok := DisciplineInfos[d]; ok {
		return info.Label
	}
	return string(d)
}

// Kind returns the value grammar of the discipline. Unknown disciplines are
// treated as distance.
func (d Discipline) Kind() codec.Kind {
	if info, ok := DisciplineInfos[d]; ok {
		return info.Kind
	}
	return codec.KindDistance
}

// Direction returns the comparator direction of the discipline.
func (d Discipline) Direction() Direction {
	return DisciplineInfos[d].Direction
}

// Better reports whether a is strictly better than b in this discipline.
func (d Discipline) Better(a, b float64) bool {
	if d.Direction() == LowerIsBetter {
		return a < b
	}
	return a > b
}
