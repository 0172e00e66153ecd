// Package severity defines the canonical severity taxonomy used to rank,
// count and score findings.
package severity

import (
	"math"
	"strings"
)

// Level is a canonical severity, or Unranked for anything outside the
// canonical set.
type Level int

const (
	Critical Level = iota
	High
	Medium
	Low
	Info
	// Unranked covers every severity string that is not one of the five
	// canonical values, including the empty string.
	Unranked
)

// Order lists the canonical levels from most to least severe.
// The index of a level is its rank.
var Order = [...]Level{Critical, High, Medium, Low, Info}

// weights is the point table for a weighted risk model. Overall risk is
// threshold based and does not read it.
var weights = [...]int{
	Critical: 100,
	High:     70,
	Medium:   40,
	Low:      15,
	Info:     5,
}

var names = [...]string{
	Critical: "Critical",
	High:     "High",
	Medium:   "Medium",
	Low:      "Low",
	Info:     "Info",
}

var byName = map[string]Level{
	"Critical": Critical,
	"High":     High,
	"Medium":   Medium,
	"Low":      Low,
	"Info":     Info,
}

// Parse trims s and matches it case-sensitively against the canonical
// names. Anything else is Unranked.
func Parse(s string) Level {
	if level, ok := byName[strings.TrimSpace(s)]; ok {
		return level
	}
	return Unranked
}

// IsRanked reports whether l is one of the five canonical levels.
func (l Level) IsRanked() bool {
	return l >= Critical && l < Unranked
}

// Rank returns the sort precedence of l. Lower is more severe.
// Unranked sorts after every canonical level.
func (l Level) Rank() int {
	switch l {
	case Critical, High, Medium, Low, Info:
		return int(l)
	default:
		return math.MaxInt
	}
}

// Weight returns the point value of l, 0 when unranked.
func (l Level) Weight() int {
	if !l.IsRanked() {
		return 0
	}
	return weights[l]
}

// String returns the canonical name, or "" for Unranked.
func (l Level) String() string {
	if !l.IsRanked() {
		return ""
	}
	return names[l]
}

// Definition is a static explanation of what a severity level means.
type Definition struct {
	Level Level
	Text  string
}

// Definitions holds the fixed severity definitions printed in report appendices.
var Definitions = [...]Definition{
	{Critical, "Severe risk with immediate impact; urgent remediation required."},
	{High, "Major risk; likely to be exploited; prioritize remediation."},
	{Medium, "Moderate risk; exploitable under certain conditions."},
	{Low, "Minor risk; limited impact; address in normal cycles."},
	{Info, "Informational; best practice or observation."},
}
