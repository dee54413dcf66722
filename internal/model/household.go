// Package model defines households, municipalities and simulation results.
package model

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// RemoteWork is the work-location sentinel for households that work remotely.
const RemoteWork = "remote"

// TriState is a yes/no/maybe answer.
type TriState string

const (
	Yes   TriState = "yes"
	No    TriState = "no"
	Maybe TriState = "maybe"
)

// HousingType is the kind of dwelling a household lives in or looks for.
type HousingType string

const (
	HousingApartment HousingType = "apartment"
	HousingHouse     HousingType = "house"
	HousingTownhouse HousingType = "townhouse"
)

// IsOwned reports whether the housing type is financed with a mortgage rather than rented.
func (h HousingType) IsOwned() bool {
	return h == HousingHouse || h == HousingTownhouse
}

// AgeBracket is one of the five children's age brackets.
type AgeBracket string

const (
	Age0To2   AgeBracket = "0-2"
	Age3To5   AgeBracket = "3-5"
	Age6To12  AgeBracket = "6-12"
	Age13To15 AgeBracket = "13-15"
	Age16To18 AgeBracket = "16-18"
)

// WorkProfile describes where and how the household works.
type WorkProfile struct {
	Profession            string   `json:"profession" yaml:"profession"`
	PartnerProfession     string   `json:"partner_profession,omitempty" yaml:"partner_profession"`
	WorkLocation          string   `json:"work_location" yaml:"work_location" validate:"required"`
	CurrentCommuteMinutes int      `json:"current_commute_minutes" yaml:"current_commute_minutes" validate:"gte=0"`
	JobChangeOpenness     TriState `json:"job_change_openness" yaml:"job_change_openness" validate:"omitempty,oneof=yes no maybe"`
}

// IsRemote reports whether the household works remotely.
func (w WorkProfile) IsRemote() bool {
	return strings.EqualFold(w.WorkLocation, RemoteWork)
}

// FamilyProfile describes household composition.
type FamilyProfile struct {
	Adults           int          `json:"adults" yaml:"adults" validate:"min=1,max=2"`
	Children         []AgeBracket `json:"children,omitempty" yaml:"children" validate:"dive,oneof=0-2 3-5 6-12 13-15 16-18"`
	PlanningChildren TriState     `json:"planning_children" yaml:"planning_children" validate:"omitempty,oneof=yes no maybe"`
}

// WantsFamilyInfo reports whether school and family data is relevant to the household.
func (f FamilyProfile) WantsFamilyInfo() bool {
	return len(f.Children) > 0 || f.PlanningChildren == Yes || f.PlanningChildren == Maybe
}

// HousingProfile describes the current home.
type HousingProfile struct {
	CurrentLocation string      `json:"current_location" yaml:"current_location" validate:"required"`
	Type            HousingType `json:"type" yaml:"type" validate:"oneof=apartment house townhouse"`
	MonthlyCost     float64     `json:"monthly_cost" yaml:"monthly_cost" validate:"gte=0"`
	SizeSqm         float64     `json:"size_sqm" yaml:"size_sqm" validate:"gt=0"`
	HasCar          bool        `json:"has_car" yaml:"has_car"`
}

// Priorities holds the seven 1-5 preference weights. All zero is tolerated and
// yields a neutral score.
type Priorities struct {
	Space      int    `json:"space" yaml:"space" validate:"min=0,max=5"`
	Cost       int    `json:"cost" yaml:"cost" validate:"min=0,max=5"`
	Schools    int    `json:"schools" yaml:"schools" validate:"min=0,max=5"`
	Nature     int    `json:"nature" yaml:"nature" validate:"min=0,max=5"`
	Commute    int    `json:"commute" yaml:"commute" validate:"min=0,max=5"`
	Calm       int    `json:"calm" yaml:"calm" validate:"min=0,max=5"`
	Culture    int    `json:"culture" yaml:"culture" validate:"min=0,max=5"`
	NearFamily string `json:"near_family,omitempty" yaml:"near_family"`
}

// Sum returns the total of the seven weights.
func (p Priorities) Sum() int {
	return p.Space + p.Cost + p.Schools + p.Nature + p.Commute + p.Calm + p.Culture
}

// Household is the full input profile for one simulation.
type Household struct {
	Work       WorkProfile    `json:"work" yaml:"work"`
	Family     FamilyProfile  `json:"family" yaml:"family"`
	Housing    HousingProfile `json:"housing" yaml:"housing"`
	Priorities Priorities     `json:"priorities" yaml:"priorities"`
}

// Hash returns the SHA-256 hex digest of the household's canonical JSON form.
// Two households with identical answers share a hash.
func (h Household) Hash() string {
	b, _ := json.Marshal(h) // plain values only; cannot fail
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%x", sum)
}

// LoadHousehold reads a household profile from a YAML or JSON file. The
// format is chosen by extension; anything other than .json is parsed as YAML.
func LoadHousehold(path string) (*Household, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read household %s", path)
	}

	var h Household
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &h)
	} else {
		err = yaml.Unmarshal(data, &h)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "model: parse household %s", path)
	}
	return &h, nil
}
