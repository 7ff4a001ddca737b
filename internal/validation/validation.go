// Package validation checks candidate players, assignments and statistics against business rules.
// Every check runs: a single input may collect several messages, even on one field.
// The functions take "now" explicitly and never touch storage.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MaxNameLength     = 200
	MaxPhotoURLLength = 500
	MaxAgeYears       = 100
	MaxJoinAheadYears = 1
	MinMinutesPlayed  = 0
	MaxMinutesPlayed  = 120
	MinJerseyNumber   = 1
	MaxJerseyNumber   = 99
)

// Field keys used in Result.Errors.
const (
	FieldUserID              = "UserId"
	FieldPlayerID            = "PlayerId"
	FieldName                = "Name"
	FieldDateOfBirth         = "DateOfBirth"
	FieldGender              = "Gender"
	FieldPhotoURL            = "PhotoUrl"
	FieldTeamPlayerID        = "TeamPlayerId"
	FieldTeamName            = "TeamName"
	FieldChampionshipName    = "ChampionshipName"
	FieldJoinedDate          = "JoinedDate"
	FieldLeftDate            = "LeftDate"
	FieldPlayerStatisticID   = "PlayerStatisticId"
	FieldGameDate            = "GameDate"
	FieldMinutesPlayed       = "MinutesPlayed"
	FieldJerseyNumber        = "JerseyNumber"
	FieldGoals               = "Goals"
	FieldAssists             = "Assists"
	FieldDuplicateAssignment = "DuplicateAssignment"
)

// Genders lists the accepted values in their canonical spelling.
var Genders = []string{"Male", "Female", "Non-binary", "Prefer not to say"}

// validator instances cache struct metadata and are safe for concurrent use.
var v = validator.New()

// Result maps a field name to its ordered messages. The zero value is valid.
type Result struct {
	Errors map[string][]string `json:"errors,omitempty"`
}

// IsValid reports whether no rule was violated.
func (r Result) IsValid() bool { return len(r.Errors) == 0 }

// Add appends a message to a field.
func (r *Result) Add(field, msg string) {
	if r.Errors == nil {
		r.Errors = make(map[string][]string)
	}
	r.Errors[field] = append(r.Errors[field], msg)
}

// Has reports whether field carries at least one message.
func (r Result) Has(field string) bool { return len(r.Errors[field]) > 0 }

// CanonicalGender returns the canonical spelling of g and whether it is accepted.
func CanonicalGender(g string) (string, bool) {
	g = strings.TrimSpace(g)
	for _, opt := range Genders {
		if strings.EqualFold(g, opt) {
			return opt, true
		}
	}
	return "", false
}

func checkRequiredText(r *Result, field, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		r.Add(field, label+" is required.")
		return
	}
	if utf8.RuneCountInString(value) > MaxNameLength {
		r.Add(field, fmt.Sprintf("%s must not exceed %d characters.", label, MaxNameLength))
	}
}

func checkPositiveID(r *Result, field, label string, id int64) {
	if id <= 0 {
		r.Add(field, label+" must be greater than 0.")
	}
}

func checkOptionalGender(r *Result, gender *string) {
	if gender == nil || strings.TrimSpace(*gender) == "" {
		return
	}
	if _, ok := CanonicalGender(*gender); !ok {
		r.Add(FieldGender, "Gender must be one of: "+strings.Join(Genders, ", ")+".")
	}
}

func checkOptionalPhotoURL(r *Result, photo *string) {
	if photo == nil {
		return
	}
	u := strings.TrimSpace(*photo)
	if u == "" {
		return
	}
	if utf8.RuneCountInString(u) > MaxPhotoURLLength {
		r.Add(FieldPhotoURL, fmt.Sprintf("Photo URL must not exceed %d characters.", MaxPhotoURLLength))
	}
	if err := v.Var(u, "http_url"); err != nil {
		r.Add(FieldPhotoURL, "Photo URL must be a valid absolute http or https URL.")
	}
}

func checkDateOfBirth(r *Result, dob, now time.Time) {
	if dob.IsZero() {
		r.Add(FieldDateOfBirth, "Date of birth is required.")
		return
	}
	dob = dob.UTC()
	if !dob.Before(now) {
		r.Add(FieldDateOfBirth, "Date of birth must be in the past.")
	}
	if dob.Before(now.AddDate(-MaxAgeYears, 0, 0)) {
		r.Add(FieldDateOfBirth, fmt.Sprintf("Date of birth cannot be more than %d years ago.", MaxAgeYears))
	}
}

func checkJoinedDate(r *Result, joined, now time.Time) {
	if joined.IsZero() {
		r.Add(FieldJoinedDate, "Joined date is required.")
		return
	}
	joined = joined.UTC()
	if joined.After(now.AddDate(MaxJoinAheadYears, 0, 0)) {
		r.Add(FieldJoinedDate, fmt.Sprintf("Joined date cannot be more than %d year in the future.", MaxJoinAheadYears))
	}
	if joined.Before(now.AddDate(-MaxAgeYears, 0, 0)) {
		r.Add(FieldJoinedDate, fmt.Sprintf("Joined date cannot be more than %d years in the past.", MaxAgeYears))
	}
}

// checkLeftDate is the cross-field rule; it runs even if the joined date already failed.
func checkLeftDate(r *Result, left *time.Time, joined, now time.Time) {
	if left == nil {
		return
	}
	l := left.UTC()
	if !l.After(joined.UTC()) {
		r.Add(FieldLeftDate, "Left date must be after the joined date.")
	}
	if l.After(now) {
		r.Add(FieldLeftDate, "Left date cannot be in the future.")
	}
}

func checkStatNumbers(r *Result, gameDate time.Time, minutes, jersey, goals, assists int, now time.Time) {
	if gameDate.IsZero() {
		r.Add(FieldGameDate, "Game date is required.")
	} else if gameDate.UTC().After(now) {
		r.Add(FieldGameDate, "Game date cannot be in the future.")
	}
	if minutes < MinMinutesPlayed || minutes > MaxMinutesPlayed {
		r.Add(FieldMinutesPlayed, fmt.Sprintf("Minutes played must be between %d and %d.", MinMinutesPlayed, MaxMinutesPlayed))
	}
	if jersey < MinJerseyNumber || jersey > MaxJerseyNumber {
		r.Add(FieldJerseyNumber, fmt.Sprintf("Jersey number must be between %d and %d.", MinJerseyNumber, MaxJerseyNumber))
	}
	if goals < 0 {
		r.Add(FieldGoals, "Goals cannot be negative.")
	}
	if assists < 0 {
		r.Add(FieldAssists, "Assists cannot be negative.")
	}
}
