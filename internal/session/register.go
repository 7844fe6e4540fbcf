package session

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Registration carries the fields a new user submits. Validate checks
// every field and aggregates the failures so the caller can surface
// them all at once.
type Registration struct {
	Username  string
	Email     string
	Phone     string
	IDType    string
	IDNumber  string
	BirthDate time.Time
	Password  string
}

const (
	IDTypeNacional  = "nacional"
	IDTypeDimex     = "dimex"
	IDTypePasaporte = "pasaporte"
)

var (
	usernameRe  = regexp.MustCompile(`^[a-z0-9._-]{4,20}$`)
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe     = regexp.MustCompile(`^\+506 \d{4}-\d{4}$`)
	nacionalRe  = regexp.MustCompile(`^\d{1}-\d{4}-\d{4}$`)
	dimexRe     = regexp.MustCompile(`^\d{11,12}$`)
	pasaporteRe = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)
)

// Validate returns every field problem found. now anchors the age
// check so tests stay deterministic.
func (r Registration) Validate(now time.Time) error {
	var errs []error
	if !usernameRe.MatchString(r.Username) {
		errs = append(errs, errors.New("usuario: 4-20 caracteres en minúscula, dígitos, punto, guion o guion bajo"))
	}
	if !emailRe.MatchString(r.Email) {
		errs = append(errs, errors.New("email: formato inválido"))
	}
	if !phoneRe.MatchString(r.Phone) {
		errs = append(errs, errors.New("teléfono: formato +506 0000-0000"))
	}
	if err := validateID(r.IDType, r.IDNumber); err != nil {
		errs = append(errs, err)
	}
	if r.BirthDate.IsZero() {
		errs = append(errs, errors.New("fecha de nacimiento: requerida"))
	} else if age(r.BirthDate, now) < 18 {
		errs = append(errs, errors.New("fecha de nacimiento: debe ser mayor de 18 años"))
	}
	if err := ValidatePassword(r.Password); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateID(idType, number string) error {
	switch strings.ToLower(strings.TrimSpace(idType)) {
	case IDTypeNacional:
		if !nacionalRe.MatchString(number) {
			return errors.New("identificación: formato nacional 0-0000-0000")
		}
	case IDTypeDimex:
		if !dimexRe.MatchString(number) {
			return errors.New("identificación: DIMEX de 11 o 12 dígitos")
		}
	case IDTypePasaporte:
		if !pasaporteRe.MatchString(number) {
			return errors.New("identificación: pasaporte de 6 a 12 caracteres alfanuméricos")
		}
	default:
		return errors.New("identificación: tipo desconocido")
	}
	return nil
}

// ValidatePassword enforces at least 8 characters with one lowercase,
// one uppercase and one digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("contraseña: mínimo 8 caracteres")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return errors.New("contraseña: debe incluir minúscula, mayúscula y dígito")
	}
	return nil
}

// age computes whole years between birth and now, calendar-correct
// around the birthday.
func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
