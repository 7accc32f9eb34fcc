package models

import "time"

// Cat is a cat profile owned by a platform user.
//
// Age is derived from BirthDate at read time and is never stored; every
// fetch recomputes it from the server's birth_date.
type Cat struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	BirthDate     *time.Time     `json:"birth_date,omitempty"`
	Breed         string         `json:"breed,omitempty"`
	Photos        []string       `json:"photos"`
	OwnerID       string         `json:"owner_id"`
	GrowthRecords []GrowthRecord `json:"growth_records,omitempty"`
}

// Age returns the cat's age in full years as of now, or 0 if the birth
// date is unknown.
func (c Cat) Age() int {
	return c.AgeAt(time.Now())
}

// AgeAt returns the cat's age in full years as of the given moment.
func (c Cat) AgeAt(now time.Time) int {
	if c.BirthDate == nil || now.Before(*c.BirthDate) {
		return 0
	}
	b := *c.BirthDate
	years := now.Year() - b.Year()
	// Not yet reached this year's birthday.
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		years--
	}
	return years
}

// GrowthRecord is one measurement in a cat's growth history. Records belong
// to exactly one cat and are never fetched on their own.
type GrowthRecord struct {
	ID     string   `json:"id"`
	Date   string   `json:"date"`
	Weight float64  `json:"weight,omitempty"`
	Height float64  `json:"height,omitempty"`
	Notes  string   `json:"notes,omitempty"`
	Photos []string `json:"photos"`
}

// CatCreate is the payload for creating a cat profile.
type CatCreate struct {
	Name      string   `json:"name"`
	Breed     string   `json:"breed,omitempty"`
	BirthDate string   `json:"birth_date,omitempty"`
	Photos    []string `json:"photos"`
	OwnerID   string   `json:"owner_id"`
}

// CatUpdate is the payload for a partial profile update. Nil fields are
// omitted from the request.
type CatUpdate struct {
	Name      *string  `json:"name,omitempty"`
	Breed     *string  `json:"breed,omitempty"`
	BirthDate *string  `json:"birth_date,omitempty"`
	Photos    []string `json:"photos,omitempty"`
}
