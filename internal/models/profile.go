package models

import "github.com/julianstephens/smokefree/internal/constants"

// Profile holds the smoking habits used for savings estimates.
type Profile struct {
	CigarettesPerDay int     `json:"cigarettesPerDay"`
	PricePerPack     float64 `json:"pricePerPack"`
}

func DefaultProfile() Profile {
	return Profile{
		CigarettesPerDay: constants.DefaultCigarettesPerDay,
		PricePerPack:     constants.DefaultPricePerPack,
	}
}

// Reminder is a notification delivered every day at Hour:Minute local time.
type Reminder struct {
	Title  string `toml:"title" json:"title"`
	Body   string `toml:"body" json:"body"`
	Hour   int    `toml:"hour" json:"hour"`
	Minute int    `toml:"minute" json:"minute"`
}
