package model

import (
	"time"

	"github.com/maabuz/ishbot/core/telegram/format"
)

// Locale codes the bot supports. LocaleDefault doubles as the i18n fallback.
const (
	LocaleUzbek   = "uz"
	LocaleEnglish = "en"
	LocaleRussian = "ru"

	LocaleDefault = LocaleUzbek
)

// Locales lists supported locale codes in keyboard order.
var Locales = []string{LocaleUzbek, LocaleEnglish, LocaleRussian}

// KnownLocale reports whether code is one of the supported locales.
func KnownLocale(code string) bool {
	for _, l := range Locales {
		if l == code {
			return true
		}
	}
	return false
}

// UserProfile is the durable per-user record owned by the profile store.
// Cart and Disliked keep insertion order and contain no duplicates; the store
// key is TelegramID, ID is a creation-order sequence number.
type UserProfile struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"tg_id"`
	FirstName  *string   `json:"first_name"`
	LastName   *string   `json:"last_name"`
	Phone      *string   `json:"phone"`
	Registered bool      `json:"registered"`
	CreatedAt  time.Time `json:"created_at"`
	Cart       []int64   `json:"cart"`
	Disliked   []int64   `json:"disliked"`
	Lang       string    `json:"lang,omitempty"`
}

// FullName joins first and last name, tolerating unset parts mid-registration.
func (p *UserProfile) FullName() string {
	first := format.DerefString(p.FirstName, "")
	last := format.DerefString(p.LastName, "")
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

// InCart reports whether jobID is already in the cart.
func (p *UserProfile) InCart(jobID int64) bool {
	return containsID(p.Cart, jobID)
}

// HasDisliked reports whether jobID was marked as not interesting.
func (p *UserProfile) HasDisliked(jobID int64) bool {
	return containsID(p.Disliked, jobID)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
