package models

import (
	"time"
)

// Cottage is one entry of the bookable cottage catalogue
type Cottage struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// CottageCatalogue is the fixed list offered by the reservation form
var CottageCatalogue = []Cottage{
	{ID: "pondside", Label: "Pondside Cottage", Price: 100},
	{ID: "largekubo", Label: "Large Kubo Cottage", Price: 120},
	{ID: "umbrella", Label: "Umbrella Cottage", Price: 80},
	{ID: "kubo", Label: "Kubo Cottage", Price: 90},
	{ID: "rock", Label: "Rock Cottage", Price: 70},
}

// FindCottage looks a cottage up by id
func FindCottage(id string) (Cottage, bool) {
	for _, c := range CottageCatalogue {
		if c.ID == id {
			return c, true
		}
	}
	return Cottage{}, false
}

// ReservationDraft is the staff-entered form submitted to create a reservation
type ReservationDraft struct {
	CottageID      string  `json:"cottageId" validate:"required"`
	CottageName    string  `json:"cottageName"`
	CottagePrice   float64 `json:"cottagePrice"`
	GuestName      string  `json:"guestName" validate:"required"`
	Email          string  `json:"email" validate:"required"`
	ContactNumber  string  `json:"contactNumber" validate:"required"`
	NumberOfGuests int     `json:"numberOfGuest"`
	Address        string  `json:"address" validate:"required"`
	CheckIn        string  `json:"checkIn" validate:"required"`
	CheckOut       string  `json:"checkOut" validate:"required"`
	Payment        string  `json:"payment,omitempty"`
	ProofOfPayment *string `json:"proofOfPayment,omitempty"`
	TermsAgreed    bool    `json:"termsAgreed"`
}

// NewReservationDraft returns an empty form with the form's defaults
func NewReservationDraft() ReservationDraft {
	return ReservationDraft{NumberOfGuests: 1}
}

// ApplyCottage fills cottage name and price from the catalogue.
// Unknown ids clear the selection.
func (d *ReservationDraft) ApplyCottage(id string) {
	c, ok := FindCottage(id)
	if !ok {
		d.CottageID, d.CottageName, d.CottagePrice = "", "", 0
		return
	}
	d.CottageID, d.CottageName, d.CottagePrice = c.ID, c.Label, c.Price
}

// ApplyCheckIn sets check-in and defaults check-out to the following day
func (d *ReservationDraft) ApplyCheckIn(checkIn string) error {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return err
	}
	d.CheckIn = checkIn
	d.CheckOut = in.AddDate(0, 0, 1).Format(DateLayout)
	return nil
}
