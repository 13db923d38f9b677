package model

import "github.com/shopspring/decimal"

// Stats is the admin dashboard summary.
type Stats struct {
	Users            int             `json:"users"`
	Books            int             `json:"books"`
	CardApplications int             `json:"cardApplications"`
	PendingCards     int             `json:"pendingCards"`
	ApprovedCards    int             `json:"approvedCards"`
	Students         int             `json:"students"`
	Borrows          int             `json:"borrows"`
	ActiveBorrows    int             `json:"activeBorrows"`
	ReturnedBorrows  int             `json:"returnedBorrows"`
	Donations        int             `json:"donations"`
	DonationTotal    decimal.Decimal `json:"donationTotal"`
	UnseenMessages   int             `json:"unseenMessages"`
}
