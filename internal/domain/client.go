package domain

import "time"

// Client is a registered customer of the shop. Referenced by financings via
// ClientID; edits go through explicit updates only.
type Client struct {
	ID         string
	FullName   string
	NationalID string
	Phone      string
	Address    string
	PhotoURL   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewClient(fullName, nationalID, phone, address, photoURL string) (*Client, error) {
	if fullName == "" {
		return nil, NewValidationError("full_name", "full name is required")
	}
	if nationalID == "" {
		return nil, NewValidationError("national_id", "national id is required")
	}

	now := time.Now()
	return &Client{
		FullName:   fullName,
		NationalID: nationalID,
		Phone:      phone,
		Address:    address,
		PhotoURL:   photoURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
