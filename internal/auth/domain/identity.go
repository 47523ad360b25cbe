package domain

// Identity is the signed-in shopper. The zero value means anonymous.
type Identity struct {
	UserID string
	Name   string
}

func (i Identity) IsZero() bool {
	return i.UserID == ""
}
