package domain

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName,omitempty"`
	Preferences  []string  `json:"preferences,omitempty"`
	Location     string    `json:"location,omitempty"`
	Point        *GeoPoint `json:"point,omitempty"`
}

// UserPreference links a user to a favourite category and budget tier.
type UserPreference struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	CategoryID  int64       `json:"categoryId"`
	BudgetLevel BudgetLevel `json:"budgetLevel"`
}
