package model

// OtherField is the field selection that asks for a new field name.
const OtherField = "Other"

// RegisterParams contains registration form input.
type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Field       string
	NewField    string
	Certificate *Upload
}
