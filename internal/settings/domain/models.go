package domain

// Setting is a process-wide persisted key/value pair.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}

// Well-known keys.
const (
	KeyBusinessName = "businessName"
	KeyCurrency     = "currency"
	KeyLanguage     = "language"
)
