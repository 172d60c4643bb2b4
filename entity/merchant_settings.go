package entity

// MerchantSettings holds merchant configuration resolved once for a store scope.
type MerchantSettings struct {
	Scope           string
	CommerceName    string
	CommerceNum     string
	Terminal        string
	TransactionType string
	PayMethods      string
	Locale          string
	Secret          string
}

// LogMessage is a log record persisted to the database.
type LogMessage struct {
	Time     string `json:"time" bson:"time"`
	Level    string `json:"level" bson:"level"`
	Category string `json:"category" bson:"category"`
	Text     string `json:"text" bson:"text"`
}

func (m *LogMessage) DataType() string {
	return "log_message"
}
