package entity

// Listing represents a rental listing. Owned by the listings subsystem;
// read-only here, referenced by the conversation directory for existence and
// host-ownership checks.
type Listing struct {
	Id        string `json:"id" gorm:"column:id;primaryKey"`
	HostId    string `json:"host_id" gorm:"column:host_id;index"`
	Title     string `json:"title" gorm:"column:title"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for Listing
func (Listing) TableName() string {
	return "listings"
}
