package entity

// Profile represents a user's public profile. Owned by the account system;
// read-only here, referenced for display hydration and identity checks.
type Profile struct {
	Id        string `json:"id" gorm:"column:id;primaryKey"`
	FullName  string `json:"full_name" gorm:"column:full_name"`
	AvatarUrl string `json:"avatar_url" gorm:"column:avatar_url"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}
