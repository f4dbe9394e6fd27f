package model

// User is the authenticated identity referenced by players and room hosts.
type User struct {
	ID       string `json:"id" bson:"_id"`
	Email    string `json:"email" bson:"email"`
	FullName string `json:"full_name" bson:"full_name"`
	Nickname string `json:"nickname" bson:"nickname"`
}

// UserInDB extends User with the stored password hash. Never serialized
// to clients.
type UserInDB struct {
	User         `bson:",inline"`
	PasswordHash string `json:"-" bson:"hashed_password"`
}

// RegisterRequest is the body for POST /register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Nickname string `json:"nickname"`
}

// ProfileUpdate is the body for PUT /profile; empty fields are unchanged
type ProfileUpdate struct {
	FullName string `json:"full_name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Password string `json:"password,omitempty"`
}
