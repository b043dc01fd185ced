package domain

// User is a switchable profile that owns a timeline of schedule events.
// Users are seeded once at startup and never mutated.
type User struct {
	ID         string
	Name       string
	Role       string
	Avatar     string
	Bio        string
	ThemeColor string
}

// Context renders the profile summary handed to the schedule generator.
func (u User) Context() string {
	return "Role: " + u.Role + ", Bio: " + u.Bio
}
