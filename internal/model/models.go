package model

import "time"

const (
	// RoleAdmin marks platform administrators.
	RoleAdmin = "admin"
	// RoleRestaurantOwner marks users who manage a single restaurant.
	RoleRestaurantOwner = "restaurant_owner"
)

// User is an authenticated account: a platform admin or a restaurant owner.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null;size:320" json:"email"`
	HashedPassword string    `gorm:"not null;size:100" json:"-"`
	Role           string    `gorm:"not null;size:40;default:restaurant_owner" json:"role"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	RestaurantID   *uint     `gorm:"index" json:"restaurant_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}

// Restaurant is a feedback tenant reachable by id or by its unique subdomain slug.
type Restaurant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;not null;size:200" json:"name"`
	Subdomain string    `gorm:"uniqueIndex;not null;size:100" json:"subdomain"`
	LogoURL   string    `gorm:"size:500" json:"logo,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Feedback is a three-category rating submitted from the high-rating branch.
type Feedback struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null;size:200" json:"name"`
	Email            string    `gorm:"not null;size:320" json:"email"`
	Phone            string    `gorm:"not null;size:40" json:"phone"`
	FoodRating       int       `gorm:"not null" json:"food_rating"`
	ServiceRating    int       `gorm:"not null" json:"service_rating"`
	AtmosphereRating int       `gorm:"not null" json:"atmosphere_rating"`
	AverageRating    float64   `gorm:"not null" json:"average_rating"`
	Comment          string    `gorm:"type:text" json:"comment"`
	RestaurantID     uint      `gorm:"index;not null" json:"restaurant_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Complaint shares the Feedback shape; it differs only by originating from the
// low-rating branch of the flow.
type Complaint struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null;size:200" json:"name"`
	Email            string    `gorm:"not null;size:320" json:"email"`
	Phone            string    `gorm:"not null;size:40" json:"phone"`
	FoodRating       int       `gorm:"not null" json:"food_rating"`
	ServiceRating    int       `gorm:"not null" json:"service_rating"`
	AtmosphereRating int       `gorm:"not null" json:"atmosphere_rating"`
	AverageRating    float64   `gorm:"not null" json:"average_rating"`
	Comment          string    `gorm:"type:text;not null" json:"comment"`
	RestaurantID     uint      `gorm:"index;not null" json:"restaurant_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Platform is an external review destination configured per restaurant.
type Platform struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null;size:100" json:"name"`
	URL          string `gorm:"not null;size:500" json:"url"`
	RestaurantID uint   `gorm:"index;not null" json:"restaurant_id"`
}

// StarClick records a single star selection on the intake screen. Rows are the
// source of truth for click statistics.
type StarClick struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	StarValue    int       `gorm:"not null" json:"star_value"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// StarClickStat is the per-star counter refreshed from StarClick rows on read.
type StarClickStat struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	StarValue    int       `gorm:"not null" json:"star_value"`
	Count        int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

// WaitlistEntry is a write-once public signup.
type WaitlistEntry struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null;size:320" json:"email"`
	RestaurantName string    `gorm:"size:200" json:"restaurant_name"`
	ContactName    string    `gorm:"size:200" json:"contact_name"`
	Phone          string    `gorm:"size:40" json:"phone"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName keeps the waitlist table name aligned with the public API route.
func (WaitlistEntry) TableName() string {
	return "waitlist"
}
