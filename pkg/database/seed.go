package database

import (
	"github.com/gestio-app/gestio/internal/constants"
	"github.com/gestio-app/gestio/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultAdmin defines the default admin user credentials
type DefaultAdmin struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Tel       string
}

// GetDefaultAdmin returns the default admin user
func GetDefaultAdmin() DefaultAdmin {
	return DefaultAdmin{
		FirstName: "Admin",
		LastName:  "Gestio",
		Email:     "admin@gestio.local",
		Password:  "Admin@Gestio123", // Change this in production!
		Tel:       "+33102030405",
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedUsers(db)
}

// SeedUsers creates the default admin user if not exists. The seeded admin
// is created verified so the first operator can log in without a mail round
// trip.
func SeedUsers(db *gorm.DB) error {
	admin := GetDefaultAdmin()

	var existingUser model.User
	result := db.Where("email = ?", admin.Email).First(&existingUser)

	if result.Error == nil {
		// User already exists, skip seeding
		return nil
	}

	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tel := admin.Tel
	user := model.User{
		FirstName:       admin.FirstName,
		LastName:        admin.LastName,
		Email:           admin.Email,
		Password:        string(hashedPassword),
		Tel:             &tel,
		Role:            string(constants.RoleAdmin),
		IsEmailVerified: true,
	}

	return db.Create(&user).Error
}
