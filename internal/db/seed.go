package db

import (
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedDemoData resets the database and populates it with demo gyms,
// users and exercise tags so a fresh install has content to swipe on.
//
// Behavior:
//  1. Clears likes, seens, relations, messages, exercise_tags, users, gyms.
//  2. Inserts 3 gyms and 5 users with up to 3 exercise tags each.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedDemoData(db *gorm.DB) error {
	// --- Fresh start ---
	for _, table := range []string{"messages", "relations", "likes", "seens", "exercise_tags", "users", "gyms"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences (only for MySQL)
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"messages", "relations", "likes", "seens", "exercise_tags", "users", "gyms"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence")
	}

	log.Println("Cleared existing data")

	// --- Gyms ---
	gyms := []Gym{
		{ID: 1, Name: "FitPark Central", Location: "Paris 1er"},
		{ID: 2, Name: "IronHouse", Location: "Lyon 3e"},
		{ID: 3, Name: "Muscle Factory", Location: "Marseille 6e"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&gyms).Error; err != nil {
		return fmt.Errorf("failed to seed gyms: %w", err)
	}

	// --- Users ---
	users := []User{
		{ID: 1, Name: "Alex", FamilyName: "Dupont", Age: 24, Type: TypeMassGain,
			Description: strPtr("Looking for a gym buddy to push through heavy sets!"), GymID: idPtr(1)},
		{ID: 2, Name: "Marie", FamilyName: "Leroy", Age: 22, Type: TypeCardio,
			Description: strPtr("Running lover, training for a marathon"), GymID: idPtr(1)},
		{ID: 3, Name: "Thomas", FamilyName: "Bernard", Age: 28, Type: TypeStrength,
			Description: strPtr("Powerlifter, always down for PR attempts."), GymID: idPtr(2)},
		{ID: 4, Name: "Camille", FamilyName: "Moreau", Age: 25, Type: TypeMassLoss,
			Description: strPtr("On a cut right now, need accountability partner."), GymID: idPtr(1)},
		{ID: 5, Name: "Lucas", FamilyName: "Petit", Age: 30, Type: TypeFlexibility,
			Description: strPtr("Yoga + calisthenics. Let's stretch and grow!"), GymID: idPtr(3)},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Printf("Seeded %d users.", len(users))

	// --- Exercise tags (max 3 per user) ---
	tags := []ExerciseTag{
		{UserID: 1, Label: "Bench"}, {UserID: 1, Label: "Squat"}, {UserID: 1, Label: "Deadlift"},
		{UserID: 2, Label: "Running"}, {UserID: 2, Label: "Cycling"}, {UserID: 2, Label: "HIIT"},
		{UserID: 3, Label: "Squat"}, {UserID: 3, Label: "Deadlift"}, {UserID: 3, Label: "OHP"},
		{UserID: 4, Label: "Push"}, {UserID: 4, Label: "Pull"}, {UserID: 4, Label: "Legs"},
		{UserID: 5, Label: "Yoga"}, {UserID: 5, Label: "Handstand"}, {UserID: 5, Label: "Rings"},
	}
	if err := db.Create(&tags).Error; err != nil {
		return fmt.Errorf("failed to seed exercise tags: %w", err)
	}

	return nil
}

func strPtr(s string) *string { return &s }
func idPtr(id uint64) *uint64 { return &id }
