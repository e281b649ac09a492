package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"geoatlas/config"
	"geoatlas/pkg/helpers"
)

// Seeds a demo user plus a small India/Gujarat sample tree so the API has
// something to serve right after the first migration.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@geoatlas.dev"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, "Demo User").Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	var countryID string
	err = db.QueryRow(`
		INSERT INTO countries (id, name, country_code, curr_symbol, phone_code, my_user)
		VALUES (gen_random_uuid(), 'India', 'IND', '₹', '91', $1)
		ON CONFLICT (country_code) DO UPDATE SET my_user = EXCLUDED.my_user
		RETURNING id
	`, userID).Scan(&countryID)
	if err != nil {
		log.Fatalf("failed to seed country: %v", err)
	}

	var stateID string
	err = db.QueryRow(`
		INSERT INTO states (id, name, state_code, gst_code, country_id)
		VALUES (gen_random_uuid(), 'Gujarat', 'GJ', '24', $1)
		ON CONFLICT (state_code) DO UPDATE SET country_id = EXCLUDED.country_id
		RETURNING id
	`, countryID).Scan(&stateID)
	if err != nil {
		log.Fatalf("failed to seed state: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO cities (id, name, city_code, phone_code, population, avg_age, num_of_adults_males, num_of_adults_females, state_id)
		VALUES
			(gen_random_uuid(), 'Ahmedabad', 'AMD', '079', 8000000, 29.5, 2500000, 2400000, $1),
			(gen_random_uuid(), 'Surat', 'STV', '0261', 6500000, 27.8, 2100000, 1900000, $1)
		ON CONFLICT (city_code) DO NOTHING
	`, stateID)
	if err != nil {
		log.Fatalf("failed to seed cities: %v", err)
	}

	fmt.Println("seeded sample tree: India > Gujarat > {Ahmedabad, Surat}")
}
