package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huytran-vn/picklepro/internal/database"
	"github.com/huytran-vn/picklepro/internal/store"
	"github.com/joho/godotenv"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "picklepro.db",
		"MIGRATIONS_DIR":    "./migrations",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	st := store.New(db)

	organizer := mustUser(st, store.NewUser{
		Username: "organizer",
		Password: "organizer123",
		Email:    "organizer@picklepro.local",
		FullName: "Default Organizer",
		Role:     store.RoleOrganizer,
	})

	club, err := st.CreateClub(store.NewClub{
		Name:     "Riverside Pickleball Club",
		Location: strPtr("Riverside Park"),
		OwnerID:  &organizer.ID,
	})
	if err != nil {
		log.Fatalf("Failed to seed club: %s", err)
	}

	athleteNames := []struct {
		username, fullName string
		skill              float64
	}{
		{"ana", "Ana Martins", 4.0},
		{"bruno", "Bruno Costa", 3.5},
		{"carla", "Carla Dias", 4.5},
		{"diego", "Diego Nunes", 3.0},
	}
	athletes := make([]*store.User, 0, len(athleteNames))
	for _, a := range athleteNames {
		skill := a.skill
		athletes = append(athletes, mustUser(st, store.NewUser{
			Username:   a.username,
			Password:   a.username + "123",
			Email:      a.username + "@picklepro.local",
			FullName:   a.fullName,
			Role:       store.RoleAthlete,
			ClubID:     &club.ID,
			SkillLevel: &skill,
		}))
	}

	start := time.Now().AddDate(0, 0, 7)
	tournament, err := st.CreateTournament(store.NewTournament{
		Name:                  "Riverside Open",
		Location:              "Riverside Park",
		StartDate:             start,
		EndDate:               start.AddDate(0, 0, 2),
		RegistrationStartDate: time.Now(),
		RegistrationEndDate:   start,
		Categories:            []string{"singles", "doubles"},
		Status:                store.TournamentActive,
		OrganizerID:           organizer.ID,
	})
	if err != nil {
		log.Fatalf("Failed to seed tournament: %s", err)
	}

	for _, athlete := range athletes {
		if _, err := st.CreateRegistration(store.NewRegistration{
			TournamentID: tournament.ID,
			AthleteID:    athlete.ID,
			Category:     "singles",
			Status:       store.RegistrationPending,
			SkillLevel:   derefFloat(athlete.SkillLevel),
		}); err != nil {
			log.Fatalf("Failed to seed registration: %s", err)
		}
	}

	scheduled := start.Add(9 * time.Hour)
	for i := 0; i+1 < len(athletes); i += 2 {
		if _, err := st.CreateMatch(store.NewMatch{
			TournamentID:  tournament.ID,
			Category:      "singles",
			Round:         "round of 16",
			Player1ID:     athletes[i].ID,
			Player2ID:     &athletes[i+1].ID,
			ScheduledTime: &scheduled,
			Status:        store.MatchScheduled,
		}); err != nil {
			log.Fatalf("Failed to seed match: %s", err)
		}
	}

	log.Info("Seeding complete.", "tournament", tournament.ID, "athletes", len(athletes))
	fmt.Println("Seeded demo data into", cfg["DB_NAME"])
}

func mustUser(st store.TournamentStore, u store.NewUser) *store.User {
	user, err := st.CreateUser(u)
	if err != nil {
		log.Fatalf("Failed to seed user %s: %s", u.Username, err)
	}
	return user
}

func strPtr(s string) *string { return &s }

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
