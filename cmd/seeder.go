package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			tables := []string{
				"audit_logs", "notifications", "ticket_messages", "tickets",
				"interview_participants", "interviews", "site_staff", "candidates",
				"job_requests", "user_invitations", "departments", "user_organizations",
				"organizations", "users",
			}
			for _, t := range tables {
				if err := db.Exec("DELETE FROM " + t).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", t, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUsers := []struct {
			Email string
			Name  string
			Type  string
		}{
			{"admin@talentgrid.io", "Platform Admin", "admin"},
			{"hr.one@talentgrid.io", "Hana Recruiter", "hr"},
			{"hr.two@talentgrid.io", "Harun Recruiter", "hr"},
			{"coo@acme.example", "Acme COO", "client"},
			{"candidate@mail.example", "Cpassandra Dev", "candidate"},
		}

		for _, u := range seedUsers {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Printf("user %s already exists; skipping\n", u.Email)
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, user_type, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Type,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Type, u.Email)
		}

		orgName := "Acme Corp"
		var orgID int64
		if err := db.Raw("SELECT id FROM organizations WHERE name = ?", orgName).Row().Scan(&orgID); err != nil {
			if err := db.Exec(
				"INSERT INTO organizations (name, industry, website, status, created_at, updated_at) VALUES (?, 'manufacturing', 'https://acme.example', 'active', now(), now())",
				orgName,
			).Error; err != nil {
				log.Fatalf("failed to insert organization: %v", err)
			}
			if err := db.Raw("SELECT id FROM organizations WHERE name = ?", orgName).Row().Scan(&orgID); err != nil {
				log.Fatalf("organization not found after insert: %v", err)
			}
			fmt.Println("Seeded organization:", orgName)
		}

		var cooID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "coo@acme.example").Row().Scan(&cooID); err != nil {
			log.Fatalf("failed to lookup coo user id: %v", err)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM user_organizations WHERE user_id = ? AND organization_id = ?", cooID, orgID).Row().Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO user_organizations (user_id, organization_id, role, is_primary, created_at, updated_at) VALUES (?, ?, 'coo', true, now(), now())",
				cooID, orgID,
			).Error; err != nil {
				log.Fatalf("failed to insert membership: %v", err)
			}
			fmt.Println("Seeded coo membership for organization:", orgName)
		}

		departments := []struct {
			Name string
			Desc string
		}{
			{"engineering", "software and platform engineering"},
			{"operations", "plant and field operations"},
			{"finance", "accounting and payroll"},
		}

		for _, d := range departments {
			var exists int
			if err := db.Raw("SELECT 1 FROM departments WHERE organization_id = ? AND name = ?", orgID, d.Name).Row().Scan(&exists); err != nil {
				if err := db.Exec(
					"INSERT INTO departments (organization_id, name, description, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
					orgID, d.Name, d.Desc,
				).Error; err != nil {
					log.Fatalf("failed to insert department %s: %v", d.Name, err)
				}
				fmt.Printf("Seeded department: %s\n", d.Name)
			}
		}

		fmt.Println("Seeding completed")
	},
}
