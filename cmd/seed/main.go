package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"bookly/internal/availability"
	"bookly/internal/bookings"
	"bookly/internal/shared/config"
	"bookly/internal/shared/database"
	"bookly/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Seeder struct {
	db      *database.DB
	service availability.Service
}

// demoContentID is stable so repeated seeds target the same bookable content
var demoContentID = uuid.MustParse("6f1c1f7e-3a1d-4c55-9f5c-2b8d2f1a0b01")

func main() {
	clean := flag.Bool("clean", true, "truncate booking tables before seeding")
	flag.Parse()

	_ = godotenv.Load()
	fmt.Println("Starting Bookly database seeder...")

	cfg := config.Load()
	appLogger := logger.GetDefault()

	db, err := database.InitDB(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{
		db: db,
		// no rule cache: the running server invalidates on its own writes only
		service: availability.NewService(
			availability.NewRepository(db.PostgreSQL),
			bookings.NewRepository(db.PostgreSQL),
			nil, cfg, appLogger,
		),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *clean {
		fmt.Println("Cleaning database...")
		if err := seeder.CleanDatabase(ctx); err != nil {
			log.Fatalf("Failed to clean database: %v", err)
		}
	}

	fmt.Println("Seeding availability...")
	if err := seeder.SeedAvailability(ctx); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Printf("Seeding completed. Demo content: %s\n", demoContentID)
}

// CleanDatabase truncates all tables, children before parents
func (s *Seeder) CleanDatabase(ctx context.Context) error {
	tables := []string{
		"waitlist_entries",
		"booking_transactions",
		"booking_requests",
		"recurring_bookings",
		"availability_exceptions",
		"availability_rules",
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := s.db.PostgreSQL.WithContext(ctx).Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAvailability creates a weekday morning and afternoon schedule plus a
// Saturday slot, then closes the first Monday of next month for maintenance.
func (s *Seeder) SeedAvailability(ctx context.Context) error {
	type slot struct {
		start, end string
		capacity   int
		price      float64
	}
	weekday := []slot{
		{"09:00", "10:00", 4, 20},
		{"10:30", "11:30", 4, 20},
		{"14:00", "15:30", 8, 35},
	}

	var firstMonday *availability.AvailabilityRule
	for day := 1; day <= 5; day++ {
		for _, sl := range weekday {
			rule, err := s.createRule(ctx, day, sl.start, sl.end, sl.capacity, sl.price)
			if err != nil {
				return err
			}
			if day == 1 && firstMonday == nil {
				firstMonday = rule
			}
		}
	}

	if _, err := s.createRule(ctx, 6, "10:00", "12:00", 12, 50); err != nil {
		return err
	}

	closed := false
	_, err := s.service.AddException(ctx, firstMonday.ID, availability.ExceptionRequest{
		Date:        availability.FormatDate(nextMonday()),
		IsAvailable: &closed,
	})
	if err != nil {
		return fmt.Errorf("failed to add exception: %w", err)
	}
	fmt.Printf("    Closed %s on %s\n", firstMonday.StartTime, availability.FormatDate(nextMonday()))
	return nil
}

func (s *Seeder) createRule(ctx context.Context, day int, start, end string, capacity int, price float64) (*availability.AvailabilityRule, error) {
	rule, err := s.service.CreateAvailabilityRule(ctx, availability.CreateRuleRequest{
		ContentID:   demoContentID.String(),
		DayOfWeek:   &day,
		StartTime:   start,
		EndTime:     end,
		MaxCapacity: &capacity,
		Price:       price,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rule %s %s: %w", time.Weekday(day), start, err)
	}
	fmt.Printf("    Created rule: %s %s-%s (capacity %d)\n", time.Weekday(day), start, end, capacity)
	return rule, nil
}

// nextMonday returns the first Monday strictly after today
func nextMonday() time.Time {
	d := availability.TruncateDate(time.Now()).AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
