// turfctl is the operational CLI: schema migration and demo seeding.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"turfbook/internal/config"
	"turfbook/internal/database"
	"turfbook/internal/domain"
	"turfbook/internal/modules/rates"
	"turfbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "turfctl",
		Short: "Turf booking maintenance commands",
	}
	root.AddCommand(migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Println("migration complete")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo bookings for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.Connect(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			log.Println("Cleaning old data...")
			db.Exec("DELETE FROM notifications")
			db.Exec("DELETE FROM extra_charges")
			db.Exec("DELETE FROM slots")
			db.Exec("DELETE FROM bookings")
			db.Exec("DELETE FROM customers")

			repo := repository.NewBookingRepository(db)
			calc := rates.NewCalculator(cfg.DayRate, cfg.NightRate, cfg.NightStartHour, cfg.NightEndHour)

			tomorrow := time.Now().UTC().AddDate(0, 0, 1)
			dayAfter := time.Now().UTC().AddDate(0, 0, 2)

			seedBookings := []struct {
				name, phone string
				date        time.Time
				hours       []int
			}{
				{"Ahmed Khan", "+923001234567", tomorrow, []int{18, 19, 20}},
				{"Bilal Sheikh", "+923219876543", tomorrow, []int{9, 10}},
				{"Usman Tariq", "+923335551212", dayAfter, []int{21, 22, 23}},
			}

			for _, sb := range seedBookings {
				total, slots, err := calc.Quote(sb.hours)
				if err != nil {
					return err
				}
				b := &domain.Booking{
					BookingDate:          sb.date,
					TotalHours:           len(slots),
					TotalAmount:          total,
					AdvancePayment:       cfg.RequiredAdvance,
					AdvancePaymentMethod: domain.PayCash,
					RemainingPayment:     total - cfg.RequiredAdvance,
					Status:               domain.BookingPending,
					Slots:                slots,
				}
				customer := domain.Customer{Name: sb.name, Phone: sb.phone}
				if err := repo.CreateBooking(cmd.Context(), customer, b); err != nil {
					return fmt.Errorf("seed booking for %s: %w", sb.name, err)
				}
				log.Printf("seeded %s for %s (%d hours, total %.0f)", b.BookingNumber, sb.name, b.TotalHours, b.TotalAmount)
			}
			return nil
		},
	}
}
