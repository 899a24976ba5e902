// Package seed fills an empty database with demo users, events and RSVPs.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/eventrsvp"
	"gorm.io/gorm"
)

// Result counts what Run inserted. Skipped is true when users already existed.
type Result struct {
	Users   int
	Events  int
	RSVPs   int
	Skipped bool
}

type seedUser struct {
	email, name, role, password string
}

var users = []seedUser{
	{"admin@eventify.com", "Admin User", auth.RoleAdmin, "admin123"},
	{"organizer@eventify.com", "Event Organizer", auth.RoleOrganizer, "organizer123"},
	{"john@example.com", "John Doe", auth.RoleAttendee, "attendee123"},
	{"jane@example.com", "Jane Smith", auth.RoleAttendee, "attendee123"},
	{"organizer2@eventify.com", "Sarah Wilson", auth.RoleOrganizer, "organizer123"},
}

type seedEvent struct {
	title, description, category, location string
	daysOut, maxAttendees                  int
	price                                  float64
	organizer                              int // index into users
}

var events = []seedEvent{
	{
		title:       "Sarah & Mike's Wedding Celebration",
		description: "Join us for a beautiful wedding ceremony and reception. Dress code: Semi-formal. Dinner and dancing to follow the ceremony.",
		category:    "Wedding", location: "Grand Ballroom, Marriott Hotel, Downtown",
		daysOut: 21, maxAttendees: 150, organizer: 1,
	},
	{
		title:       "Baby Shower for Emma & David",
		description: "Celebrating the upcoming arrival of baby Johnson! Games, gifts, and refreshments. Please RSVP with dietary restrictions.",
		category:    "Baby Shower", location: "Community Center, 123 Oak Street",
		daysOut: 28, maxAttendees: 50, organizer: 4,
	},
	{
		title:       "Golden Anniversary - 50 Years Together",
		description: "Celebrating Robert & Mary's 50th wedding anniversary! Join us for an afternoon of memories, music, and cake.",
		category:    "Anniversary", location: "Sunset Gardens Event Hall",
		daysOut: 35, maxAttendees: 100, organizer: 1,
	},
	{
		title:       "Tech Meetup: AI Trends",
		description: "Monthly tech meetup discussing the latest trends in AI and machine learning. Networking and pizza included!",
		category:    "Technology", location: "Innovation Hub, Tech District",
		daysOut: 17, maxAttendees: 80, price: 15, organizer: 4,
	},
	{
		title:       "Summer Music Festival",
		description: "Outdoor music festival featuring local bands and food trucks. Bring your own chairs and enjoy the music!",
		category:    "Music", location: "Central Park Amphitheater",
		daysOut: 42, maxAttendees: 500, price: 25, organizer: 1,
	},
}

// rsvps are (user index, event index, status).
var rsvps = []struct {
	user, event int
	status      string
}{
	{2, 0, eventrsvp.StatusGoing},
	{3, 0, eventrsvp.StatusGoing},
	{2, 1, eventrsvp.StatusInterested},
	{3, 1, eventrsvp.StatusGoing},
	{2, 3, eventrsvp.StatusGoing},
	{3, 3, eventrsvp.StatusGoing},
}

// Run seeds the database when the users table is empty. Everything is
// inserted in one transaction. Event dates are relative to now.
func Run(ctx context.Context, db *gorm.DB, now time.Time) (Result, error) {
	var res Result

	var count int64
	if err := db.WithContext(ctx).Model(&auth.User{}).Count(&count).Error; err != nil {
		return res, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		log.Ctx(ctx).Info().Int64("users", count).Msg("database already seeded, skipping")
		res.Skipped = true
		return res, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created := make([]auth.User, len(users))
		for i, u := range users {
			hash, err := auth.HashPassword(u.password)
			if err != nil {
				return err
			}
			created[i] = auth.User{
				Email:          u.email,
				FullName:       u.name,
				HashedPassword: hash,
				Role:           u.role,
				IsActive:       true,
			}
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}

		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		evs := make([]event.Event, len(events))
		for i, e := range events {
			evs[i] = event.Event{
				Title:        e.title,
				Description:  e.description,
				Category:     e.category,
				Date:         day.AddDate(0, 0, e.daysOut),
				Time:         event.DefaultTime,
				Location:     e.location,
				MaxAttendees: e.maxAttendees,
				Price:        e.price,
				OrganizerID:  created[e.organizer].ID,
				IsActive:     true,
			}
		}
		if err := tx.Create(&evs).Error; err != nil {
			return fmt.Errorf("seed events: %w", err)
		}

		rows := make([]eventrsvp.RSVP, len(rsvps))
		for i, r := range rsvps {
			rows[i] = eventrsvp.RSVP{
				UserID:  created[r.user].ID,
				EventID: evs[r.event].ID,
				Status:  r.status,
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("seed rsvps: %w", err)
		}

		res.Users, res.Events, res.RSVPs = len(created), len(evs), len(rows)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Ctx(ctx).Info().
		Int("users", res.Users).
		Int("events", res.Events).
		Int("rsvps", res.RSVPs).
		Msg("database seeded")
	return res, nil
}
