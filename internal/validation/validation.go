// Package validation registers the custom binding tags used by request structs.
package validation

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once    sync.Once
	onceErr error

	hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Status and role values accepted by the rsvp_status and user_role tags.
var (
	RSVPStatuses = []string{"going", "interested", "not_going"}
	UserRoles    = []string{"attendee", "organizer", "admin"}
)

// Register installs the custom validators on gin's validator engine. Safe to
// call more than once.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			onceErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		onceErr = registerOn(v)
	})
	return onceErr
}

// MustRegister is Register for process start-up and tests.
func MustRegister() {
	if err := Register(); err != nil {
		panic(err)
	}
}

func registerOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"rsvp_status": oneOf(RSVPStatuses),
		"user_role":   oneOf(UserRoles),
		"hhmm": func(fl validator.FieldLevel) bool {
			return hhmm.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func IsRSVPStatus(s string) bool {
	for _, v := range RSVPStatuses {
		if s == v {
			return true
		}
	}
	return false
}
