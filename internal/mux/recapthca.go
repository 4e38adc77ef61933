package mux

import (
	"time"

	"github.com/branlanda/poker-galaxy-arena-sub002/internal/config"
	grecaptcha "github.com/ezzarghili/recaptcha-go"
	"github.com/sirupsen/logrus"
)

type recaptcha interface {
	// Verify will verify the token is valid
	Verify(token string) error
}

// noCaptcha accepts every token. It is used when no secret is configured
// so local development and tests don't need to talk to Google.
type noCaptcha struct{}

func (noCaptcha) Verify(string) error { return nil }

func newRecaptcha() recaptcha {
	secret := config.Instance().RecaptchaSecret
	if secret == "" {
		logrus.Warn("recaptcha secret not configured; signups will not be challenged")
		return noCaptcha{}
	}

	captcha, err := grecaptcha.NewReCAPTCHA(secret, grecaptcha.V3, 10*time.Second)
	if err != nil {
		logrus.WithError(err).Fatal("could not load recaptcha")
	}

	return &captcha
}
