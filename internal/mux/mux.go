package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/branlanda/poker-galaxy-arena-sub002/internal/config"
	"github.com/branlanda/poker-galaxy-arena-sub002/internal/email"
	"github.com/branlanda/poker-galaxy-arena-sub002/internal/jwt"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/model"
	"github.com/branlanda/poker-galaxy-arena-sub002/pkg/room"
	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
	ctxTableKey
)

// userIDHeader is set on every authenticated response
const userIDHeader = "PokerGalaxy-UserID"

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	config         muxConfig
	version        string
	recaptcha      recaptcha
	pitBoss        *room.PitBoss
	email          *email.Client
	emailTemplates *email.Template

	// store for testing purposes
	authRouter  *gmux.Router
	adminRouter *gmux.Router
}

type muxConfig struct {
	// playerCreateDelay is the minimum duration between two player create events from a single remote address
	playerCreateDelay time.Duration
}

// NewMux returns a new HTTP mux
func NewMux(version string) *Mux {
	pitBoss := room.NewPitBoss()
	pitBoss.StartShift()

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
		config: muxConfig{
			playerCreateDelay: time.Second * time.Duration(config.Instance().PlayerCreateDelay),
		},
		recaptcha: newRecaptcha(),
	}

	this.setupEmail()

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	this.adminRouter = this.authRouter.NewRoute().Subrouter()
	this.adminRouter.Use(this.adminMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/player").Handler(this.postPlayer())
		r.Methods(http.MethodPost).Path("/player/auth").Handler(this.postPlayerAuth())
		r.Methods(http.MethodGet).Path("/player/auth/{jwt:.*}").Handler(this.getPlayerAuthJWT())
		r.Methods(http.MethodPost).Path("/player/verify/{token}").Handler(this.postPlayerVerifyToken())
		r.Methods(http.MethodPost).Path("/player/reset-password").Handler(this.postPlayerResetPasswordRequest())
		r.Methods(http.MethodGet).Path("/player/reset-password/{token}").Handler(this.getPlayerResetPasswordToken())
		r.Methods(http.MethodPost).Path("/player/reset-password/{token}").Handler(this.postPlayerResetPasswordToken())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodPost).Path("/player/{id:[0-9]+}").Handler(this.postPlayerID())

		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
		r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())

		tr := r.PathPrefix("/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
		tr.Use(this.tableMiddleware)

		tr.Methods(http.MethodGet).Path("").Handler(this.getTableUUID())
		tr.Methods(http.MethodGet).Path("/state").Handler(this.getTableUUIDState())
		tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())
		tr.Methods(http.MethodPost).Path("/seat").Handler(this.postTableUUIDSeat())
	}

	// requires admin access
	// depends on authMiddleware
	{
		r := this.adminRouter
		r.Methods(http.MethodGet).Path("/admin/table").Handler(this.getAdminTable())
		r.Methods(http.MethodDelete).Path("/admin/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Handler(this.deleteAdminTableUUID())
		r.Methods(http.MethodPost).Path("/admin/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}/player/{id:[0-9]+}").Handler(this.postAdminTableUUIDPlayerID())
		r.Methods(http.MethodGet).Path("/player").Handler(this.getPlayer())
		r.Methods(http.MethodGet).Path("/player/{id:[0-9]+}/table").Handler(this.getPlayerIDTable())
		r.Methods(http.MethodPost).Path("/admin/player/{id:[0-9]+}").Handler(this.postAdminPlayerID())
	}

	return this
}

// setupEmail wires the outbound email client
// The server still runs without one, it just won't send verification or reset emails
func (m *Mux) setupEmail() {
	cfg := config.Instance().Email
	if cfg.Disable || cfg.Host == "" {
		return
	}

	client, err := email.NewClient(cfg.From, cfg.Sender, cfg.Username, cfg.Password, cfg.Host)
	if err != nil {
		logrus.WithError(err).Fatal("could not create email client")
	}

	templateDir := cfg.TemplateDir
	if templateDir == "" {
		templateDir = "./templates"
	}

	templates, err := email.NewTemplate(templateDir)
	if err != nil {
		logrus.WithError(err).Fatal("could not load email templates")
	}

	m.email = client
	m.emailTemplates = templates
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, err := jwt.ValidUserID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		player, err := model.GetPlayerByID(r.Context(), id)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, player)
		w.Header().Set(userIDHeader, strconv.FormatInt(player.ID, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// adminMiddleware requires authMiddleware to execute first
func (m *Mux) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*model.Player)
		if !player.IsSiteAdmin {
			writeJSONError(w, http.StatusForbidden, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
