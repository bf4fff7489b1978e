package api

import (
	"context"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v5"
	"github.com/didip/tollbooth/v5/limiter"
	"github.com/rs/cors"
	"github.com/sebest/xff"
	"github.com/sirupsen/logrus"

	"github.com/chapterhq/lodge/internal/conf"
	"github.com/chapterhq/lodge/internal/mailer"
	"github.com/chapterhq/lodge/internal/observability"
	"github.com/chapterhq/lodge/internal/storage"
)

const defaultVersion = "unknown version"

// API is the main REST API
type API struct {
	handler http.Handler
	db      *storage.Connection
	config  *conf.GlobalConfiguration
	mailer  mailer.Mailer
	version string

	// overrideTime can be used to override the clock used by handlers. Should only be used in tests!
	overrideTime func() time.Time
}

func (a *API) Now() time.Time {
	if a.overrideTime != nil {
		return a.overrideTime()
	}

	return time.Now()
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// NewAPI instantiates a new REST API
func NewAPI(globalConfig *conf.GlobalConfiguration, db *storage.Connection) *API {
	return NewAPIWithVersion(context.Background(), globalConfig, db, defaultVersion)
}

// NewAPIWithVersion creates a new REST API using the specified version
func NewAPIWithVersion(ctx context.Context, globalConfig *conf.GlobalConfiguration, db *storage.Connection, version string) *API {
	api := &API{
		config:  globalConfig,
		db:      db,
		mailer:  mailer.NewMailer(globalConfig),
		version: version,
	}

	xffmw, _ := xff.Default()
	logger := observability.NewStructuredLogger(logrus.StandardLogger())

	r := newRouter()
	r.Use(addRequestID(globalConfig))
	r.UseBypass(xffmw.Handler)
	r.UseBypass(recoverer)

	r.Get("/health", api.HealthCheck)

	r.Route("/", func(r *router) {
		r.UseBypass(logger)

		r.With(api.limitHandler(
			// Allow requests at the specified rate per hour.
			tollbooth.NewLimiter(api.config.RateLimit.TokenGrants/(60*60), &limiter.ExpirableOptions{
				DefaultExpirationTTL: time.Hour,
			}).SetBurst(30),
		)).Post("/token", api.Token)

		r.With(api.limitHandler(
			tollbooth.NewLimiter(api.config.RateLimit.Submissions/(60*60), &limiter.ExpirableOptions{
				DefaultExpirationTTL: time.Hour,
			}).SetBurst(10),
		)).Post("/register", api.Register)
	})

	r.Route("/v1", func(r *router) {
		r.UseBypass(logger)

		submissionLimiter := api.limitHandler(
			tollbooth.NewLimiter(api.config.RateLimit.Submissions/(60*60), &limiter.ExpirableOptions{
				DefaultExpirationTTL: time.Hour,
			}).SetBurst(10).SetMethods([]string{"POST"}),
		)
		r.Get("/profile/email/confirm", api.EmailConfirm)

		// brother directory and profiles are reachable anonymously, with
		// the disclosure engine restricting what an anonymous viewer sees
		r.Route("/brothers", func(r *router) {
			r.Use(api.maybeAuthentication)

			r.Get("/", api.BrotherList)
			r.Get("/undergrads", api.UndergradRoster)
			r.Get("/alumni", api.AlumniRoster)
			r.With(api.requireAuthentication).Get("/bigbrothers", api.BigBrotherChoiceList)

			r.Route("/{badge}", func(r *router) {
				r.Use(api.loadBrother)

				r.Get("/", api.BrotherGet)
				r.With(api.requireAuthentication).Put("/", api.BrotherUpdate)
				r.With(api.requireAuthentication).With(api.requireAdmin).Post("/unlock", api.BrotherUnlock)
				r.With(api.requireAuthentication).With(api.requireAdmin).Post("/reset-password", api.BrotherPasswordReset)
				r.With(api.requireAuthentication).With(api.requireAdmin).Put("/status", api.BrotherStatusChange)
			})
		})

		r.With(api.requireAuthentication).Route("/profile", func(r *router) {
			r.Put("/", api.ProfileUpdate)
			r.Get("/visibility", api.VisibilityGet)
			r.Put("/visibility/{channel}", api.VisibilityUpdate)
			r.Put("/notifications", api.NotificationsUpdate)
			r.Post("/password", api.PasswordChange)
		})

		r.Route("/chapter", func(r *router) {
			r.Use(api.maybeAuthentication)

			r.With(submissionLimiter).Post("/contact", api.ContactCreate)

			r.Get("/announcements", api.AnnouncementList)
			r.With(api.requireAuthentication).Post("/announcements", api.AnnouncementCreate)
			r.With(api.requireAuthentication).Put("/announcements/{id}", api.AnnouncementUpdate)
			r.With(api.requireAuthentication).Delete("/announcements/{id}", api.AnnouncementDelete)

			r.With(api.requireAuthentication).Get("/contacts", api.ContactList)
			r.With(api.requireAuthentication).Get("/infocards", api.InfoCardList)
		})

		r.Route("/officers", func(r *router) {
			r.Get("/", api.OfficerList)

			r.Route("/{office}", func(r *router) {
				r.Use(api.loadOffice)

				r.Get("/history", api.OfficerHistory)
				r.With(api.requireAuthentication).With(api.requireAdmin).Put("/", api.OfficerAssign)
			})
		})

		r.With(api.requireAuthentication).Route("/forums", func(r *router) {
			r.Get("/", api.ForumList)
			r.With(api.requireAdmin).Post("/", api.ForumCreate)

			r.Route("/{slug}", func(r *router) {
				r.Use(api.loadForum)

				r.Get("/", api.ForumGet)
				r.With(api.requireAdmin).Put("/", api.ForumUpdate)
				r.With(api.requireAdmin).Delete("/", api.ForumDelete)

				r.Get("/threads", api.ThreadList)
				r.Post("/threads", api.ThreadCreate)
			})
		})

		r.With(api.requireAuthentication).Route("/threads/{thread_id}", func(r *router) {
			r.Use(api.loadThread)

			r.Get("/", api.ThreadGet)
			r.Put("/", api.ThreadUpdate)
			r.Delete("/", api.ThreadDelete)

			r.Post("/posts", api.PostCreate)
			r.Post("/subscribe", api.ThreadSubscribe)
			r.Delete("/subscribe", api.ThreadUnsubscribe)
		})

		r.With(api.requireAuthentication).Get("/posts/{post_id}", api.PostGet)
		r.With(api.requireAuthentication).Put("/posts/{post_id}", api.PostUpdate)
		r.With(api.requireAuthentication).Delete("/posts/{post_id}", api.PostDelete)

		r.With(api.requireAuthentication).Get("/subscriptions", api.SubscriptionList)
		r.With(api.requireAuthentication).Get("/mythreads", api.MyThreadList)

		r.Route("/rush", func(r *router) {
			r.Use(api.maybeAuthentication)

			r.Get("/", api.RushList)
			r.With(api.requireAuthentication).With(api.requireAdmin).Post("/", api.RushCreate)

			r.With(submissionLimiter).Post("/infocard", api.InfoCardCreate)

			r.With(api.requireAuthentication).Get("/potentials", api.PotentialList)
			r.With(api.requireAuthentication).Post("/potentials", api.PotentialCreate)
			r.With(api.requireAuthentication).Route("/potentials/{potential_id}", func(r *router) {
				r.Get("/", api.PotentialGet)
				r.Put("/", api.PotentialUpdate)
				r.Delete("/", api.PotentialDelete)
			})

			r.With(api.requireAuthentication).Put("/events/{event_id}", api.RushEventUpdate)
			r.With(api.requireAuthentication).Delete("/events/{event_id}", api.RushEventDelete)

			r.Route("/{name}", func(r *router) {
				r.Use(api.loadRush)

				r.Get("/", api.RushGet)
				r.With(api.requireAuthentication).With(api.requireAdmin).Put("/", api.RushUpdate)
				r.With(api.requireAuthentication).Post("/events", api.RushEventCreate)
			})
		})
	})

	corsHandler := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Client-IP", "X-Client-Info"},
		ExposedHeaders:   []string{"X-Total-Count", "Link"},
		AllowCredentials: true,
	})

	api.handler = corsHandler.Handler(r)
	return api
}

// maybeAuthentication authenticates the request when a bearer token is
// presented and passes it through anonymously when not.
func (a *API) maybeAuthentication(w http.ResponseWriter, r *http.Request) (context.Context, error) {
	if r.Header.Get("Authorization") == "" {
		return r.Context(), nil
	}
	return a.requireAuthentication(w, r)
}

type HealthCheckResponse struct {
	Version     string `json:"version"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HealthCheck endpoint indicates if the lodge api service is available
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) error {
	return sendJSON(w, http.StatusOK, HealthCheckResponse{
		Version:     a.version,
		Name:        "Lodge",
		Description: "Lodge is a fraternity chapter membership and content API",
	})
}
