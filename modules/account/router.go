package account

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parlevel/studiogate/core"
	"github.com/parlevel/studiogate/pkg/guard"
	"github.com/parlevel/studiogate/pkg/roles"
	"github.com/parlevel/studiogate/pkg/userstore"
)

// RegisterRequest is the signup record creation payload.
type RegisterRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Router mounts the self-service account surface.
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()
	r.Post("/users", registerHandler(svc))
	r.Get("/users/{userID}/subscription", subscriptionHandler(svc))
	r.Post("/users/{userID}/downgrade", downgradeHandler(svc))
	return r
}

// AdminRouter mounts the admin surface behind a role guard. The guard
// re-verifies the role from the user record, not the identity claim.
func AdminRouter(svc *Service, mw *guard.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.RequireRole(roles.RoleAdmin))
	r.Get("/users", listUsersHandler(svc))
	return r
}

func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := core.DecodeJSON(r, &req); err != nil {
			core.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := svc.Register(r.Context(), req.UserID, req.Email)
		if err != nil {
			if errors.Is(err, ErrMissingParameter) {
				core.Error(w, http.StatusBadRequest, "missing userId or email")
				return
			}
			core.Error(w, http.StatusInternalServerError, "error creating user record")
			return
		}

		core.JSON(w, http.StatusCreated, user)
	}
}

func subscriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Subscription(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			if errors.Is(err, userstore.ErrUserNotFound) {
				core.Error(w, http.StatusNotFound, "user not found")
				return
			}
			core.Error(w, http.StatusInternalServerError, "error reading subscription status")
			return
		}

		core.JSON(w, http.StatusOK, status)
	}
}

func downgradeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Downgrade(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			if errors.Is(err, userstore.ErrUserNotFound) {
				core.Error(w, http.StatusNotFound, "user not found")
				return
			}
			core.Error(w, http.StatusInternalServerError, "error downgrading subscription")
			return
		}

		core.JSON(w, http.StatusOK, user)
	}
}

func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.Users(r.Context())
		if err != nil {
			core.Error(w, http.StatusInternalServerError, "error listing users")
			return
		}

		core.JSON(w, http.StatusOK, users)
	}
}
