package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/handlers/render"
	"github.com/PickAim/jarvis-backend/internal/logger"
	"github.com/PickAim/jarvis-backend/internal/models"
)

func handleRegister(auth authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"omitempty,max=254"`
		Phone    string `json:"phone" validate:"omitempty,max=32"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = auth.Register(r.Context(), data.Email, data.Phone, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrLoginAlreadyExists):
				render.ServiceError(w, apperrors.Code(err), "Login already exists", http.StatusConflict)
			case errors.Is(err, apperrors.ErrRegisterWithoutLogin),
				isValidationError(err):
				// Pre-auth input hygiene: rule codes go to the client verbatim
				render.ServiceError(w, apperrors.Code(err), err.Error(), http.StatusBadRequest)
			default:
				l.Error("registration failed", "error", err.Error())
				render.ServiceError(w, apperrors.Code(err), "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, response{Message: "User registered successfully"}, http.StatusCreated)
	})
}

func handleLogin(auth authService, l logger.Logger) http.Handler {
	type request struct {
		Login        string `json:"login" validate:"required"`
		Password     string `json:"password" validate:"required"`
		ImprintToken string `json:"imprint_token"`
	}
	type response struct {
		AccessToken  string `json:"access_token"`
		UpdateToken  string `json:"update_token"`
		ImprintToken string `json:"imprint_token"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		imprint := auth.ImprintFromRequest(r, data.ImprintToken)

		triple, err := auth.Login(r.Context(), data.Login, data.Password, imprint)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrIncorrectLoginOrPassword):
				render.ServiceError(w, apperrors.Code(err), "Incorrect login or password", http.StatusUnauthorized)
			default:
				l.Error("login failed", "error", err.Error())
				render.ServiceError(w, apperrors.Code(err), "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetTokenTripleToResponse(w, triple)
		render.JSON(w, response{
			AccessToken:  triple.Access.Value,
			UpdateToken:  triple.Update.Value,
			ImprintToken: triple.Imprint,
		})
	})
}

func handleTokenRefresh(auth authService, l logger.Logger) http.Handler {
	type request struct {
		UpdateToken string `json:"update_token"`
	}
	type response struct {
		AccessToken string `json:"access_token"`
		UpdateToken string `json:"update_token"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Body is optional: the update token usually travels by cookie
		var data request
		_ = json.NewDecoder(r.Body).Decode(&data)

		updateToken := auth.UpdateFromRequest(r, data.UpdateToken)
		if updateToken == "" {
			render.ServiceError(w, apperrors.Code(apperrors.ErrIncorrectToken), "Update token not found", http.StatusUnauthorized)
			return
		}

		pair, err := auth.RefreshPair(r.Context(), updateToken)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrIncorrectToken):
				render.ServiceError(w, apperrors.Code(err), "Update token rejected", http.StatusUnauthorized)
			default:
				l.Error("token refresh failed", "error", err.Error())
				render.ServiceError(w, apperrors.Code(err), "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		auth.SetTokenTripleToResponse(w, models.TokenTriple{
			TokenPair: pair,
			Imprint:   auth.ImprintFromRequest(r, ""),
		})
		render.JSON(w, response{
			AccessToken: pair.Access.Value,
			UpdateToken: pair.Update.Value,
		})
	})
}

func handleLogout(auth authService, l logger.Logger) http.Handler {
	type request struct {
		AccessToken  string `json:"access_token"`
		ImprintToken string `json:"imprint_token"`
	}
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data request
		_ = json.NewDecoder(r.Body).Decode(&data)

		accessToken := auth.AccessFromRequest(r, data.AccessToken)
		if accessToken == "" {
			render.ServiceError(w, apperrors.Code(apperrors.ErrIncorrectToken), "Access token not found", http.StatusUnauthorized)
			return
		}

		err := auth.Logout(r.Context(), accessToken, auth.ImprintFromRequest(r, data.ImprintToken))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrIncorrectToken):
				render.ServiceError(w, apperrors.Code(err), "Access token rejected", http.StatusUnauthorized)
			default:
				l.Error("logout failed", "error", err.Error())
				render.ServiceError(w, apperrors.Code(err), "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "User logged out successfully"})
	})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		apperrors.ErrPasswordTooShort,
		apperrors.ErrPasswordNoLower,
		apperrors.ErrPasswordNoUpper,
		apperrors.ErrPasswordNoDigit,
		apperrors.ErrPasswordNoSpecial,
		apperrors.ErrPasswordHasSpaces,
		apperrors.ErrPhoneHasLetters,
		apperrors.ErrPhoneInvalid,
		apperrors.ErrEmailInvalid,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
