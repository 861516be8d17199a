package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/handlers/render"
	"github.com/PickAim/jarvis-backend/internal/handlers/userctx"
	"github.com/PickAim/jarvis-backend/internal/logger"
	"github.com/PickAim/jarvis-backend/internal/models"
	"github.com/PickAim/jarvis-backend/internal/service/calc"
)

func handleUnitEconomy(calcService calcService, l logger.Logger) http.Handler {
	type request struct {
		BuyPrice       decimal.Decimal `json:"buy_price" validate:"required"`
		PackCost       decimal.Decimal `json:"pack_cost"`
		TransitPrice   decimal.Decimal `json:"transit_price"`
		TransitCount   int64           `json:"transit_count" validate:"min=0"`
		SellPrice      decimal.Decimal `json:"sell_price" validate:"required"`
		CommissionRate decimal.Decimal `json:"commission_rate"`
		LogisticsCost  decimal.Decimal `json:"logistics_cost"`

		Name string `json:"name" validate:"omitempty,max=128"`
		Save bool   `json:"save"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		params := calc.UnitEconomyParams{
			BuyPrice:       data.BuyPrice,
			PackCost:       data.PackCost,
			TransitPrice:   data.TransitPrice,
			TransitCount:   data.TransitCount,
			SellPrice:      data.SellPrice,
			CommissionRate: data.CommissionRate,
			LogisticsCost:  data.LogisticsCost,
		}

		if !data.Save {
			render.JSON(w, calcService.UnitEconomy(params))
			return
		}

		user, _ := userctx.FromContext(r.Context())
		result, err := calcService.UnitEconomySaved(r.Context(), user, data.Name, params)
		if err != nil {
			l.Error("unit economy calculation failed", "error", err.Error(), "user_id", user.ID)
			render.ServiceError(w, apperrors.Code(err), "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, result)
	})
}

func handleListRequests(calcService calcService, l logger.Logger) http.Handler {
	type item struct {
		ID        int64              `json:"id"`
		Kind      models.RequestKind `json:"kind"`
		Name      string             `json:"name"`
		Payload   any                `json:"payload"`
		CreatedAt time.Time          `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind := models.RequestKind(r.URL.Query().Get("kind"))
		if kind == "" {
			kind = models.RequestKindUnitEconomy
		}
		if !kind.Valid() {
			render.ServiceError(w, "INVALID_REQUEST_KIND", "Unknown request kind", http.StatusBadRequest)
			return
		}

		user, _ := userctx.FromContext(r.Context())
		requests, err := calcService.ListRequests(r.Context(), user, kind)
		if err != nil {
			l.Error("listing saved requests failed", "error", err.Error(), "user_id", user.ID)
			render.ServiceError(w, apperrors.Code(err), "Internal server error", http.StatusInternalServerError)
			return
		}

		items := make([]item, 0, len(requests))
		for _, req := range requests {
			items = append(items, item{
				ID:        req.ID,
				Kind:      req.Kind,
				Name:      req.Name,
				Payload:   req.Payload,
				CreatedAt: req.CreatedAt,
			})
		}

		render.JSON(w, items)
	})
}

func handleDeleteRequest(calcService calcService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "INVALID_REQUEST_ID", "Request id must be an integer", http.StatusBadRequest)
			return
		}

		user, _ := userctx.FromContext(r.Context())
		err = calcService.DeleteRequest(r.Context(), user, id)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRequestNotFound):
				render.ServiceError(w, apperrors.Code(err), "Saved request not found", http.StatusNotFound)
			case errors.Is(err, apperrors.ErrPermissionDenied):
				render.ServiceError(w, apperrors.Code(err), "Not enough privilege", http.StatusForbidden)
			default:
				l.Error("deleting saved request failed", "error", err.Error(), "user_id", user.ID)
				render.ServiceError(w, apperrors.Code(err), "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{Message: "Request deleted successfully"})
	})
}
