package calc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
	"github.com/PickAim/jarvis-backend/internal/repository"
)

// CalcService proxies calculation requests to the domain calculator and
// persists per user request history
type CalcService struct {
	calculator UnitEconomyCalculator
	storage    repository.Storage
}

func NewService(calculator UnitEconomyCalculator, storage repository.Storage) *CalcService {
	if calculator == nil {
		calculator = MarketplaceCalculator{}
	}

	return &CalcService{
		calculator: calculator,
		storage:    storage,
	}
}

func (s *CalcService) UnitEconomy(params UnitEconomyParams) UnitEconomyResult {
	return s.calculator.UnitEconomy(params)
}

// UnitEconomySaved calculates and stores the request with its result in
// the user's history
func (s *CalcService) UnitEconomySaved(ctx context.Context, user models.User, name string, params UnitEconomyParams) (UnitEconomyResult, error) {
	result := s.calculator.UnitEconomy(params)

	payload, err := json.Marshal(struct {
		Params UnitEconomyParams `json:"params"`
		Result UnitEconomyResult `json:"result"`
	}{Params: params, Result: result})
	if err != nil {
		return result, fmt.Errorf("error while encoding request payload. Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		_, err := st.Request().SaveRequest(ctx, models.SavedRequest{
			UserID:  user.ID,
			Kind:    models.RequestKindUnitEconomy,
			Name:    name,
			Payload: payload,
		})
		return err
	})
	if err != nil {
		return result, fmt.Errorf("error while saving request. Err: %w", err)
	}

	return result, nil
}

func (s *CalcService) ListRequests(ctx context.Context, user models.User, kind models.RequestKind) ([]models.SavedRequest, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown request kind %q", apperrors.ErrRequestNotFound, kind)
	}

	return s.storage.Request().ListRequests(ctx, user.ID, kind)
}

// DeleteRequest removes a request from history. Owners delete their own
// requests; admins may delete anyone's.
func (s *CalcService) DeleteRequest(ctx context.Context, user models.User, requestID int64) error {
	request, err := s.storage.Request().GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRequestNotFound) {
			return err
		}
		return fmt.Errorf("error while loading request. Err: %w", err)
	}

	if request.UserID != user.ID && !user.Privilege.AtLeast(models.PrivilegeAdmin) {
		return apperrors.ErrPermissionDenied
	}

	return s.storage.InTx(ctx, func(st repository.Storage) error {
		return st.Request().DeleteRequest(ctx, requestID)
	})
}
