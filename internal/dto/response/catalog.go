package response

import (
	"github.com/Softwarehamid/auto-shop-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type ServiceResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
	IsActive        bool            `json:"isActive"`
}

type StaffResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

func ServiceToResponse(s *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID.String(),
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
	}
}

func StaffToResponse(s *entity.Staff) StaffResponse {
	return StaffResponse{
		ID:       s.ID.String(),
		Name:     s.Name,
		IsActive: s.IsActive,
	}
}
