package usecase

import (
	"context"

	"github.com/Softwarehamid/auto-shop-booking/internal/data/repository"
	"github.com/Softwarehamid/auto-shop-booking/internal/dto/response"

	"go.uber.org/zap"
)

type CatalogService interface {
	GetServices(ctx context.Context, includeInactive bool) ([]response.ServiceResponse, error)
	GetStaff(ctx context.Context, includeInactive bool) ([]response.StaffResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) GetServices(ctx context.Context, includeInactive bool) ([]response.ServiceResponse, error) {
	services, err := s.repo.Service.FindAll(ctx, !includeInactive)
	if err != nil {
		s.log.Error("Failed to get services", zap.Error(err))
		return nil, storageError("get services", err)
	}

	out := make([]response.ServiceResponse, len(services))
	for i, service := range services {
		out[i] = response.ServiceToResponse(service)
	}
	return out, nil
}

func (s *catalogService) GetStaff(ctx context.Context, includeInactive bool) ([]response.StaffResponse, error) {
	staff, err := s.repo.Staff.FindAll(ctx, !includeInactive)
	if err != nil {
		s.log.Error("Failed to get staff", zap.Error(err))
		return nil, storageError("get staff", err)
	}

	out := make([]response.StaffResponse, len(staff))
	for i, member := range staff {
		out[i] = response.StaffToResponse(member)
	}
	return out, nil
}
