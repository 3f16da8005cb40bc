package service

import (
	"context"

	"go-grocery-delivery/internal/repository"
)

type DashboardService interface {
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type dashboardService struct {
	statsRepo         repository.StatsRepository
	lowStockThreshold int
}

func NewDashboardService(statsRepo repository.StatsRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{statsRepo: statsRepo, lowStockThreshold: lowStockThreshold}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.statsRepo.GetDashboardStats(ctx, s.lowStockThreshold)
}
