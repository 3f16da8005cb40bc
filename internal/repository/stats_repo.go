package repository

import (
	"context"

	"go-grocery-delivery/internal/model"

	"gorm.io/gorm"
)

type StatsRepository interface {
	GetDashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error)
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts    int64            `json:"total_products"`
	LowStockCount    int64            `json:"low_stock_count"`
	TotalValuation   int64            `json:"total_valuation"`
	TotalOrders      int64            `json:"total_orders"`
	UnassignedOrders int64            `json:"unassigned_orders"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db}
}

func (r *statsRepo) GetDashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := DashboardStats{OrdersByStatus: make(map[string]int64, len(model.OrderStatuses))}
	for _, st := range model.OrderStatuses {
		stats.OrdersByStatus[string(st)] = 0
	}

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Product{}).Where("stock < ?", lowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// Total Valuation (SUM of stock * price)
	if err := db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Order{}).Where("delivery_person_id IS NULL").Count(&stats.UnassignedOrders).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&model.Order{}).Select("status, COUNT(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.OrdersByStatus[row.Status] = row.Count
		stats.TotalOrders += row.Count
	}

	return &stats, nil
}
