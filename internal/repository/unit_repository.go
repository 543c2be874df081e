package repository

import (
	"context"
	"fmt"

	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/model"
	"github.com/yutongli049-dot/tangent-erp-new-sub000/internal/repository/base"
)

type BusinessUnitRepository struct{}

func NewBusinessUnitRepository() *BusinessUnitRepository {
	return &BusinessUnitRepository{}
}

// List получает все подразделения
func (r *BusinessUnitRepository) List(ctx context.Context, db base.Querier) ([]*model.BusinessUnit, error) {
	query := `
		SELECT id, label, kind
		FROM business_units
		ORDER BY kind DESC, label ASC
	`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list business units: %w", err)
	}
	defer rows.Close()

	var units []*model.BusinessUnit
	for rows.Next() {
		var unit model.BusinessUnit
		if err := rows.Scan(&unit.ID, &unit.Label, &unit.Kind); err != nil {
			return nil, fmt.Errorf("scan business unit: %w", err)
		}
		units = append(units, &unit)
	}

	return units, nil
}

// Exists проверяет что подразделение существует
func (r *BusinessUnitRepository) Exists(ctx context.Context, db base.Querier, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM business_units WHERE id = $1)`

	var exists bool
	if err := db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check business unit: %w", err)
	}

	return exists, nil
}
