package model

type UnitKind string

const (
	UnitKindCompany UnitKind = "company" // Верхнеуровневый агрегат компании
	UnitKindUnit    UnitKind = "unit"    // Отдельное подразделение (школа)
)

// BusinessAll псевдо-юнит "все подразделения": фильтр на уровне запросов,
// в базе такой строки нет
const BusinessAll = "all"

type BusinessUnit struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Kind  UnitKind `json:"kind"`
}
