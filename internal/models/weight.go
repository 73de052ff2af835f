package models

// ConstraintType separates infeasibility rules from penalized preferences.
type ConstraintType string

const (
	ConstraintHard ConstraintType = "HARD"
	ConstraintSoft ConstraintType = "SOFT"
)

// OptimizationWeight tunes one solver constraint. HARD entries mark
// infeasibility constraints, SOFT entries are penalty terms in the
// objective function.
type OptimizationWeight struct {
	ID             string         `db:"id" json:"id"`
	ConstraintName string         `db:"constraint_name" json:"constraint_name"`
	ConstraintType ConstraintType `db:"constraint_type" json:"constraint_type"`
	WeightValue    float64        `db:"weight_value" json:"weight_value"`
}
