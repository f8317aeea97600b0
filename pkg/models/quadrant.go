package models

import "fmt"

// EntityType represents the kind of entity being classified
type EntityType string

const (
	EntitySupplier EntityType = "supplier"
	EntityProduct  EntityType = "product"
)

// EntityTypes lists every entity type in reporting order
var EntityTypes = []EntityType{EntitySupplier, EntityProduct}

// Quadrant represents one cell of the Kraljic matrix
type Quadrant int

const (
	QuadrantStrategic Quadrant = iota
	QuadrantLeverage
	QuadrantBottleneck
	QuadrantNonCritical
)

// Quadrants lists every quadrant in legend order
var Quadrants = []Quadrant{
	QuadrantStrategic,
	QuadrantLeverage,
	QuadrantBottleneck,
	QuadrantNonCritical,
}

// String returns the entity-neutral quadrant name
func (q Quadrant) String() string {
	switch q {
	case QuadrantStrategic:
		return "Strategic"
	case QuadrantLeverage:
		return "Leverage"
	case QuadrantBottleneck:
		return "Bottleneck"
	case QuadrantNonCritical:
		return "Non-Critical"
	default:
		return "Unknown"
	}
}

// Color returns the plot color associated with the quadrant
func (q Quadrant) Color() string {
	switch q {
	case QuadrantStrategic:
		return "orange"
	case QuadrantLeverage:
		return "green"
	case QuadrantBottleneck:
		return "red"
	case QuadrantNonCritical:
		return "blue"
	default:
		return "gray"
	}
}

// Label returns the category label of the quadrant for an entity type,
// e.g. "Strategic Supplier" or "Non-Critical Item".
func (q Quadrant) Label(entity EntityType) string {
	return fmt.Sprintf("%s %s", q, entity.Noun())
}

// Noun returns the word used in category labels for the entity type
func (e EntityType) Noun() string {
	switch e {
	case EntitySupplier:
		return "Supplier"
	case EntityProduct:
		return "Item"
	default:
		return "Entity"
	}
}

// Title returns the capitalized entity name used in report headings
func (e EntityType) Title() string {
	switch e {
	case EntitySupplier:
		return "Supplier"
	case EntityProduct:
		return "Product"
	default:
		return "Entity"
	}
}

// IDColumn returns the identifier column name for the entity type
func (e EntityType) IDColumn() string {
	return string(e) + "_id"
}

// Vocabulary returns the four category labels for the entity type in legend order
func (e EntityType) Vocabulary() []string {
	labels := make([]string, len(Quadrants))
	for i, q := range Quadrants {
		labels[i] = q.Label(e)
	}
	return labels
}
