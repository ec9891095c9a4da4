package topic

import "fmt"

// Operation identifies the arithmetic operation a topic drills.
type Operation string

const (
	Addition       Operation = "ADD"
	Subtraction    Operation = "SUB"
	Multiplication Operation = "MUL"
	Division       Operation = "DIV"
	Percentage     Operation = "PCT"
)

func (o Operation) Valid() bool {
	switch o {
	case Addition, Subtraction, Multiplication, Division, Percentage:
		return true
	}
	return false
}

func (o Operation) Label() string {
	switch o {
	case Addition:
		return "Addition"
	case Subtraction:
		return "Subtraction"
	case Multiplication:
		return "Multiplication"
	case Division:
		return "Division"
	case Percentage:
		return "Percentage"
	}
	return "Unknown"
}

// Level is a difficulty tier. The set is closed: levels 1-13, each tied to
// one mental-math technique and one operation.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 13
)

// Topic pairs an operation with a difficulty level. Cards track mastery per topic.
type Topic struct {
	Operation Operation `json:"operation"`
	Level     Level     `json:"level"`
}

func (t Topic) Label() string {
	return levelLabels[t.Level]
}

func (t Topic) String() string {
	return fmt.Sprintf("%s/level-%d", t.Operation, t.Level)
}

var levelOperations = map[Level]Operation{
	1:  Multiplication,
	2:  Multiplication,
	3:  Multiplication,
	4:  Multiplication,
	5:  Multiplication,
	6:  Multiplication,
	7:  Multiplication,
	8:  Multiplication,
	9:  Division,
	10: Division,
	11: Percentage,
	12: Addition,
	13: Subtraction,
}

var levelLabels = map[Level]string{
	1:  "Multiply by 11 (2 digits)",
	2:  "Multiply by 11 (3 digits)",
	3:  "Square numbers ending in 5",
	4:  "Multiply numbers close to 100",
	5:  "Multiply 2-digit numbers",
	6:  "Multiply 3-digit by 1-digit",
	7:  "Multiply 3-digit by 2-digit",
	8:  "Multiply 4-digit numbers",
	9:  "Division (exact)",
	10: "Division (with decimals)",
	11: "Percentages",
	12: "Addition (multi-digit)",
	13: "Subtraction (multi-digit)",
}

// ByLevel resolves the canonical topic for a difficulty level.
func ByLevel(level Level) (Topic, bool) {
	op, ok := levelOperations[level]
	if !ok {
		return Topic{}, false
	}
	return Topic{Operation: op, Level: level}, true
}

// ByOperation returns the default topic for an operation, mirroring the
// fallbacks the trainer offers when only an operation is selected.
func ByOperation(op Operation) (Topic, bool) {
	switch op {
	case Addition:
		return Topic{Addition, 12}, true
	case Subtraction:
		return Topic{Subtraction, 13}, true
	case Multiplication:
		return Topic{Multiplication, 5}, true
	case Division:
		return Topic{Division, 9}, true
	case Percentage:
		return Topic{Percentage, 11}, true
	}
	return Topic{}, false
}

// All lists the catalog in level order.
func All() []Topic {
	topics := make([]Topic, 0, int(MaxLevel))
	for l := MinLevel; l <= MaxLevel; l++ {
		t, _ := ByLevel(l)
		topics = append(topics, t)
	}
	return topics
}

// Validate rejects any (operation, level) pair outside the catalog.
func (t Topic) Validate() error {
	canonical, ok := ByLevel(t.Level)
	if !ok {
		return fmt.Errorf("unknown level %d", t.Level)
	}
	if t.Operation != canonical.Operation {
		return fmt.Errorf("operation %s does not match level %d (expected %s)", t.Operation, t.Level, canonical.Operation)
	}
	return nil
}
