// Package question generates mental-math drills and judges submitted answers.
// All arithmetic runs on exact decimals so integral results stay integral.
package question

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/mathtrainer/internal/models"
	"github.com/example/mathtrainer/internal/topic"
)

// answerPlaces is the scale division and percentage answers are rounded to.
const answerPlaces = 10

// Generator produces questions for catalog topics. The zero value is not
// usable; construct with NewGenerator.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededGenerator fixes the random source, for tests.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds a question for the topic. The operand ranges are fixed per
// level; only the draw within the range is random.
func (g *Generator) Generate(t topic.Topic) (models.Question, error) {
	if err := t.Validate(); err != nil {
		return models.Question{}, err
	}

	switch t.Level {
	case 1: // multiply 2-digit numbers by 11
		n := g.intn(10, 99)
		return g.build(t, n, 11, fmt.Sprintf("%d × 11", n)), nil
	case 2: // multiply 3-digit numbers by 11
		n := g.intn(100, 999)
		return g.build(t, n, 11, fmt.Sprintf("%d × 11", n)), nil
	case 3: // squares ending in 5
		base := g.pick(15, 25, 35, 45, 55, 65, 75, 85, 95)
		return g.build(t, base, base, fmt.Sprintf("%d²", base)), nil
	case 4: // both operands near 100
		a, b := g.intn(91, 109), g.intn(91, 109)
		return g.build(t, a, b, fmt.Sprintf("%d × %d", a, b)), nil
	case 5:
		a, b := g.intn(10, 99), g.intn(10, 99)
		return g.build(t, a, b, fmt.Sprintf("%d × %d", a, b)), nil
	case 6:
		a, b := g.intn(100, 999), g.intn(2, 9)
		return g.build(t, a, b, fmt.Sprintf("%d × %d", a, b)), nil
	case 7:
		a, b := g.intn(100, 999), g.intn(10, 99)
		return g.build(t, a, b, fmt.Sprintf("%d × %d", a, b)), nil
	case 8:
		a, b := g.intn(1000, 9999), g.intn(10, 99)
		return g.build(t, a, b, fmt.Sprintf("%d × %d", a, b)), nil
	case 9: // division constructed to divide evenly
		divisor := g.intn(2, 12)
		dividend := divisor * g.intn(10, 100)
		return g.build(t, dividend, divisor, fmt.Sprintf("%d ÷ %d", dividend, divisor)), nil
	case 10:
		a, b := g.intn(100, 999), g.intn(3, 9)
		return g.build(t, a, b, fmt.Sprintf("%d ÷ %d", a, b)), nil
	case 11:
		pct := g.pick(5, 10, 15, 20, 25, 30, 40, 50, 75)
		value := g.intn(20, 500)
		return g.build(t, pct, value, fmt.Sprintf("%d%% of %d", pct, value)), nil
	case 12:
		a, b := g.intn(100, 9999), g.intn(100, 9999)
		return g.build(t, a, b, fmt.Sprintf("%d + %d", a, b)), nil
	case 13:
		a := g.intn(500, 9999)
		b := g.intn(100, a-1)
		return g.build(t, a, b, fmt.Sprintf("%d − %d", a, b)), nil
	}
	return models.Question{}, fmt.Errorf("no generator for level %d", t.Level)
}

func (g *Generator) build(t topic.Topic, op1, op2 int, text string) models.Question {
	a := decimal.NewFromInt(int64(op1))
	b := decimal.NewFromInt(int64(op2))
	return models.Question{
		Operation:     t.Operation,
		Level:         t.Level,
		Operand1:      a,
		Operand2:      b,
		CorrectAnswer: Solve(t.Operation, a, b),
		QuestionText:  text,
	}
}

// Solve computes the exact answer for an operation. Division and percentage
// results are rounded half-up to ten decimal places.
func Solve(op topic.Operation, a, b decimal.Decimal) decimal.Decimal {
	switch op {
	case topic.Addition:
		return a.Add(b)
	case topic.Subtraction:
		return a.Sub(b)
	case topic.Multiplication:
		return a.Mul(b)
	case topic.Division:
		return a.DivRound(b, answerPlaces)
	case topic.Percentage:
		return a.Mul(b).DivRound(decimal.NewFromInt(100), answerPlaces)
	}
	return decimal.Zero
}

// intn draws uniformly from [lo, hi] inclusive.
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) pick(choices ...int) int {
	return choices[g.rng.Intn(len(choices))]
}
