// Package dice implements resizable damage dice pools on top of the
// rpg-toolkit roller.
package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=dicemock github.com/KirkDiggler/rpg-toolkit/dice Roller

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rise-gen/internal/errors"
)

// Roller is the source of randomness for every roll in the simulator.
type Roller = dice.Roller

// DefaultRoller is safe for concurrent use across trials.
var DefaultRoller Roller = dice.DefaultRoller

var (
	termRegex  = regexp.MustCompile(`^(\d*)d(\d+)$`)
	bonusRegex = regexp.MustCompile(`^\d+$`)
)

// Die is Count dice of the same Size.
type Die struct {
	Size  int `json:"size" yaml:"size"`
	Count int `json:"count" yaml:"count"`
}

// NewDie returns count dice of the given size.
func NewDie(count, size int) Die {
	return Die{Size: size, Count: count}
}

// OnLadder reports whether the die size can be resized.
func (d Die) OnLadder() bool {
	switch d.Size {
	case 1, 2, 3, 4, 6, 8, 10:
		return true
	}
	return false
}

// Resize moves the die steps rungs along the size ladder; negative steps
// shrink it.
func (d Die) Resize(steps int) (Die, error) {
	var err error
	for ; steps > 0 && err == nil; steps-- {
		err = d.increase()
	}
	for ; steps < 0 && err == nil; steps++ {
		err = d.decrease()
	}
	return d, err
}

// ladder: 1 2 3 4 6 8 10, and d10 wraps to twice as many d6
func (d *Die) increase() error {
	switch {
	case d.Size >= 1 && d.Size <= 3:
		d.Size++
	case d.Size == 4 || d.Size == 6 || d.Size == 8:
		d.Size += 2
	case d.Size == 10:
		d.Size = 6
		d.Count *= 2
	default:
		return errors.InvalidArgumentf("impossible die size d%d", d.Size)
	}
	return nil
}

// decrease undoes increase; only even counts of d6 fold back into d10.
func (d *Die) decrease() error {
	switch {
	case d.Size == 1:
	case d.Size >= 2 && d.Size <= 4:
		d.Size--
	case d.Size == 6 && d.Count > 1 && d.Count%2 == 0:
		d.Size = 10
		d.Count /= 2
	case d.Size == 6 || d.Size == 8 || d.Size == 10:
		d.Size -= 2
	default:
		return errors.InvalidArgumentf("impossible die size d%d", d.Size)
	}
	return nil
}

// Average is the expected value of a roll.
func (d Die) Average() float64 {
	return float64(d.Count) * float64(1+d.Size) / 2
}

// Maximum is the highest possible roll.
func (d Die) Maximum() int {
	return d.Count * d.Size
}

func (d Die) String() string {
	return fmt.Sprintf("%dd%d", d.Count, d.Size)
}

// Pool is an ordered collection of dice plus a flat bonus. Effects mutate
// pools in place, so callers Copy before handing one to another creature.
type Pool struct {
	Dice  []Die `json:"dice" yaml:"dice"`
	Bonus int   `json:"bonus,omitempty" yaml:"bonus,omitempty"`
}

// NewPool returns a pool holding the given dice.
func NewPool(ds ...Die) *Pool {
	return &Pool{Dice: append([]Die(nil), ds...)}
}

// Parse reads notation such as "d8", "3d6" or "2d6+1d4-1".
func Parse(notation string) (*Pool, error) {
	p := &Pool{}
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(notation)), " ", "")
	if s == "" {
		return p, nil
	}
	s = strings.ReplaceAll(s, "-", "+-")

	for _, term := range strings.Split(s, "+") {
		if term == "" {
			continue
		}
		sign := 1
		if strings.HasPrefix(term, "-") {
			sign = -1
			term = term[1:]
		}

		if bonusRegex.MatchString(term) {
			n, err := strconv.Atoi(term)
			if err != nil {
				return nil, errors.InvalidArgumentf("invalid dice bonus in notation: %s", notation)
			}
			p.Bonus += sign * n
			continue
		}

		matches := termRegex.FindStringSubmatch(term)
		if len(matches) != 3 || sign < 0 {
			return nil, errors.InvalidArgumentf("invalid dice notation: %s (expected format: XdY+Z)", notation)
		}
		count := 1
		if matches[1] != "" {
			count, _ = strconv.Atoi(matches[1])
		}
		size, _ := strconv.Atoi(matches[2])
		if count <= 0 || size <= 0 {
			return nil, errors.InvalidArgumentf("dice count and size must be positive: %s", notation)
		}
		p.Dice = append(p.Dice, Die{Size: size, Count: count})
	}
	return p, nil
}

// MustParse is Parse for notation known to be valid at compile time.
func MustParse(notation string) *Pool {
	p, err := Parse(notation)
	if err != nil {
		panic(err)
	}
	return p
}

// Copy returns a deep copy. A nil pool copies to an empty one.
func (p *Pool) Copy() *Pool {
	if p == nil {
		return &Pool{}
	}
	return &Pool{Dice: append([]Die(nil), p.Dice...), Bonus: p.Bonus}
}

// AddDie appends d to the pool.
func (p *Pool) AddDie(d Die) *Pool {
	if d.Count > 0 {
		p.Dice = append(p.Dice, d)
	}
	return p
}

// RemoveDie removes the first die equal to d, if any.
func (p *Pool) RemoveDie(d Die) *Pool {
	for i, existing := range p.Dice {
		if existing == d {
			p.Dice = append(p.Dice[:i], p.Dice[i+1:]...)
			break
		}
	}
	return p
}

// AddCount adds n dice to the i-th entry.
func (p *Pool) AddCount(i, n int) *Pool {
	if i >= 0 && i < len(p.Dice) {
		p.Dice[i].Count += n
	}
	return p
}

// ResizeDie resizes the i-th entry by steps.
func (p *Pool) ResizeDie(i, steps int) error {
	if i < 0 || i >= len(p.Dice) {
		return errors.InvalidArgumentf("no die at index %d in %s", i, p)
	}
	resized, err := p.Dice[i].Resize(steps)
	if err != nil {
		return err
	}
	p.Dice[i] = resized
	return nil
}

// Resize resizes every die in the pool by steps.
func (p *Pool) Resize(steps int) error {
	for i := range p.Dice {
		if err := p.ResizeDie(i, steps); err != nil {
			return err
		}
	}
	return nil
}

// Roll rolls every die with r and adds the bonus.
func (p *Pool) Roll(r Roller) (int, error) {
	if p == nil {
		return 0, nil
	}
	total := p.Bonus
	for _, d := range p.Dice {
		if d.Count <= 0 {
			continue
		}
		rolls, err := r.RollN(d.Count, d.Size)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to roll %s", d)
		}
		for _, v := range rolls {
			total += v
		}
	}
	return total, nil
}

// Average is the expected value of Roll.
func (p *Pool) Average() float64 {
	if p == nil {
		return 0
	}
	total := float64(p.Bonus)
	for _, d := range p.Dice {
		total += d.Average()
	}
	return total
}

// Maximum is the highest value Roll can return.
func (p *Pool) Maximum() int {
	if p == nil {
		return 0
	}
	total := p.Bonus
	for _, d := range p.Dice {
		total += d.Maximum()
	}
	return total
}

// IsEmpty reports whether the pool has no dice and no bonus.
func (p *Pool) IsEmpty() bool {
	return p == nil || (len(p.Dice) == 0 && p.Bonus == 0)
}

func (p *Pool) String() string {
	if p == nil || len(p.Dice) == 0 {
		if p == nil {
			return "0"
		}
		return strconv.Itoa(p.Bonus)
	}
	parts := make([]string, len(p.Dice))
	for i, d := range p.Dice {
		parts[i] = d.String()
	}
	s := strings.Join(parts, "+")
	switch {
	case p.Bonus > 0:
		s += fmt.Sprintf("+%d", p.Bonus)
	case p.Bonus < 0:
		s += fmt.Sprintf("%d", p.Bonus)
	}
	return s
}
