package draw

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Game rules for the front and back zones.
const (
	FrontCount = 5
	FrontMax   = 35
	BackCount  = 2
	BackMax    = 12
)

// Draw is one lottery draw result. Values are not modified after creation.
type Draw struct {
	Period       string   `json:"period"`
	DrawDate     string   `json:"draw_date"`
	FrontNumbers []int    `json:"front_numbers"`
	BackNumbers  []int    `json:"back_numbers"`
	TotalSales   *float64 `json:"total_sales"`
	PrizePool    *float64 `json:"prize_pool"`
}

// New builds a Draw from already-parsed parts. The date text is normalized.
func New(period, dateText string, front, back []int, sales, pool *float64) *Draw {
	return &Draw{
		Period:       strings.TrimSpace(period),
		DrawDate:     NormalizeDate(dateText),
		FrontNumbers: front,
		BackNumbers:  back,
		TotalSales:   sales,
		PrizePool:    pool,
	}
}

// FrontString returns the front numbers comma-joined in source order.
func (d *Draw) FrontString() string {
	return JoinNumbers(d.FrontNumbers)
}

// BackString returns the back numbers comma-joined in source order.
func (d *Draw) BackString() string {
	return JoinNumbers(d.BackNumbers)
}

// Validate checks the period, the zone arities and the number ranges.
func (d *Draw) Validate() error {
	if d.Period == "" {
		return errors.New("empty period")
	}
	if err := checkZone("front", d.FrontNumbers, FrontCount, FrontMax); err != nil {
		return err
	}
	if err := checkZone("back", d.BackNumbers, BackCount, BackMax); err != nil {
		return err
	}
	if d.TotalSales != nil && *d.TotalSales < 0 {
		return errors.New("negative total sales")
	}
	if d.PrizePool != nil && *d.PrizePool < 0 {
		return errors.New("negative prize pool")
	}
	return nil
}

func checkZone(zone string, nums []int, count, max int) error {
	if len(nums) != count {
		return fmt.Errorf("%s zone has %d numbers, want %d", zone, len(nums), count)
	}
	for _, n := range nums {
		if n < 1 || n > max {
			return fmt.Errorf("%s zone number %d out of range 1-%d", zone, n, max)
		}
	}
	return nil
}

// JoinNumbers renders numbers as "3,5,12".
func JoinNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// ParseNumbers converts ball texts such as "03" to integers, keeping order.
func ParseNumbers(tokens []string) ([]int, error) {
	nums := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", tok)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// ParseNumberList parses the comma-joined form produced by JoinNumbers.
func ParseNumberList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return ParseNumbers(strings.Split(s, ","))
}

// Unique drops later draws whose period was already seen, keeping order.
func Unique(draws []*Draw) []*Draw {
	seen := make(map[string]bool, len(draws))
	unique := make([]*Draw, 0, len(draws))
	for _, d := range draws {
		if seen[d.Period] {
			continue
		}
		seen[d.Period] = true
		unique = append(unique, d)
	}
	return unique
}
