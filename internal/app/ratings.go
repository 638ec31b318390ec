package app

import "fmt"

// MaxStars is the top of the rating scale
const MaxStars = 5

// Ratings is the star state of a rating form. The filled stars are the
// source of truth: a rating is read back by counting them.
type Ratings struct {
	order []string
	stars map[string][MaxStars]bool
}

// NewRatings starts every attribute unrated
func NewRatings(attributes []string) Ratings {
	r := Ratings{
		order: append([]string(nil), attributes...),
		stars: make(map[string][MaxStars]bool, len(attributes)),
	}
	for _, a := range attributes {
		r.stars[a] = [MaxStars]bool{}
	}
	return r
}

// Attributes returns the rated attribute names in form order
func (r Ratings) Attributes() []string {
	return append([]string(nil), r.order...)
}

// Set fills stars 1..value of attribute and clears the rest. Unknown
// attributes and values outside 1..5 are ignored.
func (r *Ratings) Set(attribute string, value int) bool {
	if _, ok := r.stars[attribute]; !ok || value < 1 || value > MaxStars {
		return false
	}
	var row [MaxStars]bool
	for i := 0; i < value; i++ {
		row[i] = true
	}
	r.stars[attribute] = row
	return true
}

// Filled reports whether star i (1-based) of attribute is filled
func (r Ratings) Filled(attribute string, i int) bool {
	if i < 1 || i > MaxStars {
		return false
	}
	return r.stars[attribute][i-1]
}

// Value counts the filled stars of attribute
func (r Ratings) Value(attribute string) int {
	n := 0
	for _, filled := range r.stars[attribute] {
		if filled {
			n++
		}
	}
	return n
}

// Label is the "i/5" text next to the stars
func (r Ratings) Label(attribute string) string {
	return fmt.Sprintf("%d/%d", r.Value(attribute), MaxStars)
}

// Map reads back every rating, one entry per attribute
func (r Ratings) Map() map[string]int {
	out := make(map[string]int, len(r.order))
	for _, a := range r.order {
		out[a] = r.Value(a)
	}
	return out
}

// Complete reports whether every attribute has at least one star
func (r Ratings) Complete() bool {
	for _, a := range r.order {
		if r.Value(a) == 0 {
			return false
		}
	}
	return true
}

func (r Ratings) clone() Ratings {
	out := Ratings{order: r.order}
	if r.stars != nil {
		out.stars = make(map[string][MaxStars]bool, len(r.stars))
		for k, v := range r.stars {
			out.stars[k] = v
		}
	}
	return out
}
