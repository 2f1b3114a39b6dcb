package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SalaryUndisclosed is the corpus marker for listings without a published salary.
const SalaryUndisclosed = "Tidak Ditampilkan"

var undisclosedMarkers = []string{"tidak ditampilkan", "undisclosed", "not disclosed"}

var (
	salaryDash    = regexp.MustCompile(`[–—-]`)
	salaryNumber  = regexp.MustCompile(`\d[\d.,]*`)
	salaryDecimal = regexp.MustCompile(`^(\d+)[.,](\d{1,2})$`)
	salaryGrouped = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)
	salaryAmount  = regexp.MustCompile(`(?i)(\d[\d.,]*)(?:\s*(juta|jt|million|mio|ribu|rb|thousand|k)\b)?`)
	salaryRangeTo = regexp.MustCompile(`(?i)^\s*(?:[–—-]|to|sampai|s/d)\s*(?:rp\.?|idr|usd|\$)?\s*$`)
)

// salaryAmountRun is one number in a salary text with the magnitude word
// written directly after it, if any.
type salaryAmountRun struct {
	run        string
	start, end int
	multiplier int64
}

// NormalizeSalary parses a free-form salary string into the lower bound of the
// advertised range. It returns false when the salary is undisclosed, absent or
// carries no digits; a missing salary is never reported as zero.
//
// A magnitude word ("juta", "million", "ribu", ...) scales the number it
// follows. In a range it also scales the bare number before the dash, so
// "12 - 15 juta" yields 12000000. Amounts written with thousands grouping
// are never scaled.
func NormalizeSalary(s string) (int64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}
	lower := strings.ToLower(s)
	for _, marker := range undisclosedMarkers {
		if strings.Contains(lower, marker) {
			return 0, false
		}
	}

	first := salaryDash.Split(s, 2)[0]
	if salaryNumber.FindString(first) == "" {
		return 0, false
	}
	runs := salaryAmounts(s)
	if len(runs) == 0 {
		return 0, false
	}
	return parseSalaryRun(runs[0].run, runs[0].multiplier)
}

// SalaryNumbers returns every amount mentioned in s in order of appearance,
// each scaled by its own magnitude word.
func SalaryNumbers(s string) []int64 {
	runs := salaryAmounts(s)
	values := make([]int64, 0, len(runs))
	for _, r := range runs {
		if v, ok := parseSalaryRun(r.run, r.multiplier); ok {
			values = append(values, v)
		}
	}
	return values
}

func salaryAmounts(s string) []salaryAmountRun {
	matches := salaryAmount.FindAllStringSubmatchIndex(s, -1)
	runs := make([]salaryAmountRun, 0, len(matches))
	for _, m := range matches {
		r := salaryAmountRun{run: s[m[2]:m[3]], start: m[0], end: m[1], multiplier: 1}
		if m[4] >= 0 && !salaryGrouped.MatchString(strings.TrimRight(r.run, ".,")) {
			r.multiplier = magnitude(s[m[4]:m[5]])
		}
		runs = append(runs, r)
	}

	// "12 - 15 juta": the bare lower bound borrows the upper bound's magnitude.
	for i := len(runs) - 2; i >= 0; i-- {
		cur, next := &runs[i], runs[i+1]
		if cur.multiplier != 1 || next.multiplier == 1 {
			continue
		}
		if salaryGrouped.MatchString(strings.TrimRight(cur.run, ".,")) {
			continue
		}
		if salaryRangeTo.MatchString(s[cur.end:next.start]) {
			cur.multiplier = next.multiplier
		}
	}
	return runs
}

func magnitude(word string) int64 {
	switch strings.ToLower(word) {
	case "juta", "jt", "million", "mio":
		return 1_000_000
	case "ribu", "rb", "thousand", "k":
		return 1_000
	}
	return 1
}

func parseSalaryRun(run string, multiplier int64) (int64, bool) {
	run = strings.TrimRight(run, ".,")

	// "9,5 juta": with a magnitude word a short fractional group is a decimal part.
	if multiplier > 1 {
		if m := salaryDecimal.FindStringSubmatch(run); m != nil {
			whole, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return 0, false
			}
			frac, _ := strconv.ParseInt(m[2], 10, 64)
			scale := int64(10)
			if len(m[2]) == 2 {
				scale = 100
			}
			if whole > math.MaxInt64/multiplier {
				return 0, false
			}
			return whole*multiplier + frac*multiplier/scale, true
		}
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, run)
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || v > math.MaxInt64/multiplier {
		return 0, false
	}
	return v * multiplier, true
}

// FormatSalaryRange renders stored salary bounds as display text. Zero bounds
// mean undisclosed. The result always normalizes back to the lower bound.
func FormatSalaryRange(min, max int64) string {
	if min <= 0 && max <= 0 {
		return SalaryUndisclosed
	}
	if min <= 0 {
		min = max
	}
	if max < min {
		min, max = max, min
		if min <= 0 {
			min = max
		}
	}
	if max == min {
		return formatRupiah(min)
	}
	return formatRupiah(min) + " – " + formatRupiah(max)
}

func formatRupiah(v int64) string {
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	b.WriteString("Rp ")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
