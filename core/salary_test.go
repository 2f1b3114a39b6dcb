package core

import "testing"

func TestNormalizeSalary(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{name: "range with en dash", input: "Rp 12.000.000 – Rp 18.000.000", want: 12_000_000, wantOK: true},
		{name: "range with suffix", input: "Rp 12.000.000 – Rp 18.000.000 per month", want: 12_000_000, wantOK: true},
		{name: "single value", input: "Rp 9.500.000", want: 9_500_000, wantOK: true},
		{name: "hyphen range", input: "Rp 7.000.000 - Rp 9.000.000", want: 7_000_000, wantOK: true},
		{name: "em dash range", input: "Rp 25.000.000—Rp 55.000.000", want: 25_000_000, wantOK: true},
		{name: "comma grouping", input: "IDR 10,000,000", want: 10_000_000, wantOK: true},
		{name: "undisclosed sentinel", input: "Tidak Ditampilkan", wantOK: false},
		{name: "undisclosed lowercase", input: "gaji tidak ditampilkan", wantOK: false},
		{name: "no digits", input: "World Class Benefits", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace", input: "   ", wantOK: false},
		{name: "juta magnitude", input: "Rp 12 juta", want: 12_000_000, wantOK: true},
		{name: "juta applies to whole range", input: "12 - 15 juta", want: 12_000_000, wantOK: true},
		{name: "jt abbreviation", input: "8jt/bulan", want: 8_000_000, wantOK: true},
		{name: "million with decimal", input: "9.5 million", want: 9_500_000, wantOK: true},
		{name: "juta with decimal comma", input: "Rp 7,25 juta", want: 7_250_000, wantOK: true},
		{name: "thousand suffix", input: "USD 3k", want: 3_000, wantOK: true},
		{name: "multiple numbers without dash takes first", input: "Rp 10.000.000 plus 2 bonus", want: 10_000_000, wantOK: true},
		{name: "dash before digits", input: "- negotiable", wantOK: false},
		{name: "grouped amount ignores K3 token", input: "Rp 5.000.000 + K3", want: 5_000_000, wantOK: true},
		{name: "grouped amount ignores later jt", input: "Rp 6.500.000 (bonus 1 jt)", want: 6_500_000, wantOK: true},
		{name: "bare amount ignores later magnitude", input: "Rp 7500000 plus 1 jt", want: 7_500_000, wantOK: true},
		{name: "ribu allowance after amount", input: "Rp 4.000.000, tunjangan 500 ribu", want: 4_000_000, wantOK: true},
		{name: "sampai range", input: "5 sampai 7 juta", want: 5_000_000, wantOK: true},
		{name: "magnitude on both bounds", input: "Rp 3 jt - Rp 4 jt", want: 3_000_000, wantOK: true},
		{name: "grouped magnitude not rescaled", input: "Rp 8.000.000 juta", want: 8_000_000, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeSalary(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeSalary(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("NormalizeSalary(%q) = %d, want %d", tt.input, got, tt.want)
			}
			if !ok && got != 0 {
				t.Errorf("NormalizeSalary(%q) returned %d alongside false", tt.input, got)
			}
		})
	}
}

func TestSalaryNumbers(t *testing.T) {
	got := SalaryNumbers("Rp 5 - 8 juta, bonus 2025")
	want := []int64{5_000_000, 8_000_000, 2025}
	if len(got) != len(want) {
		t.Fatalf("SalaryNumbers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SalaryNumbers()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFormatSalaryRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int64
		want     string
	}{
		{name: "undisclosed", min: 0, max: 0, want: SalaryUndisclosed},
		{name: "single value", min: 9_500_000, max: 9_500_000, want: "Rp 9.500.000"},
		{name: "range", min: 12_000_000, max: 18_000_000, want: "Rp 12.000.000 – Rp 18.000.000"},
		{name: "only max", min: 0, max: 20_000_000, want: "Rp 20.000.000"},
		{name: "small value", min: 750, max: 750, want: "Rp 750"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSalaryRange(tt.min, tt.max); got != tt.want {
				t.Errorf("FormatSalaryRange(%d, %d) = %q, want %q", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestFormatSalaryRange_NormalizesToLowerBound(t *testing.T) {
	pairs := [][2]int64{
		{1_000_000, 2_000_000},
		{12_345_678, 98_765_432},
		{600_000, 600_000},
		{0, 4_200_000},
	}
	for _, p := range pairs {
		text := FormatSalaryRange(p[0], p[1])
		want := p[0]
		if want == 0 {
			want = p[1]
		}
		got, ok := NormalizeSalary(text)
		if !ok || got != want {
			t.Errorf("NormalizeSalary(FormatSalaryRange(%d, %d)) = %d, %v; want %d", p[0], p[1], got, ok, want)
		}
	}
}
