package parser

import (
	"testing"
	"time"
)

func TestNormalizeColumnName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Data", "data"},
		{"  GMV Previsto  ", "gmv_previsto"},
		{"Cash-Repasse", "cash_repasse"},
		{"Rota\nViagem", "rota_viagem"},
		{"Código Rota", "codigo_rota"},
		{"GMV   REALIZADO", "gmv_realizado"},
	}
	for _, c := range cases {
		if got := NormalizeColumnName(c.in); got != c.want {
			t.Fatalf("NormalizeColumnName(%q) = %q, esperado %q", c.in, got, c.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-03-15", "2026-03-15"},
		{"15/03/2026", "2026-03-15"},
		{"2026-03-15 14:30:00", "2026-03-15"},
		{"45000", "2023-03-15"}, // serial do Excel
	}
	for _, c := range cases {
		got, err := ParseDate(c.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", c.in, err)
		}
		if got.Format("2006-01-02") != c.want {
			t.Fatalf("ParseDate(%q) = %s, esperado %s", c.in, got.Format("2006-01-02"), c.want)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Fatalf("ParseDate(%q) deveria truncar para o início do dia", c.in)
		}
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "não é data"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("ParseDate(%q) deveria falhar", in)
		}
	}
}

func TestParseDateSerialRoundTrip(t *testing.T) {
	// 2026-01-01 em serial do Excel
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	serial := base.Sub(excelEpoch).Hours() / 24

	got, err := ParseDate("46023")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if int(serial) != 46023 {
		t.Fatalf("serial de 2026-01-01 = %v, esperado 46023", serial)
	}
	if !got.Equal(base) {
		t.Fatalf("ParseDate(46023) = %v, esperado %v", got, base)
	}
}

func TestParseFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234.56", 1234.56},
		{"1234,56", 1234.56},
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"R$ 1.500,00", 1500},
		{"-42,5", -42.5},
		{"1.234.567", 1234567},
		{"", 0},
		{"abc", 0},
	}
	for _, c := range cases {
		if got := ParseFloat(c.in); got != c.want {
			t.Fatalf("ParseFloat(%q) = %v, esperado %v", c.in, got, c.want)
		}
	}
}
