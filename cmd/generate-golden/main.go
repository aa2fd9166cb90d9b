// Command generate-golden writes the reference results used by the bigint
// golden tests. Results are computed with math/big, which serves as an
// independent oracle, and written as JSON.
//
// Usage:
//
//	go run ./cmd/generate-golden -out internal/bigint/testdata/golden.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"math/rand"
	"os"
	"strings"
)

type goldenFile struct {
	Description string       `json:"description"`
	Cases       []goldenCase `json:"cases"`
}

type goldenCase struct {
	Op   string `json:"op"`
	A    string `json:"a"`
	B    string `json:"b"`
	M    string `json:"m,omitempty"`
	Want string `json:"want"`
}

func main() {
	out := flag.String("out", "internal/bigint/testdata/golden.json", "output path")
	seed := flag.Int64("seed", 20260419, "random seed for generated operands")
	flag.Parse()

	g := generate(rand.New(rand.NewSource(*seed)))
	data, err := json.MarshalIndent(g, "", " ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d cases to %s\n", len(g.Cases), *out)
}

func generate(r *rand.Rand) goldenFile {
	pairs := [][2]string{
		{"12345678901234567890", "98765432109876543210"},
		{"-12345678901234567890", "12345678901234567890"},
		{"0", "-5"},
		{"999999999999999999999999999", "1"},
		{"1000000000000000000", "-999999999"},
	}
	for _, d := range [][2]int{{30, 30}, {100, 40}, {500, 499}, {1200, 1100}, {4000, 3500}, {9000, 20}} {
		pairs = append(pairs, [2]string{randomDecimal(r, d[0], r.Intn(2) == 0), randomDecimal(r, d[1], r.Intn(2) == 0)})
	}

	var cases []goldenCase
	for _, p := range pairs {
		a, b := parse(p[0]), parse(p[1])
		cases = append(cases,
			goldenCase{Op: "add", A: p[0], B: p[1], Want: new(big.Int).Add(a, b).String()},
			goldenCase{Op: "sub", A: p[0], B: p[1], Want: new(big.Int).Sub(a, b).String()},
			goldenCase{Op: "mul", A: p[0], B: p[1], Want: new(big.Int).Mul(a, b).String()},
		)
		if b.Sign() != 0 {
			q, rem := new(big.Int).QuoRem(a, b, new(big.Int))
			cases = append(cases,
				goldenCase{Op: "quo", A: p[0], B: p[1], Want: q.String()},
				goldenCase{Op: "rem", A: p[0], B: p[1], Want: rem.String()},
			)
		}
	}

	for _, me := range [][3]string{
		{"5", "3", "13"},
		{"12345678901234567890", "20", "10000000000000000000"},
		{randomDecimal(r, 60, false), "65537", randomDecimal(r, 40, false)},
		{randomDecimal(r, 25, true), "31", randomDecimal(r, 20, false)},
		{"2", "1000", randomDecimal(r, 30, false)},
	} {
		want := truncatedModExp(parse(me[0]), parse(me[1]), parse(me[2]))
		cases = append(cases, goldenCase{Op: "modexp", A: me[0], B: me[1], M: me[2], Want: want.String()})
	}

	return goldenFile{
		Description: "Reference results for signed arbitrary-precision arithmetic (truncated division).",
		Cases:       cases,
	}
}

// truncatedModExp returns base^exp reduced with a truncated remainder, so a
// negative base raised to an odd power yields a non-positive result.
func truncatedModExp(base, exp, mod *big.Int) *big.Int {
	m := new(big.Int).Abs(mod)
	r := new(big.Int).Exp(new(big.Int).Abs(base), exp, m)
	if base.Sign() < 0 && exp.Bit(0) == 1 {
		r.Neg(r)
	}
	return r
}

func randomDecimal(r *rand.Rand, digits int, neg bool) string {
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte(byte('1' + r.Intn(9)))
	for i := 1; i < digits; i++ {
		sb.WriteByte(byte('0' + r.Intn(10)))
	}
	return sb.String()
}

func parse(s string) *big.Int {
	z, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid literal " + s)
	}
	return z
}
