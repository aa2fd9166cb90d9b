package orchestration

import (
	"testing"

	"github.com/agbru/bigcalc/internal/calc"
)

func TestGetCalculatorsToRun(t *testing.T) {
	t.Parallel()
	factory := calc.NewDefaultFactory(calc.Options{})

	all := GetCalculatorsToRun("all", factory)
	want := []string{"adaptive", "fft", "karatsuba", "schoolbook"}
	if len(all) != len(want) {
		t.Fatalf("got %d calculators, want %d", len(all), len(want))
	}
	for i, c := range all {
		if c.Name() != want[i] {
			t.Errorf("calculator %d = %q, want %q", i, c.Name(), want[i])
		}
	}

	if one := GetCalculatorsToRun("fft", factory); len(one) != 1 || one[0].Name() != "fft" {
		t.Errorf("single selection = %v", one)
	}
	if none := GetCalculatorsToRun("toom3", factory); none != nil {
		t.Errorf("unknown selection = %v, want nil", none)
	}
}
