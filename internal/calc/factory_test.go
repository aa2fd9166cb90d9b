package calc

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/agbru/bigcalc/internal/bigint"
	"github.com/agbru/bigcalc/internal/progress"
)

func TestDefaultFactoryList(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory(Options{})
	want := []string{"adaptive", "fft", "karatsuba", "schoolbook"}
	if got := f.List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if len(f.GetAll()) != len(want) {
		t.Errorf("GetAll() returned %d calculators", len(f.GetAll()))
	}
}

func TestDefaultFactoryGet(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory(Options{KaratsubaThreshold: 4, FFTThreshold: 50})
	c, err := f.Get("karatsuba")
	if err != nil {
		t.Fatal(err)
	}
	if k := c.(*StrategyCalculator).Strategy().(bigint.Karatsuba); k.Threshold != 4 {
		t.Errorf("threshold = %d, want 4", k.Threshold)
	}
	again, _ := f.Get("karatsuba")
	if again != c {
		t.Error("calculator not cached")
	}
	if _, err := f.Get("toom3"); err == nil {
		t.Error("unknown strategy accepted")
	}
}

func TestDefaultFactoryConcurrentGet(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory(Options{})
	var wg sync.WaitGroup
	got := make([]Calculator, 16)
	for i := range got {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = f.Get("fft")
		}()
	}
	wg.Wait()
	for _, c := range got {
		if c != got[0] {
			t.Fatal("concurrent Get created distinct calculators")
		}
	}
}

type fixedCalculator struct{ v int64 }

func (fixedCalculator) Name() string { return "fixed" }
func (f fixedCalculator) Calculate(context.Context, chan<- progress.ProgressUpdate, int, Request) (bigint.BigInt, error) {
	return bigint.FromInt64(f.v), nil
}

func TestRegister(t *testing.T) {
	t.Parallel()
	f := NewFactory()
	if err := f.Register("", func() Calculator { return fixedCalculator{} }); err == nil {
		t.Error("empty name accepted")
	}
	if err := f.Register("fixed", nil); err == nil {
		t.Error("nil constructor accepted")
	}
	if err := f.Register("fixed", func() Calculator { return fixedCalculator{1} }); err != nil {
		t.Fatal(err)
	}
	_ = f.MustGet("fixed")
	if err := f.Register("fixed", func() Calculator { return fixedCalculator{2} }); err != nil {
		t.Fatal(err)
	}
	res, _ := f.MustGet("fixed").Calculate(context.Background(), nil, 0, Request{})
	if res.String() != "2" {
		t.Errorf("re-registration not honoured: got %s", res)
	}
}

func TestMustGetPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("MustGet did not panic")
		}
	}()
	NewFactory().MustGet("missing")
}

func TestGlobalFactory(t *testing.T) {
	t.Parallel()
	if GlobalFactory() != GlobalFactory() {
		t.Error("GlobalFactory is not a singleton")
	}
}
