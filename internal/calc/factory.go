package calc

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/agbru/bigcalc/internal/bigint"
	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// CalculatorFactory creates calculators by strategy name.
type CalculatorFactory interface {
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// List returns the registered names, sorted.
	List() []string
	// Register adds or replaces a calculator constructor.
	Register(name string, creator func() Calculator) error
}

// Options holds the crossover points used by the default strategies, in
// limbs. Zero values select the package defaults of bigint.
type Options struct {
	KaratsubaThreshold int
	FFTThreshold       int
}

// DefaultFactory is a thread-safe CalculatorFactory that creates each
// calculator lazily and caches it.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() Calculator
	calculators map[string]Calculator
}

// NewFactory returns an empty factory.
func NewFactory() *DefaultFactory {
	return &DefaultFactory{
		creators:    make(map[string]func() Calculator),
		calculators: make(map[string]Calculator),
	}
}

// NewDefaultFactory returns a factory with the schoolbook, karatsuba, fft
// and adaptive strategies configured from opts.
func NewDefaultFactory(opts Options) *DefaultFactory {
	f := NewFactory()
	strategies := []bigint.Multiplier{
		bigint.Schoolbook{},
		bigint.Karatsuba{Threshold: opts.KaratsubaThreshold},
		bigint.FFT{},
		bigint.Adaptive{KaratsubaThreshold: opts.KaratsubaThreshold, FFTThreshold: opts.FFTThreshold},
	}
	for _, s := range strategies {
		s := s
		f.creators[s.Name()] = func() Calculator { return NewCalculator(s) }
	}
	return f
}

// Register implements CalculatorFactory.
func (f *DefaultFactory) Register(name string, creator func() Calculator) error {
	if name == "" {
		return apperrors.NewConfigError("calculator name must not be empty")
	}
	if creator == nil {
		return apperrors.NewConfigError("nil constructor for calculator %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.calculators, name)
	return nil
}

// Get implements CalculatorFactory.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	c, ok := f.calculators[name]
	f.mu.RUnlock()
	if ok {
		return c, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.calculators[name]; ok {
		return c, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, apperrors.NewConfigError("unknown strategy %q (available: %s)", name, strings.Join(f.listLocked(), ", "))
	}
	c = creator()
	f.calculators[name] = c
	return c, nil
}

// MustGet is Get that panics on an unknown name.
func (f *DefaultFactory) MustGet(name string) Calculator {
	c, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("calc: %v", err))
	}
	return c
}

// List implements CalculatorFactory.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.listLocked()
}

func (f *DefaultFactory) listLocked() []string {
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetAll returns every registered calculator keyed by name.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	all := make(map[string]Calculator)
	for _, name := range f.List() {
		if c, err := f.Get(name); err == nil {
			all[name] = c
		}
	}
	return all
}

var globalFactory = sync.OnceValue(func() *DefaultFactory {
	return NewDefaultFactory(Options{})
})

// GlobalFactory returns a process-wide factory with default thresholds.
func GlobalFactory() *DefaultFactory {
	return globalFactory()
}
