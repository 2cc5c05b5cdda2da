package policy

import (
	"reflect"
	"strings"
	"testing"

	"github.com/prestafacil/avaluador/internal/device"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	ev, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ev
}

func specWith(t *testing.T, processor string, disk device.DiskType, generation *int) device.Specification {
	t.Helper()
	return device.Specification{
		FormFactor:          device.FormFactorLaptop,
		Brand:               "Lenovo",
		ProcessorModel:      processor,
		ProcessorGeneration: generation,
		RAMGB:               16,
		DiskCapacityGB:      512,
		DiskType:            disk,
		Condition:           device.ConditionGood,
	}
}

func intp(n int) *int { return &n }

// ─── Individual rules ──────────────────────────────────────────────────

func TestEvaluateEligible(t *testing.T) {
	t.Parallel()
	ev := newEvaluator(t)

	verdict := ev.Evaluate(specWith(t, "Intel Core i5 11th gen", device.DiskSSD, intp(11)))
	if !verdict.Eligible {
		t.Fatalf("expected eligible, got violations %+v", verdict.Violations)
	}
	if len(verdict.Violations) != 0 {
		t.Fatalf("expected no violations, got %d", len(verdict.Violations))
	}
}

func TestEvaluateExcludedFamily(t *testing.T) {
	t.Parallel()
	ev := newEvaluator(t)

	verdict := ev.Evaluate(specWith(t, "Intel Celeron N4000", device.DiskSSD, nil))
	if verdict.Eligible {
		t.Fatal("celeron must not be eligible")
	}
	if !verdict.Has(CodeCPUExcluded) {
		t.Fatalf("missing cpu_excluded, got %+v", verdict.Violations)
	}
	for _, v := range verdict.Violations {
		if v.Code == CodeCPUExcluded && !strings.Contains(v.Message, "Celeron") {
			t.Errorf("exclusion message should name the family: %q", v.Message)
		}
	}
}

func TestEvaluateExcludedIsAccentAndCaseInsensitive(t *testing.T) {
	t.Parallel()
	ev := newEvaluator(t)

	for _, proc := range []string{"INTEL CELERON J4125", "Intel Celerón N4020", "pentium gold g6400"} {
		verdict := ev.Evaluate(specWith(t, proc, device.DiskSSD, intp(12)))
		if !verdict.Has(CodeCPUExcluded) {
			t.Errorf("%q: expected cpu_excluded", proc)
		}
	}
}

// Unknown generation and low generation are different situations and must
// be distinguishable in both code and message.
func TestEvaluateGenerationUnknownVsTooLow(t *testing.T) {
	t.Parallel()
	ev := newEvaluator(t)

	unknown := ev.Evaluate(specWith(t, "Core i3", device.DiskSSD, nil))
	if !unknown.Has(CodeCPUGenerationUnknown) {
		t.Fatalf("want cpu_generation_unknown, got %+v", unknown.Violations)
	}
	if unknown.Has(CodeCPUGenerationTooLow) {
		t.Fatal("unknown generation must not also report too_low")
	}

	low := ev.Evaluate(specWith(t, "Core i3 8th gen", device.DiskSSD, intp(8)))
	if !low.Has(CodeCPUGenerationTooLow) {
		t.Fatalf("want cpu_generation_too_low, got %+v", low.Violations)
	}
	if low.Has(CodeCPUGenerationUnknown) {
		t.Fatal("known generation must not also report unknown")
	}

	var unknownMsg, lowMsg string
	for _, v := range unknown.Violations {
		if v.Code == CodeCPUGenerationUnknown {
			unknownMsg = v.Message
		}
	}
	for _, v := range low.Violations {
		if v.Code == CodeCPUGenerationTooLow {
			lowMsg = v.Message
		}
	}
	if unknownMsg == lowMsg {
		t.Errorf("messages must differ: %q", unknownMsg)
	}
}

func TestEvaluateDiskRule(t *testing.T) {
	t.Parallel()
	ev := newEvaluator(t)

	verdict := ev.Evaluate(specWith(t, "Intel Core i5 11th gen", device.DiskHDD, intp(11)))
	if verdict.Eligible {
		t.Fatal("hdd must not be eligible")
	}
	if !verdict.Has(CodeDiskNotSSD) {
		t.Fatalf("missing disk_not_ssd, got %+v", verdict.Violations)
	}
}

// ─── Collection semantics ──────────────────────────────────────────────

// Every applicable rule reports; nothing short-circuits.
func TestEvaluateCollectsAllViolations(t *testing.T) {
	t.Parallel()
	ev := newEvaluator(t)

	verdict := ev.Evaluate(specWith(t, "Intel Celeron N4000", device.DiskHDD, nil))
	wantOrder := []Code{CodeCPUExcluded, CodeCPUGenerationUnknown, CodeDiskNotSSD}
	if len(verdict.Violations) != len(wantOrder) {
		t.Fatalf("violations = %+v, want %d entries", verdict.Violations, len(wantOrder))
	}
	for i, code := range wantOrder {
		if verdict.Violations[i].Code != code {
			t.Errorf("violation[%d] = %s, want %s", i, verdict.Violations[i].Code, code)
		}
	}
}

func TestEvaluateIsPure(t *testing.T) {
	t.Parallel()
	ev := newEvaluator(t)

	spec := specWith(t, "Core i3 8th gen", device.DiskHDD, intp(8))
	first := ev.Evaluate(spec)
	second := ev.Evaluate(spec)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("verdicts differ:\n%+v\n%+v", first, second)
	}
}

// ─── Configuration ─────────────────────────────────────────────────────

func TestEvaluatePerFamilyFloor(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MinGeneration = 8
	cfg.GenerationFloors = map[string]int{device.FamilyCoreI3: 10}
	ev, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// 9th gen i7 passes the relaxed global floor.
	if verdict := ev.Evaluate(specWith(t, "Intel Core i7 9th gen", device.DiskSSD, intp(9))); !verdict.Eligible {
		t.Errorf("i7 9th gen should pass floor 8: %+v", verdict.Violations)
	}
	// 9th gen i3 still fails its specific floor of 10.
	if verdict := ev.Evaluate(specWith(t, "Intel Core i3 9th gen", device.DiskSSD, intp(9))); !verdict.Has(CodeCPUGenerationTooLow) {
		t.Errorf("i3 9th gen should fail floor 10: %+v", verdict.Violations)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	bad := DefaultConfig()
	bad.MinGeneration = 0
	if _, err := New(bad); err == nil {
		t.Fatal("expected error for zero min generation")
	}

	empty := DefaultConfig()
	empty.ExcludedFamilies = []string{"  "}
	if _, err := New(empty); err == nil {
		t.Fatal("expected error for blank excluded family")
	}
}
