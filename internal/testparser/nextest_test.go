package testparser

import (
	"reflect"
	"testing"
)

func TestNextestParser(t *testing.T) {
	t.Parallel()
	parser := &NextestParser{}

	tests := []struct {
		name     string
		output   string
		expected TestCounts
	}{
		{
			name: "all passed",
			output: `    Starting 3 tests across 1 binary
        PASS [   0.003s] core tests::a
        PASS [   0.003s] core tests::b
        PASS [   0.004s] core tests::c
------------
     Summary [   0.010s] 3 tests run: 3 passed, 0 skipped`,
			expected: TestCounts{Passed: 3, Total: 3, Parsed: true},
		},
		{
			name:     "skipped tests",
			output:   "     Summary [   0.020s] 4 tests run: 4 passed, 2 skipped\n",
			expected: TestCounts{Passed: 4, Skipped: 2, Total: 6, Parsed: true},
		},
		{
			name:     "timed out counts as failed",
			output:   "     Summary [  60.001s] 3 tests run: 1 passed, 1 failed, 1 timed out, 0 skipped\n",
			expected: TestCounts{Passed: 1, Failed: 2, Total: 3, Parsed: true},
		},
		{
			name:     "no tests",
			output:   "     Summary [   0.000s] 0 tests run: 0 passed, 0 skipped\n",
			expected: TestCounts{Parsed: true},
		},
		{
			name:     "build failure",
			output:   "error: could not compile `core` (lib test) due to 1 previous error\n",
			expected: TestCounts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := parser.Parse(tt.output); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestNextestParser_FailedTests(t *testing.T) {
	t.Parallel()

	output := `    Starting 2 tests across 1 binary
        PASS [   0.003s] core tests::a
        FAIL [   0.004s] core tests::b
--- STDOUT:              core tests::b ---

running 1 test
test tests::b ... FAILED

--- STDERR:              core tests::b ---
thread 'tests::b' panicked at src/lib.rs:12:9:
expected a widget
note: run with ` + "`RUST_BACKTRACE=1`" + ` environment variable to display a backtrace

     TIMEOUT [  60.002s] core tests::slow
------------
     Summary [  60.010s] 3 tests run: 1 passed, 1 failed, 1 timed out, 0 skipped
        FAIL [   0.004s] core tests::b
     TIMEOUT [  60.002s] core tests::slow
error: test run failed
`

	got := (&NextestParser{}).Parse(output)

	want := []FailedTest{
		{Name: "core tests::b", Reason: "expected a widget"},
		{Name: "core tests::slow"},
	}
	if !reflect.DeepEqual(got.FailedTests, want) {
		t.Errorf("FailedTests = %+v, want %+v", got.FailedTests, want)
	}
	if got.Failed != 2 || got.Passed != 1 || got.Total != 3 {
		t.Errorf("counts = %+v", got)
	}
}
