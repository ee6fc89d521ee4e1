package transform

import (
	"strings"
	"testing"

	"github.com/rvelez/cmend/pkg/analyzer"
)

func applyDefault(t *testing.T, src string) *Result {
	t.Helper()
	return applyWith(t, src, DefaultOptions())
}

func applyWith(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	a := analyzer.New()
	ctx, _ := a.AnalyzeContext(src)
	res, err := NewWithOptions(opts).Apply(a, ctx)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return res
}

func TestApplyCleanSourceUnchanged(t *testing.T) {
	src := `#include <stdio.h>

int main() {
    int total = 0;
    printf("%d", total);
    return 0;
}
`
	res := applyDefault(t, src)
	if res.Source != src {
		t.Errorf("clean source rewritten:\n%s", res.Source)
	}
	if !res.Stats.Empty() {
		t.Errorf("stats not empty: %+v", res.Stats)
	}
	if len(res.RemovedLines()) != 0 {
		t.Errorf("RemovedLines = %v, want none", res.RemovedLines())
	}
}

func TestApplyFixesBarePrintf(t *testing.T) {
	src := `int main() {
    int x = 5;
    printf(x);
    return 0;
}
`
	want := `int main() {
    int counter = 5;
    printf("%d", counter);
    return 0;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.Source, want)
	}
	if res.Stats.ExpressionsSimplified != 1 || res.Stats.VariablesRenamed != 1 {
		t.Errorf("stats: %+v", res.Stats)
	}
}

func TestApplyRemovesUnusedFunction(t *testing.T) {
	src := `#include <stdio.h>

int helper(int a) {
    return a + 1;
}

int main() {
    printf("hello");
    return 0;
}
`
	res := applyDefault(t, src)
	if strings.Contains(res.Source, "helper") {
		t.Errorf("helper survives:\n%s", res.Source)
	}
	if got := res.RemovedLines(); len(got) != 3 || got[0] != 3 || got[1] != 4 || got[2] != 5 {
		t.Errorf("RemovedLines = %v, want [3 4 5]", got)
	}
	if res.Stats.UnusedRemoved != 1 {
		t.Errorf("UnusedRemoved = %d, want 1", res.Stats.UnusedRemoved)
	}
}

func TestApplyRemovesDeadBlock(t *testing.T) {
	src := `int main() {
    if (0) {
        x = 1;
    }
    return 0;
}
`
	want := `int main() {
    return 0;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s", res.Source)
	}
	if res.Stats.DeadCodeRemoved != 1 {
		t.Errorf("DeadCodeRemoved = %d, want 1", res.Stats.DeadCodeRemoved)
	}
	if got := res.RemovedLines(); len(got) != 3 || got[0] != 2 {
		t.Errorf("RemovedLines = %v, want [2 3 4]", got)
	}
}

func TestApplyRemovesWhileTrue(t *testing.T) {
	src := `int main() {
    while (1) {
        x = 1;
    }
    return 0;
}
`
	res := applyDefault(t, src)
	if strings.Contains(res.Source, "while") {
		t.Errorf("infinite loop survives:\n%s", res.Source)
	}
	if res.Stats.DeadCodeRemoved != 1 {
		t.Errorf("DeadCodeRemoved = %d, want 1", res.Stats.DeadCodeRemoved)
	}
}

func TestApplyKeepsSingleLineLoopWithBreak(t *testing.T) {
	src := `int main() {
    int x = 1;
    while (1) { if (x) break; }
    return 0;
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, "while (1)") {
		t.Errorf("terminating loop removed:\n%s", res.Source)
	}
	if !strings.Contains(res.Source, "break;") {
		t.Errorf("loop body lost its break:\n%s", res.Source)
	}
	if len(res.RemovedLines()) != 0 {
		t.Errorf("RemovedLines = %v, want none", res.RemovedLines())
	}
}

func TestApplyDropsUndefinedCalls(t *testing.T) {
	src := `int main() {
    foo(1);
    return 0;
}
`
	res := applyDefault(t, src)
	if strings.Contains(res.Source, "foo") {
		t.Errorf("undefined call survives:\n%s", res.Source)
	}
	if res.Stats.DeadCodeRemoved != 1 {
		t.Errorf("DeadCodeRemoved = %d, want 1", res.Stats.DeadCodeRemoved)
	}
}

func TestApplyDropsUnusedDecl(t *testing.T) {
	src := `int main() {
    int x = 5;
    return 0;
}
`
	want := `int main() {
    return 0;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s", res.Source)
	}
	if res.Stats.UnusedRemoved != 1 || res.Stats.VariablesRenamed != 0 {
		t.Errorf("stats: %+v", res.Stats)
	}
}

func TestApplyKeepsDeclWithCallInitializer(t *testing.T) {
	src := `int getv() {
    return 4;
}

int main() {
    int x = getv();
    return 0;
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, "int counter = getv();") {
		t.Errorf("initializer call dropped:\n%s", res.Source)
	}
	if res.Stats.UnusedRemoved != 0 {
		t.Errorf("UnusedRemoved = %d, want 0", res.Stats.UnusedRemoved)
	}
}

func TestApplyStripsSelfAssignment(t *testing.T) {
	src := `int main() {
    int x = 1;
    x = x;
    return x;
}
`
	want := `int main() {
    int counter = 1;
    return counter;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s", res.Source)
	}
	if res.Stats.ExpressionsSimplified != 1 {
		t.Errorf("ExpressionsSimplified = %d, want 1", res.Stats.ExpressionsSimplified)
	}
}

func TestApplyFixesAssignmentCondition(t *testing.T) {
	src := `int main() {
    int x = 1;
    if (x = 2) {
        x = 3;
    }
    return x;
}
`
	want := `int main() {
    int counter = 1;
    if (counter == 2) {
        counter = 3;
    }
    return counter;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s", res.Source)
	}
	if res.Stats.ConditionsFixed != 1 {
		t.Errorf("ConditionsFixed = %d, want 1", res.Stats.ConditionsFixed)
	}
}

func TestApplyAppendsTerminator(t *testing.T) {
	src := `int main() {
    int total = 1
    return total;
}
`
	want := `int main() {
    int total = 1;
    return total;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s", res.Source)
	}
}

func TestApplyInsertsInitializer(t *testing.T) {
	src := `int main() {
    int x;
    x = x + 1;
    return x;
}
`
	want := `int main() {
    int counter = 0;
    counter = counter + 1;
    return counter;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s", res.Source)
	}
}

func TestApplyFoldsConstants(t *testing.T) {
	src := `int main() {
    int total = 2 + 3;
    return total;
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, "int total = 5;") {
		t.Errorf("constants not folded:\n%s", res.Source)
	}
	if res.Stats.ConstantsFolded != 1 {
		t.Errorf("ConstantsFolded = %d, want 1", res.Stats.ConstantsFolded)
	}
}

func TestApplySimplifiesIdentities(t *testing.T) {
	src := `int main() {
    int x = 4;
    int total = x + 0;
    return total;
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, "int total = counter;") {
		t.Errorf("identity not simplified:\n%s", res.Source)
	}
}

func TestApplyTightensLoopBound(t *testing.T) {
	src := `int main() {
    int data[5];
    for (int i = 0; i <= 5; i++) {
        data[i] = i;
    }
    return 0;
}
`
	opts := DefaultOptions()
	opts.Rename = false
	res := applyWith(t, src, opts)
	if !strings.Contains(res.Source, "for (int i = 0; i <= 4; i++) {") {
		t.Errorf("bound not tightened:\n%s", res.Source)
	}
	if res.Stats.ConditionsFixed != 1 {
		t.Errorf("ConditionsFixed = %d, want 1", res.Stats.ConditionsFixed)
	}
}

func TestApplyFixesScanf(t *testing.T) {
	src := `int main() {
    int x = 0;
    scanf("%d", x);
    return x;
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, `scanf("%d", &counter);`) {
		t.Errorf("address-of not inserted:\n%s", res.Source)
	}
}

func TestApplyRemovesEmptyControl(t *testing.T) {
	src := `int main() {
    int x = 1;
    if (x > 0);
    return x;
}
`
	res := applyDefault(t, src)
	if strings.Contains(res.Source, "if") {
		t.Errorf("empty control survives:\n%s", res.Source)
	}
	if got := res.RemovedLines(); len(got) != 1 || got[0] != 3 {
		t.Errorf("RemovedLines = %v, want [3]", got)
	}
}

func TestApplyDropsHeaderWithEmptyBody(t *testing.T) {
	src := `int main() {
    while (x > 0) {
    }
    return 0;
}
`
	want := `int main() {
    return 0;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s", res.Source)
	}
	if got := res.RemovedLines(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("RemovedLines = %v, want [2 3]", got)
	}
}

func TestApplySweepsUnreachable(t *testing.T) {
	src := `int main() {
    return 0;
    x = 1;
}
`
	want := `int main() {
    return 0;
}
`
	res := applyDefault(t, src)
	if res.Source != want {
		t.Errorf("got:\n%s", res.Source)
	}
	if res.Stats.DeadCodeRemoved != 1 {
		t.Errorf("DeadCodeRemoved = %d, want 1", res.Stats.DeadCodeRemoved)
	}
}

func TestApplyKeepsElseArmAfterReturn(t *testing.T) {
	src := `int check(int x) {
    if (x) {
        return 1;
    } else {
        return 2;
    }
}

int main() {
    return check(0);
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, "} else {") {
		t.Errorf("else arm removed:\n%s", res.Source)
	}
	if !strings.Contains(res.Source, "return 2;") {
		t.Errorf("else body removed:\n%s", res.Source)
	}
	if len(res.RemovedLines()) != 0 {
		t.Errorf("RemovedLines = %v, want none", res.RemovedLines())
	}
	if !res.Stats.Empty() {
		t.Errorf("stats not empty: %+v", res.Stats)
	}
}

func TestApplyFixesBraceParenConfusion(t *testing.T) {
	src := `int main() {
    int x = 1;
    while (x > 0} {
        x = x - 1;
    }
    return x;
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, "while (counter > 0) {") {
		t.Errorf("condition not repaired:\n%s", res.Source)
	}
	if res.Stats.ConditionsFixed != 1 {
		t.Errorf("ConditionsFixed = %d, want 1", res.Stats.ConditionsFixed)
	}
}

func TestApplyClosesBrackets(t *testing.T) {
	src := `int main() {
    int data[3];
    int sum = data[0;
    return sum;
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, "int sum = data[0];") {
		t.Errorf("bracket not closed:\n%s", res.Source)
	}
}

func TestApplyDefaultsParameterTypes(t *testing.T) {
	src := `int calc(x) {
    return x + 1;
}

int main() {
    return calc(1);
}
`
	res := applyDefault(t, src)
	if !strings.Contains(res.Source, "int calc(int x) {") {
		t.Errorf("parameter type not added:\n%s", res.Source)
	}
	if res.Stats.FunctionsAdded != 1 {
		t.Errorf("FunctionsAdded = %d, want 1", res.Stats.FunctionsAdded)
	}
}

func TestApplyIdempotent(t *testing.T) {
	src := `int main() {
    int x = 1;
    if (x = 2) {
        x = 3;
    }
    return x;
}
`
	first := applyDefault(t, src)
	second := applyDefault(t, first.Source)
	if second.Source != first.Source {
		t.Errorf("second pass rewrote again:\nfirst:\n%s\nsecond:\n%s", first.Source, second.Source)
	}
	if !second.Stats.Empty() {
		t.Errorf("second pass stats: %+v", second.Stats)
	}
}
