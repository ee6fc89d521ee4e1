package transform

import "testing"

func TestFormatIndentationAndSpacing(t *testing.T) {
	lines := []string{
		"int main() {",
		"  int x=1;",
		"if (x==1) {",
		"x = x+1;",
		"}",
		"return 0;",
		"}",
	}
	want := `int main() {
    int x = 1;
    if (x == 1) {
        x = x + 1;
    }
    return 0;
}
`
	if got := Format(lines, 4); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatIndentWidth(t *testing.T) {
	lines := []string{"int main() {", "return 0;", "}"}
	want := "int main() {\n  return 0;\n}\n"
	if got := Format(lines, 2); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatCollapsesBlankLines(t *testing.T) {
	lines := []string{"", "a;", "", "", "", "b;"}
	want := "a;\n\nb;\n"
	if got := Format(lines, 4); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatSeparatesIncludeBlock(t *testing.T) {
	lines := []string{"#include <stdio.h>", "int main() {", "return 0;", "}"}
	want := "#include <stdio.h>\n\nint main() {\n    return 0;\n}\n"
	if got := Format(lines, 4); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatSeparatesTopLevelDefinitions(t *testing.T) {
	lines := []string{"int f() {", "return 1;", "}", "int g() {", "return 2;", "}"}
	want := "int f() {\n    return 1;\n}\n\nint g() {\n    return 2;\n}\n"
	if got := Format(lines, 4); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatLeavesLiteralsAlone(t *testing.T) {
	lines := []string{"int main() {", `printf("a ==b,c");`, "}"}
	want := "int main() {\n    printf(\"a ==b,c\");\n}\n"
	if got := Format(lines, 4); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatKeepsCompactOperators(t *testing.T) {
	tests := []struct{ in, want string }{
		{"i++;", "i++;"},
		{"x = -1;", "x = -1;"},
		{"f(a, -2);", "f(a, -2);"},
		{"x=a/b;", "x = a / b;"},
		{"x += 2;", "x += 2;"},
	}
	for _, tt := range tests {
		if got := Format([]string{tt.in}, 4); got != tt.want+"\n" {
			t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want+"\n")
		}
	}
}

func TestFormatReattachesComments(t *testing.T) {
	got := Format([]string{"x=1;   // note"}, 4)
	if got != "x = 1; // note\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatPreprocessorAtColumnZero(t *testing.T) {
	lines := []string{"int main() {", "    #define STEP 2", "return 0;", "}"}
	got := Format(lines, 4)
	want := "int main() {\n#define STEP 2\n    return 0;\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
