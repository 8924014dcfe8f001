package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selectsense/internal/inputprocessor"
)

const testConfig = `
assist:
  provider: none
log:
  level: error
`

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o600))

	color.NoColor = true
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	// Subcommands only inherit the execute context when theirs is unset.
	c.SetContext(nil) //nolint:staticcheck
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestClassifyCommand(t *testing.T) {
	out, err := executeCommand(t, "", "classify", "Machine", "Learning")
	require.NoError(t, err)
	assert.Contains(t, out, "Category:  term")
	assert.Contains(t, out, "Define (define)")

	out, err = executeCommand(t, "", "classify", "--code", "total")
	require.NoError(t, err)
	assert.Contains(t, out, "Category:  code")
}

func TestClassifyCommand_Explain(t *testing.T) {
	out, err := executeCommand(t, "", "classify", "--explain", "function add(a, b) { return a + b; }")
	require.NoError(t, err)
	assert.Contains(t, out, "Category:  code")
	assert.Contains(t, out, "Signals:")
	assert.Contains(t, out, "keyword")
}

func TestClassifyCommand_StdinAndJSON(t *testing.T) {
	out, err := executeCommand(t, "What is a closure?\n", "classify", "--stdin", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"category": "question"`)
}

func TestClassifyCommand_HTMLHint(t *testing.T) {
	page := writeFile(t, "page.html", `<p>Call <code>render</code> once.</p>`)
	out, err := executeCommand(t, "", "classify", "--html", page, "render")
	require.NoError(t, err)
	assert.Contains(t, out, "Category:  code")
}

func TestClassifyCommand_Errors(t *testing.T) {
	_, err := executeCommand(t, "", "classify")
	assert.ErrorContains(t, err, "no selection given")

	_, err = executeCommand(t, "", "classify", "--strategy", "vote", "x")
	assert.ErrorContains(t, err, "--strategy")
}

func TestClassifyCommand_CascadeStrategy(t *testing.T) {
	out, err := executeCommand(t, "", "classify", "--strategy", "cascade", "--json", "What is a closure?")
	require.NoError(t, err)
	assert.Contains(t, out, `"strategy": "cascade"`)
}

func TestBatchCommand(t *testing.T) {
	doc := writeFile(t, "notes.txt", "Machine Learning\n\nfunction add(a, b) { return a + b; }\n")
	out, err := executeCommand(t, "", "batch", "--split", "paragraph", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "term")
	assert.Contains(t, out, "code")
	assert.Contains(t, out, "2 segments")

	_, err = executeCommand(t, "", "batch", "--split", "words", doc)
	assert.Error(t, err)
}

func TestBatchCommand_HTML(t *testing.T) {
	page := writeFile(t, "page.html", "<html><body><p>Machine Learning</p><pre>x := 1</pre></body></html>")
	out, err := executeCommand(t, "", "batch", "--json", page)
	require.NoError(t, err)
	assert.Contains(t, out, `"tag": "pre"`)
	assert.Contains(t, out, `"category": "code"`)
}

func TestHintCommand(t *testing.T) {
	page := writeFile(t, "page.html", `<div class="MathJax">a^2 + b^2</div>`)
	out, err := executeCommand(t, "", "hint", "--html", page, "a^2 + b^2")
	require.NoError(t, err)
	assert.Contains(t, out, "looks like math: yes")
	assert.Contains(t, out, "looks like code: no")

	_, err = executeCommand(t, "", "hint", "x")
	assert.ErrorContains(t, err, "--html is required")
}

func TestActionsCommand(t *testing.T) {
	out, err := executeCommand(t, "", "actions", "code")
	require.NoError(t, err)
	assert.Contains(t, out, "explain-code")
	assert.Contains(t, out, "debug-code")
	assert.NotContains(t, out, "translate")

	out, err = executeCommand(t, "", "actions")
	require.NoError(t, err)
	assert.Contains(t, out, "summarize-page")

	_, err = executeCommand(t, "", "actions", "poetry")
	assert.Error(t, err)
}

func TestAssistCommand_DisabledProvider(t *testing.T) {
	_, err := executeCommand(t, "", "assist", "define", "Machine Learning")
	assert.ErrorContains(t, err, "not configured")

	_, err = executeCommand(t, "", "assist", "defne", "Machine Learning")
	assert.ErrorContains(t, err, "did you mean")
}

func TestDoctorCommand(t *testing.T) {
	out, err := executeCommand(t, "", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "[ OK ] Validate configuration")
	assert.Contains(t, out, "[ OK ] Reply cache (memory)")
	assert.Contains(t, out, "[ OK ] Sentence tokenizer")
	assert.Contains(t, out, "[WARN] Assist provider none")
}

func TestDocumentText(t *testing.T) {
	page := inputprocessor.Result{
		Body:        `<html><body><nav>Menu</nav><article><p>Main text.</p></article></body></html>`,
		ContentType: "text/html; charset=utf-8",
	}
	got, err := documentText(page)
	require.NoError(t, err)
	assert.Equal(t, "Main text.", got)

	plain := inputprocessor.Result{Body: "<p>kept</p>", ContentType: "text/plain; charset=utf-8"}
	got, err = documentText(plain)
	require.NoError(t, err)
	assert.Equal(t, "<p>kept</p>", got)
}
